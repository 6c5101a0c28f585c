package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMA_SeededWithFirstValue(t *testing.T) {
	for _, span := range []int{1, 2, 9, 12, 26, 200} {
		out := EMA([]float64{42.5, 43, 41}, span)
		require.Len(t, out, 3)
		assert.Equal(t, 42.5, out[0], "span %d", span)
	}
}

func TestEMA_HandCalculated(t *testing.T) {
	// alpha = 2/13
	// ema[1] = 10 + (11-10)*2/13           = 10.153846153846...
	// ema[2] = 9*2/13 + ema[1]*11/13       =  9.976331360946...
	closes := []float64{10, 11, 9, 12, 13}
	want := []float64{10, 10.153846153846153, 9.976331360946745, 10.28766499772417, 10.704947305766606}

	got := EMA(closes, 12)
	for i := range want {
		assertClose(t, "EMA(12)", got[i], want[i], 1e-12)
	}
}

func TestEMA_EmptyAndInvalidSpan(t *testing.T) {
	assert.Empty(t, EMA(nil, 12))

	out := EMA([]float64{1, 2}, 0)
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
}

func TestMACD_DifferenceAndSignal(t *testing.T) {
	closes := []float64{10, 11, 9, 12, 13}
	fast, slow, macd, signal := MACD(closes, 12, 26, 9)

	for i := range closes {
		assert.Equal(t, fast[i]-slow[i], macd[i], "macd[%d] must equal ema12-ema26 exactly", i)
	}
	wantSignal := []float64{0, 0.01595441595441578, 0.009127198642867783, 0.036221234098004346, 0.09902799994920242}
	for i := range wantSignal {
		assertClose(t, "signal", signal[i], wantSignal[i], 1e-12)
	}
	assert.Equal(t, 0.0, macd[0])
	assert.Equal(t, 0.0, signal[0])
}

func TestCompareLines(t *testing.T) {
	nan := math.NaN()
	above, below := CompareLines(
		[]float64{1, 2, 3, nan},
		[]float64{2, 2, 1, 0},
	)
	assert.Equal(t, []bool{false, false, true, false}, above)
	assert.Equal(t, []bool{true, false, false, false}, below)
}

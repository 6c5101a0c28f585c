package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRSI_MinimumWindowOfOne(t *testing.T) {
	// deltas:   -, +1, -2, +3, +1   (row 0 counts as zero gain/loss)
	// row 2: gain 1/3, loss 2/3 -> rs 0.5 -> 33.33
	// row 3: gain 4/4, loss 2/4 -> rs 2   -> 66.67
	// row 4: gain 5/5, loss 2/5 -> rs 2.5 -> 71.43
	rsi := RSI([]float64{10, 11, 9, 12, 13}, 14)

	assert.True(t, math.IsNaN(rsi[0]), "first row has no delta")
	assert.Equal(t, 100.0, rsi[1])
	assertClose(t, "rsi[2]", rsi[2], 100.0/3, 1e-9)
	assertClose(t, "rsi[3]", rsi[3], 200.0/3, 1e-9)
	assertClose(t, "rsi[4]", rsi[4], 500.0/7, 1e-9)
}

func TestRSI_SaturatesWithoutLosses(t *testing.T) {
	rsi := RSI([]float64{100, 101, 103, 104, 108, 109}, 3)
	for i := 1; i < len(rsi); i++ {
		assert.Equal(t, 100.0, rsi[i], "row %d", i)
	}
}

func TestRSI_AllLosses(t *testing.T) {
	rsi := RSI([]float64{106, 104, 102, 100}, 3)
	for i := 1; i < len(rsi); i++ {
		assert.Equal(t, 0.0, rsi[i], "row %d", i)
	}
}

func TestRSI_FlatWindowIsUndefined(t *testing.T) {
	rsi := RSI([]float64{50, 50, 50, 51, 51, 51, 51}, 3)

	assert.True(t, math.IsNaN(rsi[1]))
	assert.True(t, math.IsNaN(rsi[2]))
	assert.Equal(t, 100.0, rsi[3])
	// window rows 4..6 no longer sees the +1 move
	assert.Equal(t, 100.0, rsi[5])
	assert.True(t, math.IsNaN(rsi[6]))
}

func TestRSI_FullWindowDropsOldDeltas(t *testing.T) {
	// period 2: row 3 averages deltas of rows 2 and 3 only
	rsi := RSI([]float64{10, 20, 19, 18}, 2)
	assert.Equal(t, 0.0, rsi[3])
}

func TestRSI_Bounded(t *testing.T) {
	closes := zigzag(300, 100)
	for i, v := range RSI(closes, 14) {
		if math.IsNaN(v) {
			assert.Equal(t, 0, i, "only the first row may be undefined")
			continue
		}
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

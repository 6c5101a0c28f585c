package logger

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"RallyFinder/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level   string
		want    logrus.Level
		wantErr bool
	}{
		{"", logrus.InfoLevel, false},
		{"debug", logrus.DebugLevel, false},
		{"warn", logrus.WarnLevel, false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, err := New(config.Logging{Level: tt.level})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, log.GetLevel())
		})
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	_, err := New(config.Logging{Format: "xml"})
	assert.Error(t, err)
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(config.Logging{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)
	_, isJSON := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}

func TestTextFormatter_SortsFields(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&TextFormatter{TimestampFormat: "15:04"})

	WithSymbol(WithComponent(log, "pipeline"), "AAPL").Info("done")

	line := buf.String()
	assert.Contains(t, line, "INFO done | component=pipeline symbol=AAPL")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

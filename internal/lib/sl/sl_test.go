package sl

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErr_ReturnsCorrectAttr(t *testing.T) {
	err := errors.New("something went wrong")
	attr := Err(err)

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("something went wrong"), attr.Value)
}

func TestErr_NilError(t *testing.T) {
	assert.NotPanics(t, func() {
		attr := Err(nil)
		assert.Equal(t, "<nil>", attr.Value.String())
	})
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		env       string
		wantDebug bool
		wantInfo  bool
		wantJSON  bool
	}{
		{env: EnvLocal, wantDebug: true, wantInfo: true},
		{env: EnvDevelopment, wantDebug: false, wantInfo: true},
		{env: EnvProduction, wantDebug: false, wantInfo: false, wantJSON: true},
		{env: "", wantDebug: false, wantInfo: false, wantJSON: true},
	}

	for _, tt := range tests {
		t.Run("env="+tt.env, func(t *testing.T) {
			var buf bytes.Buffer
			log := newLogger(&buf, tt.env)

			assert.Equal(t, tt.wantDebug, log.Enabled(context.Background(), slog.LevelDebug))
			assert.Equal(t, tt.wantInfo, log.Enabled(context.Background(), slog.LevelInfo))

			log.Warn("warn message")
			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"warn message"`)
			} else {
				assert.Contains(t, buf.String(), "msg=\"warn message\"")
			}
		})
	}
}

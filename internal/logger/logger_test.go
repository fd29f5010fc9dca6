package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		json      bool
		debug     bool
		wantDebug bool
	}{
		{"console info", false, false, false},
		{"json info", true, false, false},
		{"console debug", false, true, true},
		{"json debug", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.json, tt.debug)
			require.NoError(t, err)
			require.NotNil(t, l)
			assert.Equal(t, tt.wantDebug, l.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		})
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"short", "Go developer", 20, "Go developer"},
		{"collapses whitespace", "Go\n\n  developer\t", 20, "Go developer"},
		{"truncates", "Senior Python developer", 6, "Senior..."},
		{"multibyte", "résumé matcher", 6, "résumé..."},
		{"zero limit", "anything", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preview(tt.in, tt.limit))
		})
	}
}

func TestDocument(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	l := zap.New(core)

	l.Info("extracted", Document("cv.pdf", "pdf")...)
	l.Info("extracted", Document("cv", "")...)

	entries := observed.All()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]interface{}{"document_id": "cv.pdf", "format": "pdf"}, entries[0].ContextMap())
	assert.Equal(t, map[string]interface{}{"document_id": "cv"}, entries[1].ContextMap())
}

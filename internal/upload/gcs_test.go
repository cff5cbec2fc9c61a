package upload

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestGCSBackend(t *testing.T, prefix string) *GCSBackend {
	t.Helper()
	g, err := NewGCSBackend(context.Background(), "qrdrop-uploads", prefix, option.WithoutAuthentication())
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestGCSBackendURL(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{"plain", "", "report.pdf", "https://storage.googleapis.com/qrdrop-uploads/report.pdf"},
		{"prefixed", "uploads/", "report.pdf", "https://storage.googleapis.com/qrdrop-uploads/uploads/report.pdf"},
		{"spaces", "uploads/", "my file.txt", "https://storage.googleapis.com/qrdrop-uploads/uploads/my%20file.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGCSBackend(t, tt.prefix)
			assert.Equal(t, tt.want, g.URL("http://ignored.example", tt.key))
		})
	}
}

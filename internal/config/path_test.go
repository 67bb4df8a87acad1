package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("SUBTALLY_TEST_DIR", "/tmp/subtally")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"absolute untouched", "/var/data/history.db", "/var/data/history.db"},
		{"tilde prefix", "~/data/history.db", filepath.Join(home, "data", "history.db")},
		{"bare tilde", "~", home},
		{"env var", "$SUBTALLY_TEST_DIR/history.db", "/tmp/subtally/history.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kern/internal/core/domain"
)

func TestRun(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		config       string
		args         []string
		expectedExit int
	}{
		{
			name: "Success with valid config",
			config: `version: "1"
model:
  vertices:
    - {id: a, at: [0, 0]}
    - {id: b, at: [1, 0]}
  associations:
    - {type: PointOnPoint, entity: a, targets: [b]}
`,
			args:         []string{"kern", "check"},
			expectedExit: 0,
		},
		{
			name:         "Unsupported version",
			config:       "version: \"2\"\n",
			args:         []string{"kern", "check"},
			expectedExit: 1,
		},
		{
			name:         "Unknown command",
			config:       "version: \"1\"\n",
			args:         []string{"kern", "nope"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")
			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, domain.KernFileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.config), domain.PrivateFilePerm))

			os.Args = append(append([]string{}, tt.args[0], "-C", tmpDir), tt.args[1:]...)

			assert.Equal(t, tt.expectedExit, run())
		})
	}
}

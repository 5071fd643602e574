package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sadopc/pathlen/internal/pathlength"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON_NilReplacementStaysNil(t *testing.T) {
	data := `{"header":{"progname":"pathlen","progver":"dev","scan_id":"x","timestamp":0},
 "search":{"root":"/r","pattern":"*","recursive":false,"types":"directories","strategy":"fast","min_length":0,"max_length":999999,"unit":"runes"},
 "paths":[
{"path":"/r/a","length":4}
]}`
	got, err := ReadJSON(strings.NewReader(data))
	require.NoError(t, err)

	assert.Nil(t, got.Options.RootDirectoryReplacement)
	assert.False(t, got.Options.Recursive)
	assert.Equal(t, "directories", got.Options.TypesToGet.String())
	assert.Equal(t, []pathlength.PathInfo{{Path: "/r/a", Length: 4}}, got.Paths)
	assert.False(t, got.Cancelled)
}

func TestImportJSON_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"not json", `[1,0`, "invalid JSON"},
		{"missing header", `{"paths":[]}`, "missing header"},
		{"foreign program", `{"header":{"progname":"othertool"},"search":{},"paths":[]}`, `written by "othertool"`},
		{"bad strategy", `{"header":{"progname":"pathlen"},"search":{"strategy":"slow"},"paths":[]}`, "unknown traversal strategy"},
		{"bad unit", `{"header":{"progname":"pathlen"},"search":{"strategy":"safe","unit":"inches"},"paths":[]}`, "unknown length unit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))

			_, err := ImportJSON(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestImportJSON_MissingFile(t *testing.T) {
	_, err := ImportJSON(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot open import file")
}

package interpreter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type scriptCase struct {
	Name   string   `yaml:"name"`
	Args   []string `yaml:"args"`
	Source string   `yaml:"source"`
	Output string   `yaml:"output"`
	Error  string   `yaml:"error"`
}

type scriptFile struct {
	Cases []scriptCase `yaml:"cases"`
}

func loadScriptCases(t *testing.T) []scriptCase {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", "programs.yaml"))
	require.NoError(t, err)

	var f scriptFile
	require.NoError(t, yaml.Unmarshal(raw, &f))
	require.NotEmpty(t, f.Cases)
	return f.Cases
}

func TestScriptPrograms(t *testing.T) {
	for _, tc := range loadScriptCases(t) {
		t.Run(tc.Name, func(t *testing.T) {
			in := NewWithSource(tc.Name+".bb", tc.Source)
			var out strings.Builder
			in.SetOutput(&out)
			in.SetArgs(tc.Args)

			err := in.Run()

			if tc.Error != "" {
				var rte RuntimeError
				require.ErrorAs(t, err, &rte)
				require.Equal(t, tc.Error, rte.Kind.String())
				return
			}

			require.NoError(t, err)
			if diff := cmp.Diff(tc.Output, out.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

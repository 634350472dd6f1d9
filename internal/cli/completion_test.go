package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/statgrid/internal/errors"
)

func TestWriteCompletion(t *testing.T) {
	tests := []struct {
		shell string
		want  []string
	}{
		{shell: "bash", want: []string{"# bash completion", "__statgrid_debug"}},
		{shell: "zsh", want: []string{"#compdef statgrid", "_statgrid()"}},
		{shell: "fish", want: []string{"fish completion for statgrid", "complete -c statgrid"}},
		{shell: "powershell", want: []string{"Register-ArgumentCompleter"}},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeCompletion(&buf, rootCmd, tt.shell))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestWriteCompletion_UnknownShell(t *testing.T) {
	err := writeCompletion(&bytes.Buffer{}, rootCmd, "tcsh")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestRootCommandTree(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"dashboard", "catalog", "prefs", "config", "doctor", "completion", "version"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "endpoint", "demo", "debug", "from", "to", "prefs"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
	assert.True(t, rootCmd.PersistentFlags().Lookup("prefs").Hidden)
	assert.True(t, strings.HasPrefix(rootCmd.Use, "statgrid"))
}

package cli

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valorkin/mf-loadable-adapter/internal/app"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want *app.Config
	}{
		{
			name: "emit",
			args: []string{"emit", "-stats", "stats.json", "-out", "dist", "-c", "a.hcl,b.yaml"},
			want: &app.Config{Command: app.CommandEmit, StatsPath: "stats.json", OutputDir: "dist", ConfigPaths: []string{"a.hcl", "b.yaml"}, LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "tags with ids",
			args: []string{"tags", "-config", "cfg", "-load-mode", "async", "-log-format", "JSON", "shop-Cart", "nav-Menu"},
			want: &app.Config{Command: app.CommandTags, LoadMode: "async", ComponentIDs: []string{"shop-Cart", "nav-Menu"}, ConfigPaths: []string{"cfg"}, LogFormat: "json", LogLevel: "info"},
		},
		{
			name: "transform defaults",
			args: []string{"transform", "-root", "build/server", "-log-level", "debug"},
			want: &app.Config{Command: app.CommandTransform, SourceRoot: "build/server", SourcePattern: "**/*.js", ConfigPaths: []string{"."}, LogFormat: "text", LogLevel: "debug"},
		},
		{
			name: "serve",
			args: []string{"serve", "-addr", "127.0.0.1:9000"},
			want: &app.Config{Command: app.CommandServe, ListenAddr: "127.0.0.1:9000", ConfigPaths: []string{"."}, LogFormat: "text", LogLevel: "info"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, exit, err := Parse(tc.args, &bytes.Buffer{})
			require.NoError(t, err)
			assert.False(t, exit)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Help(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{nil, {"-h"}, {"help"}, {"emit", "-h"}} {
		out := &bytes.Buffer{}
		cfg, exit, err := Parse(args, out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"unknown command", []string{"bundle"}, `unknown command "bundle"`},
		{"unknown flag", []string{"serve", "--nope"}, "flag provided but not defined: -nope"},
		{"emit without stats", []string{"emit", "-out", "dist"}, "emit requires a stats file"},
		{"tags without input", []string{"tags"}, "tags requires component ids"},
		{"stray arguments", []string{"serve", "extra"}, "unexpected arguments: extra"},
		{"bad log format", []string{"serve", "-log-format", "xml"}, "invalid log-format"},
		{"bad log level", []string{"serve", "-log-level", "trace"}, "invalid log-level"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}

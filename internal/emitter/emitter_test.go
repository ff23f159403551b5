package emitter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valorkin/mf-loadable-adapter/internal/manifest"
	"github.com/valorkin/mf-loadable-adapter/internal/registry"
	"github.com/valorkin/mf-loadable-adapter/internal/stats"
)

func chunkFiles(refs []manifest.ChunkRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Chunk
	}
	return out
}

func widgetRegistry(plugins ...registry.Plugin) *registry.Registry {
	all := append([]registry.Plugin{registry.ContainerPlugin{
		Kind: registry.KindModuleFederation,
		Name: "shell",
		Exposes: map[string]registry.ExposeEntry{
			"./Widget": {Import: "./src/Widget"},
		},
	}}, plugins...)
	return registry.New(all...)
}

func TestNew_RequiresModuleFederation(t *testing.T) {
	t.Parallel()

	_, err := New(registry.New())
	require.ErrorIs(t, err, ErrNoFederationPlugin)

	_, err = New(registry.New(registry.ContainerPlugin{Kind: registry.KindNodeFederation, Name: "shell"}))
	require.ErrorIs(t, err, ErrNoFederationPlugin)

	e, err := New(widgetRegistry(), WithFileName("mf.json"))
	require.NoError(t, err)
	assert.Equal(t, "mf.json", e.FileName())
}

func TestBuildManifest_ExposedWidget(t *testing.T) {
	t.Parallel()

	graph := &stats.Stats{
		Modules: []stats.Module{
			{ID: manifest.StringID("./src/Widget.tsx"), Name: "./src/Widget.tsx", IssuerName: stats.ContainerEntryIssuer, Chunks: []stats.ID{"1"}},
			// Same file imported from the app itself must be ignored.
			{ID: manifest.StringID("./src/Widget.tsx"), Name: "./src/Widget.tsx", IssuerName: "./src/index.ts", Chunks: []stats.ID{"9"}},
		},
		Chunks: []stats.Chunk{
			{ID: "1", Files: []string{"a.js", "b.css"}, Runtime: stats.StringList{"shell"}},
			{ID: "9", Files: []string{"main.js"}, Runtime: stats.StringList{"shell"}},
		},
	}

	e, err := New(widgetRegistry())
	require.NoError(t, err)
	m := e.BuildManifest(graph)

	assert.Equal(t, "shell", m.Name)
	require.Contains(t, m.Exposes, "Widget")
	assert.Equal(t, []string{"a.js", "b.css"}, chunkFiles(m.Exposes["Widget"]))
	for _, ref := range m.Exposes["Widget"] {
		assert.Equal(t, "./src/Widget.tsx", ref.ID.String())
	}
}

func TestBuildManifest_SiblingsAndRuntimes(t *testing.T) {
	t.Parallel()

	graph := &stats.Stats{
		Modules: []stats.Module{
			{ID: manifest.NumberID(5), Name: "./src/Cart.jsx", IssuerName: stats.ContainerEntryIssuer, Chunks: []stats.ID{"10", "11", "404"}},
		},
		Chunks: []stats.Chunk{
			{ID: "10", Files: []string{"cart.js"}, Siblings: []stats.ID{"20", "missing"}, Runtime: stats.StringList{"shell", "main"}},
			{ID: "11", Files: []string{"cart.node.js"}, Runtime: stats.StringList{"server"}},
			{ID: "20", Files: []string{"vendors.js", "vendors.css"}, Runtime: stats.StringList{"shell"}},
		},
	}

	reg := registry.New(registry.ContainerPlugin{
		Kind:        registry.KindModuleFederation,
		Name:        "shell",
		LibraryName: "shell_lib",
		Exposes: map[string]registry.ExposeEntry{
			"./Cart": {Import: "./src/Cart.jsx"},
		},
	})
	e, err := New(reg)
	require.NoError(t, err)
	m := e.BuildManifest(graph)

	assert.Equal(t, "shell_lib", m.Name)
	want := []string{"vendors.js", "vendors.css", "cart.js"}
	if diff := cmp.Diff(want, chunkFiles(m.Exposes["Cart"])); diff != "" {
		t.Errorf("chunk order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "5", m.Exposes["Cart"][0].ID.String())
}

func TestBuildManifest_NothingExposed(t *testing.T) {
	t.Parallel()

	e, err := New(widgetRegistry())
	require.NoError(t, err)
	m := e.BuildManifest(&stats.Stats{})
	assert.Empty(t, m.Exposes)
}

func TestOnAssetsEmit_RequiresGraphPhase(t *testing.T) {
	t.Parallel()

	e, err := New(widgetRegistry())
	require.NoError(t, err)
	require.Error(t, e.OnAssetsEmit(context.Background(), newDirCompilation(t.TempDir())))
}

const buildStats = `{
  "modules": [
    {"id": 7, "name": "./src/Widget.tsx", "issuerName": "container entry", "chunks": [1]}
  ],
  "chunks": [
    {"id": 1, "files": ["a.js", "b.css"], "siblings": [], "runtime": ["shell"]}
  ],
  "assets": [
    {"name": "a.js", "integrity": ["sha384-fromstats other"]},
    {"name": "b.css"}
  ]
}`

func writeBuild(t *testing.T) (statsPath, outDir string) {
	t.Helper()
	dir := t.TempDir()
	statsPath = filepath.Join(dir, "stats.json")
	outDir = filepath.Join(dir, "dist")
	require.NoError(t, os.WriteFile(statsPath, []byte(buildStats), 0644))
	require.NoError(t, os.MkdirAll(outDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "a.js"), []byte("console.log(1)"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "b.css"), []byte("body{}"), 0644))
	return statsPath, outDir
}

func TestStatsBuild_WithoutIntegrity(t *testing.T) {
	t.Parallel()

	statsPath, outDir := writeBuild(t)
	e, err := New(widgetRegistry())
	require.NoError(t, err)

	build := &StatsBuild{StatsPath: statsPath, OutputDir: outDir}
	require.NoError(t, build.Run(context.Background(), e))

	m, err := manifest.ReadFile(filepath.Join(outDir, manifest.DefaultFileName))
	require.NoError(t, err)
	require.Len(t, m.Exposes["Widget"], 2)
	for _, ref := range m.Exposes["Widget"] {
		assert.Empty(t, ref.Integrity)
	}
}

func TestStatsBuild_IntegrityFromStats(t *testing.T) {
	t.Parallel()

	statsPath, outDir := writeBuild(t)
	// A manifest from a previous build must be replaced, not duplicated.
	require.NoError(t, os.WriteFile(filepath.Join(outDir, manifest.DefaultFileName), []byte(`{"name":"old","exposes":{}}`), 0644))

	e, err := New(widgetRegistry(registry.IntegrityPlugin{}))
	require.NoError(t, err)

	build := &StatsBuild{StatsPath: statsPath, OutputDir: outDir}
	require.NoError(t, build.Run(context.Background(), e))

	m, err := manifest.ReadFile(filepath.Join(outDir, manifest.DefaultFileName))
	require.NoError(t, err)
	assert.Equal(t, "shell", m.Name)
	require.Len(t, m.Exposes["Widget"], 2)
	assert.Equal(t, "sha384-fromstats", m.Exposes["Widget"][0].Integrity)
	assert.Empty(t, m.Exposes["Widget"][1].Integrity)
}

func TestStatsBuild_ComputesMissingIntegrity(t *testing.T) {
	t.Parallel()

	statsPath, outDir := writeBuild(t)
	e, err := New(widgetRegistry(registry.IntegrityPlugin{Algorithm: "sha256"}))
	require.NoError(t, err)

	build := &StatsBuild{StatsPath: statsPath, OutputDir: outDir}
	require.NoError(t, build.Run(context.Background(), e))

	m, err := manifest.ReadFile(filepath.Join(outDir, manifest.DefaultFileName))
	require.NoError(t, err)

	wantCSS, err := Digest("sha256", []byte("body{}"))
	require.NoError(t, err)
	assert.Equal(t, "sha384-fromstats", m.Exposes["Widget"][0].Integrity)
	assert.Equal(t, wantCSS, m.Exposes["Widget"][1].Integrity)
}

func TestStatsBuild_MissingStats(t *testing.T) {
	t.Parallel()

	e, err := New(widgetRegistry())
	require.NoError(t, err)
	build := &StatsBuild{StatsPath: filepath.Join(t.TempDir(), "none.json"), OutputDir: t.TempDir()}
	require.Error(t, build.Run(context.Background(), e))
}

func TestDigest(t *testing.T) {
	t.Parallel()

	// Known SRI value for the empty input.
	got, err := Digest("sha256", nil)
	require.NoError(t, err)
	assert.Equal(t, "sha256-47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=", got)

	_, err = Digest("md5", nil)
	require.Error(t, err)
}

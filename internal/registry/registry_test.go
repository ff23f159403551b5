package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_PluginsAndLookup(t *testing.T) {
	t.Parallel()

	r := New(
		ContainerPlugin{Kind: KindModuleFederation, Name: "shell", Exposes: map[string]ExposeEntry{"./Widget": {Import: "./src/Widget"}}},
		IntegrityPlugin{Algorithm: "sha384"},
	)

	c, ok := r.Federation()
	require.True(t, ok)
	assert.Equal(t, "shell", c.Name)
	assert.Equal(t, "shell", c.ManifestName())

	i, ok := r.Integrity()
	require.True(t, ok)
	assert.Equal(t, "sha384", i.Algorithm)

	require.NoError(t, r.Validate(context.Background()))
}

func TestRegistry_Empty(t *testing.T) {
	t.Parallel()

	r := New()
	_, ok := r.Federation()
	assert.False(t, ok)
	_, ok = r.Integrity()
	assert.False(t, ok)

	var nilReg *Registry
	_, ok = nilReg.Federation()
	assert.False(t, ok)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	t.Parallel()

	r := New(ContainerPlugin{Name: "a", Kind: KindModuleFederation})
	assert.Panics(t, func() { r.RegisterFederation(Container{Name: "b"}) })

	r.RegisterIntegrity(Integrity{})
	assert.Panics(t, func() { r.RegisterIntegrity(Integrity{}) })
}

func TestContainer_ManifestNamePrefersLibrary(t *testing.T) {
	t.Parallel()

	c := Container{Name: "shell", LibraryName: "shell_lib"}
	assert.Equal(t, "shell_lib", c.ManifestName())
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	r := New(
		ContainerPlugin{Kind: "webpack4", Exposes: map[string]ExposeEntry{"./A": {}}},
		IntegrityPlugin{Algorithm: "md5"},
	)
	err := r.Validate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "unknown kind 'webpack4'")
	assert.Contains(t, err.Error(), "expose './A' has no import")
	assert.Contains(t, err.Error(), "unsupported algorithm 'md5'")
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"", KindModuleFederation, true},
		{"Node", KindNodeFederation, true},
		{" universal ", KindUniversalFederation, true},
		{"classic", Kind("classic"), false},
	}
	for _, tc := range testCases {
		got, ok := ParseKind(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}

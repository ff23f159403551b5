package tags

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []Asset{
	{URL: "http://x/cart.js", Kind: KindScript, Integrity: "sha256-abc"},
	{URL: "http://x/cart.css", Kind: KindStyle},
	{URL: "http://x/vendor.mjs", Kind: KindScript},
}

func TestFilter(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		kind Kind
		want []string
	}{
		{"all", "", []string{"http://x/cart.js", "http://x/cart.css", "http://x/vendor.mjs"}},
		{"scripts", KindScript, []string{"http://x/cart.js", "http://x/vendor.mjs"}},
		{"styles", KindStyle, []string{"http://x/cart.css"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var got []string
			for _, a := range Filter(sample, tc.kind) {
				got = append(got, a.URL)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScriptTags(t *testing.T) {
	t.Parallel()

	// --- Act ---
	got := ScriptTags(sample, nil, ScriptOptions{})

	// --- Assert ---
	want := `<script defer src="http://x/cart.js" integrity="sha256-abc"></script>` + "\n" +
		`<script defer src="http://x/vendor.mjs"></script>`
	assert.Equal(t, want, got)
	assert.Equal(t, 2, strings.Count(got, "<script "))
}

func TestScriptTags_AsyncAndFixedProps(t *testing.T) {
	t.Parallel()

	got := ScriptTags(sample[:1], Props{"nonce": "n1", "crossorigin": "anonymous"}, ScriptOptions{LoadMode: LoadAsync})
	assert.Equal(t, `<script async src="http://x/cart.js" integrity="sha256-abc" crossorigin="anonymous" nonce="n1"></script>`, got)
}

func TestScriptTags_PropsFunc(t *testing.T) {
	t.Parallel()

	props := PropsFunc(func(a Asset) map[string]string {
		return map[string]string{"data-url": a.URL}
	})
	got := ScriptTags(sample, props, ScriptOptions{})
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `data-url="http://x/cart.js"`)
	assert.Contains(t, lines[1], `data-url="http://x/vendor.mjs"`)
}

func TestScriptTags_VerbatimUnlessEscaped(t *testing.T) {
	t.Parallel()

	asset := []Asset{{URL: "http://x/a.js", Kind: KindScript}}
	props := Props{"data-x": `"><b>`}

	raw := ScriptTags(asset, props, ScriptOptions{})
	assert.Contains(t, raw, `data-x=""><b>"`)

	escaped := ScriptTags(asset, props, ScriptOptions{Escape: true})
	assert.Contains(t, escaped, `data-x="&#34;&gt;&lt;b&gt;"`)
}

func TestStyleTags(t *testing.T) {
	t.Parallel()

	got := StyleTags(sample, Props{"media": "all"})
	assert.Equal(t, `<link rel="stylesheet" href="http://x/cart.css" media="all">`, got)

	got = StyleTagsEscaped([]Asset{{URL: "http://x/a.css?v=1&b=2", Kind: KindStyle}}, nil)
	assert.Equal(t, `<link rel="stylesheet" href="http://x/a.css?v=1&amp;b=2">`, got)
}

func TestTags_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ScriptTags(nil, nil, ScriptOptions{}))
	assert.Empty(t, StyleTags(nil, nil))
}

func TestParseLoadMode(t *testing.T) {
	t.Parallel()

	m, ok := ParseLoadMode("")
	require.True(t, ok)
	assert.Equal(t, LoadDefer, m)

	m, ok = ParseLoadMode("async")
	require.True(t, ok)
	assert.Equal(t, LoadAsync, m)

	_, ok = ParseLoadMode("eager")
	assert.False(t, ok)
}

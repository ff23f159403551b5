package loadable

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rendered = `<!doctype html>
<html><head><title>shop</title></head>
<body>
<div id="root"><p>Cart &amp; more</p></div>
<script id="__LOADABLE_REQUIRED_CHUNKS__" type="application/json">[1,2]</script>
<script id="__LOADABLE_REQUIRED_CHUNKS___ext" type="application/json">{"namedChunks":["shop-Cart","home","shop-Pay&Go"]}</script>
<script src="/main.js"></script>
</body></html>`

func TestFromHTML(t *testing.T) {
	t.Parallel()

	// --- Act ---
	els, err := FromHTML(strings.NewReader(rendered))

	// --- Assert ---
	require.NoError(t, err)
	want := Elements{
		{Key: "__LOADABLE_REQUIRED_CHUNKS__", InnerHTML: "[1,2]"},
		{Key: RequiredChunksKey, InnerHTML: `{"namedChunks":["shop-Cart","home","shop-Pay&Go"]}`},
	}
	if diff := cmp.Diff(want, els); diff != "" {
		t.Errorf("FromHTML mismatch (-want +got):\n%s", diff)
	}

	ids, err := RequiredComponents(els)
	require.NoError(t, err)
	assert.Equal(t, []string{"shop-Cart", "home", "shop-Pay&Go"}, ids)
}

func TestRequiredComponents(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     Source
		want    []string
		wantErr bool
	}{
		{
			name: "payload present",
			src:  Elements{{Key: "other", InnerHTML: "x"}, {Key: RequiredChunksKey, InnerHTML: `{"namedChunks":["a-B"]}`}},
			want: []string{"a-B"},
		},
		{
			name: "payload absent",
			src:  Elements{{Key: "other", InnerHTML: "x"}},
		},
		{
			name:    "payload malformed",
			src:     Elements{{Key: RequiredChunksKey, InnerHTML: "{"}},
			wantErr: true,
		},
		{
			name: "named chunks source",
			src:  NamedChunks{"shop-Cart", "nav"},
			want: []string{"shop-Cart", "nav"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := RequiredComponents(tc.src)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidPayload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

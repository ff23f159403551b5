package collector

import (
	"github.com/valorkin/mf-loadable-adapter/internal/manifest"
	"github.com/valorkin/mf-loadable-adapter/internal/tags"
)

// Result is the outcome of one collection pass. Assets follow manifest chunk
// order within a component and components in the order they were rendered.
type Result struct {
	Chunks []manifest.ChunkRef
	assets []tags.Asset
}

// Assets returns the assets of kind, or all assets when kind is empty.
func (r *Result) Assets(kind tags.Kind) []tags.Asset {
	if r == nil {
		return nil
	}
	return tags.Filter(r.assets, kind)
}

// ScriptTags renders the script assets. props may be nil.
func (r *Result) ScriptTags(props tags.PropSource, opts tags.ScriptOptions) string {
	return tags.ScriptTags(r.Assets(""), props, opts)
}

// StyleTags renders the style assets. props may be nil.
func (r *Result) StyleTags(props tags.PropSource) string {
	return tags.StyleTags(r.Assets(""), props)
}

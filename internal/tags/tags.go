// Package tags renders resolved federation assets as HTML tag strings.
//
// Attribute values are written verbatim unless escaping is requested. URLs and
// integrity values come from remote manifests, and extra properties from the
// calling application; both are trusted input. Callers that render values
// from untrusted sources must opt into escaping.
package tags

import (
	"html"
	"sort"
	"strings"
)

// Kind classifies an asset.
type Kind string

const (
	KindScript Kind = "script"
	KindStyle  Kind = "style"
)

// Asset is a fetchable file ready for tag generation.
type Asset struct {
	URL       string `json:"url"`
	Kind      Kind   `json:"type"`
	Integrity string `json:"integrity,omitempty"`
}

// LoadMode is the load-timing attribute of script tags.
type LoadMode string

const (
	LoadDefer LoadMode = "defer"
	LoadAsync LoadMode = "async"
)

// ParseLoadMode maps "async" or "defer" to a LoadMode. An empty string is defer.
func ParseLoadMode(s string) (LoadMode, bool) {
	switch LoadMode(s) {
	case "", LoadDefer:
		return LoadDefer, true
	case LoadAsync:
		return LoadAsync, true
	}
	return "", false
}

// PropSource yields the extra attributes of one asset's tag.
type PropSource interface {
	PropsFor(a Asset) map[string]string
}

// Props is a fixed attribute set applied to every tag. Keys render sorted.
type Props map[string]string

func (p Props) PropsFor(Asset) map[string]string { return p }

// PropsFunc computes attributes per asset.
type PropsFunc func(a Asset) map[string]string

func (f PropsFunc) PropsFor(a Asset) map[string]string { return f(a) }

// ScriptOptions controls script tag rendering.
type ScriptOptions struct {
	LoadMode LoadMode
	Escape   bool
}

// Filter returns the assets of kind, or all of them when kind is empty.
func Filter(assets []Asset, kind Kind) []Asset {
	if kind == "" {
		return assets
	}
	out := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

// ScriptTags renders one <script> element per script asset, joined by newlines.
// props may be nil.
func ScriptTags(assets []Asset, props PropSource, opts ScriptOptions) string {
	mode := opts.LoadMode
	if mode == "" {
		mode = LoadDefer
	}
	scripts := Filter(assets, KindScript)
	out := make([]string, 0, len(scripts))
	for _, a := range scripts {
		var b strings.Builder
		b.WriteString("<script ")
		b.WriteString(string(mode))
		writeAttr(&b, "src", a.URL, opts.Escape)
		writeCommon(&b, a, props, opts.Escape)
		b.WriteString("></script>")
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

// StyleTags renders one stylesheet <link> per style asset without escaping.
func StyleTags(assets []Asset, props PropSource) string {
	return styleTags(assets, props, false)
}

// StyleTagsEscaped is StyleTags with attribute values HTML-escaped.
func StyleTagsEscaped(assets []Asset, props PropSource) string {
	return styleTags(assets, props, true)
}

func styleTags(assets []Asset, props PropSource, escape bool) string {
	styles := Filter(assets, KindStyle)
	out := make([]string, 0, len(styles))
	for _, a := range styles {
		var b strings.Builder
		b.WriteString(`<link rel="stylesheet"`)
		writeAttr(&b, "href", a.URL, escape)
		writeCommon(&b, a, props, escape)
		b.WriteString(">")
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

func writeCommon(b *strings.Builder, a Asset, props PropSource, escape bool) {
	if a.Integrity != "" {
		writeAttr(b, "integrity", a.Integrity, escape)
	}
	if props == nil {
		return
	}
	extra := props.PropsFor(a)
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeAttr(b, k, extra[k], escape)
	}
}

func writeAttr(b *strings.Builder, key, value string, escape bool) {
	if escape {
		value = html.EscapeString(value)
	}
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteString(`="`)
	b.WriteString(value)
	b.WriteByte('"')
}

// Package loadable reads the component loader's required-chunks payload,
// which lists the named chunks of every component a render used.
package loadable

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RequiredChunksKey identifies the script element carrying the payload.
const RequiredChunksKey = "__LOADABLE_REQUIRED_CHUNKS___ext"

// ErrInvalidPayload is returned when the payload element holds malformed JSON.
var ErrInvalidPayload = errors.New("invalid loadable payload")

// ScriptElement is one inline script emitted by the component loader.
type ScriptElement struct {
	Key       string
	InnerHTML string
}

// Source exposes the script elements of a finished render.
type Source interface {
	ScriptElements() []ScriptElement
}

// Elements is a fixed Source.
type Elements []ScriptElement

func (e Elements) ScriptElements() []ScriptElement { return e }

// NamedChunks is a Source that already knows the rendered component ids.
type NamedChunks []string

func (n NamedChunks) ScriptElements() []ScriptElement {
	data, _ := json.Marshal(Payload{NamedChunks: n})
	return []ScriptElement{{Key: RequiredChunksKey, InnerHTML: string(data)}}
}

// Payload is the JSON document of the required-chunks element.
type Payload struct {
	NamedChunks []string `json:"namedChunks"`
}

// RequiredComponents returns the named chunks listed by src. A render
// without the payload element yields no components and no error.
func RequiredComponents(src Source) ([]string, error) {
	for _, el := range src.ScriptElements() {
		if el.Key != RequiredChunksKey {
			continue
		}
		var p Payload
		if err := json.Unmarshal([]byte(el.InnerHTML), &p); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		return p.NamedChunks, nil
	}
	return nil, nil
}

// FromHTML scans rendered markup for inline scripts that carry an id and
// returns them keyed by that id.
func FromHTML(r io.Reader) (Elements, error) {
	z := html.NewTokenizer(r)
	var (
		out     Elements
		current *ScriptElement
		body    strings.Builder
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("failed to scan html: %w", z.Err())

		case html.StartTagToken:
			tok := z.Token()
			if tok.DataAtom != atom.Script {
				continue
			}
			for _, attr := range tok.Attr {
				if attr.Key == "id" && attr.Val != "" {
					current = &ScriptElement{Key: attr.Val}
					body.Reset()
				}
			}

		case html.TextToken:
			if current != nil {
				body.Write(z.Text())
			}

		case html.EndTagToken:
			if current == nil {
				continue
			}
			if name, _ := z.TagName(); atom.Lookup(name) == atom.Script {
				current.InnerHTML = body.String()
				out = append(out, *current)
				current = nil
			}
		}
	}
}

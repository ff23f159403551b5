// Package manifest defines the federation manifest wire format shared by the
// build-time emitter and the render-time collector.
//
// A manifest maps every exposed key of a remote container to the ordered list
// of output files required to load it:
//
//	{
//	  "name": "shop",
//	  "exposes": {
//	    "Cart": [{"chunk": "cart.js", "id": "./src/Cart.tsx", "integrity": "sha384-..."}]
//	  }
//	}
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// DefaultFileName is the asset name the emitter writes when none is configured.
const DefaultFileName = "federation-stats.json"

// ErrInvalid is returned when a manifest document cannot be decoded.
var ErrInvalid = errors.New("invalid federation manifest")

// Manifest is the document produced per remote build.
type Manifest struct {
	Name    string                `json:"name"`
	Exposes map[string][]ChunkRef `json:"exposes"`
}

// ChunkRef is a single output file required by an exposed module.
type ChunkRef struct {
	Chunk     string   `json:"chunk"`
	ID        ModuleID `json:"id,omitzero"`
	Integrity string   `json:"integrity,omitempty"`
}

// ModuleID keeps a bundler module id verbatim. Bundlers emit either numeric
// or string ids, and the manifest must round-trip whichever was used.
type ModuleID struct {
	raw json.RawMessage
}

// StringID returns a ModuleID holding a JSON string.
func StringID(s string) ModuleID {
	b, _ := json.Marshal(s)
	return ModuleID{raw: b}
}

// NumberID returns a ModuleID holding a JSON number.
func NumberID(n int64) ModuleID {
	return ModuleID{raw: json.RawMessage(strconv.FormatInt(n, 10))}
}

// IsZero reports whether no id was set.
func (m ModuleID) IsZero() bool { return len(m.raw) == 0 }

// String renders the id without JSON quoting.
func (m ModuleID) String() string {
	var s string
	if err := json.Unmarshal(m.raw, &s); err == nil {
		return s
	}
	return string(m.raw)
}

// MarshalJSON implements json.Marshaler.
func (m ModuleID) MarshalJSON() ([]byte, error) {
	if m.IsZero() {
		return []byte("null"), nil
	}
	return m.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *ModuleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		m.raw = nil
		return nil
	}
	if len(b) == 0 || (b[0] != '"' && b[0] != '-' && (b[0] < '0' || b[0] > '9')) {
		return fmt.Errorf("%w: module id must be a string or number, got %s", ErrInvalid, b)
	}
	m.raw = append(json.RawMessage(nil), b...)
	return nil
}

// Decode parses a manifest document.
func Decode(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if m.Exposes == nil {
		m.Exposes = map[string][]ChunkRef{}
	}
	return &m, nil
}

// Encode serializes the manifest compactly, as the emitter writes it during
// asset processing.
func (m *Manifest) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// EncodeIndent serializes the manifest with two-space indentation, as it is
// rewritten after integrity augmentation.
func (m *Manifest) EncodeIndent() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// ApplyIntegrity sets the integrity of every chunk entry from the given
// file name to digest map. Entries without a digest have their integrity
// cleared, matching a fresh lookup per build.
func (m *Manifest) ApplyIntegrity(digests map[string]string) {
	for key, refs := range m.Exposes {
		updated := make([]ChunkRef, len(refs))
		for i, ref := range refs {
			ref.Integrity = digests[ref.Chunk]
			updated[i] = ref
		}
		m.Exposes[key] = updated
	}
}

// ReadFile loads a manifest from disk.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return m, nil
}

// WriteFile stores the manifest indented.
func WriteFile(path string, m *Manifest) error {
	data, err := m.EncodeIndent()
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

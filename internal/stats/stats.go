// Package stats models the subset of a bundler's stats JSON (`webpack --json`)
// the manifest emitter reads: the module list, the chunk graph and the final
// asset list.
package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/valorkin/mf-loadable-adapter/internal/manifest"
)

// ContainerEntryIssuer is the issuer name bundlers give to modules pulled in
// by a federation container entry.
const ContainerEntryIssuer = "container entry"

// Stats is the decoded stats document.
type Stats struct {
	Modules []Module `json:"modules"`
	Chunks  []Chunk  `json:"chunks"`
	Assets  []Asset  `json:"assets"`

	chunkIndex map[ID]int
}

// Module is a compiled module.
type Module struct {
	ID         manifest.ModuleID `json:"id"`
	Name       string            `json:"name"`
	IssuerName string            `json:"issuerName"`
	Chunks     []ID              `json:"chunks"`
}

// Chunk is a node of the chunk graph.
type Chunk struct {
	ID       ID         `json:"id"`
	Files    []string   `json:"files"`
	Siblings []ID       `json:"siblings"`
	Runtime  StringList `json:"runtime"`
}

// Asset is a final output file.
type Asset struct {
	Name      string     `json:"name"`
	Integrity StringList `json:"integrity,omitempty"`
}

// ID is a chunk id. Bundlers emit numbers or strings; both normalize to
// their decimal or literal text.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("chunk id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// NumID is a convenience for numeric chunk ids.
func NumID(n int) ID { return ID(strconv.Itoa(n)) }

// StringList decodes either a single string or an array of strings.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*l = nil
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	}
	var items []string
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// Contains reports whether v is in the list.
func (l StringList) Contains(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}

// Decode parses a stats document.
func Decode(data []byte) (*Stats, error) {
	var s Stats
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse stats: %w", err)
	}
	return &s, nil
}

// ReadFile loads a stats document from disk.
func ReadFile(path string) (*Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats %s: %w", path, err)
	}
	return Decode(data)
}

// Chunk returns the chunk with the given id.
func (s *Stats) Chunk(id ID) (*Chunk, bool) {
	if s.chunkIndex == nil || len(s.chunkIndex) != len(s.Chunks) {
		s.chunkIndex = make(map[ID]int, len(s.Chunks))
		for i := range s.Chunks {
			if _, dup := s.chunkIndex[s.Chunks[i].ID]; !dup {
				s.chunkIndex[s.Chunks[i].ID] = i
			}
		}
	}
	i, ok := s.chunkIndex[id]
	if !ok {
		return nil, false
	}
	return &s.Chunks[i], true
}

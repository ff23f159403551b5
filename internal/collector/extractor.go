package collector

import (
	"context"
	"sync"

	"github.com/valorkin/mf-loadable-adapter/internal/loadable"
	"github.com/valorkin/mf-loadable-adapter/internal/manifest"
	"github.com/valorkin/mf-loadable-adapter/internal/tags"
)

// Extractor keeps the latest collection result for one render. Each
// CollectChunks call replaces the previous state. Share the Collector
// between requests, not the Extractor.
type Extractor struct {
	collector *Collector

	mu     sync.RWMutex
	result *Result
}

// NewExtractor returns an empty Extractor backed by c.
func (c *Collector) NewExtractor() *Extractor {
	return &Extractor{collector: c, result: &Result{}}
}

// CollectChunks reads the rendered components from src and collects their
// assets. Only a malformed payload is an error.
func (e *Extractor) CollectChunks(ctx context.Context, src loadable.Source) error {
	ids, err := loadable.RequiredComponents(src)
	if err != nil {
		return err
	}
	res := e.collector.Collect(ctx, ids)

	e.mu.Lock()
	e.result = res
	e.mu.Unlock()
	return nil
}

func (e *Extractor) current() *Result {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.result
}

// Chunks returns the chunk entries of the last pass.
func (e *Extractor) Chunks() []manifest.ChunkRef {
	return e.current().Chunks
}

// Assets returns the assets of kind from the last pass, or all when kind is
// empty.
func (e *Extractor) Assets(kind tags.Kind) []tags.Asset {
	return e.current().Assets(kind)
}

// ScriptTags renders the script assets of the last pass.
func (e *Extractor) ScriptTags(props tags.PropSource, opts tags.ScriptOptions) string {
	return e.current().ScriptTags(props, opts)
}

// StyleTags renders the style assets of the last pass.
func (e *Extractor) StyleTags(props tags.PropSource) string {
	return e.current().StyleTags(props)
}

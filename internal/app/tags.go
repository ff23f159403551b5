package app

import (
	"context"
	"fmt"
	"os"

	"github.com/valorkin/mf-loadable-adapter/internal/loadable"
	"github.com/valorkin/mf-loadable-adapter/internal/tags"
)

// TagsOutput is the rendered markup of one collection pass.
type TagsOutput struct {
	Scripts string       `json:"scripts"`
	Styles  string       `json:"styles"`
	Assets  []tags.Asset `json:"assets"`
}

// Tags collects the assets of the components listed by src and renders them.
func (a *App) Tags(ctx context.Context, src loadable.Source, mode tags.LoadMode) (*TagsOutput, error) {
	if a.collector == nil {
		return nil, ErrNoRemotes
	}
	ex := a.collector.NewExtractor()
	if err := ex.CollectChunks(ctx, src); err != nil {
		return nil, err
	}
	out := &TagsOutput{
		Scripts: ex.ScriptTags(nil, tags.ScriptOptions{LoadMode: mode}),
		Styles:  ex.StyleTags(nil),
		Assets:  ex.Assets(""),
	}
	if out.Assets == nil {
		out.Assets = []tags.Asset{}
	}
	return out, nil
}

// PrintTags writes style tags followed by script tags for the components
// named on the command line or found in a rendered html file.
func (a *App) PrintTags(ctx context.Context, appConfig *Config) error {
	mode, ok := tags.ParseLoadMode(appConfig.LoadMode)
	if !ok {
		return fmt.Errorf("invalid load mode %q: must be 'async' or 'defer'", appConfig.LoadMode)
	}

	var src loadable.Source = loadable.NamedChunks(appConfig.ComponentIDs)
	if appConfig.HTMLPath != "" {
		f, err := os.Open(appConfig.HTMLPath)
		if err != nil {
			return fmt.Errorf("failed to open rendered html: %w", err)
		}
		defer f.Close()
		els, err := loadable.FromHTML(f)
		if err != nil {
			return err
		}
		src = els
	}

	out, err := a.Tags(ctx, src, mode)
	if err != nil {
		return err
	}
	if out.Styles != "" {
		fmt.Fprintln(a.outW, out.Styles)
	}
	if out.Scripts != "" {
		fmt.Fprintln(a.outW, out.Scripts)
	}
	return nil
}

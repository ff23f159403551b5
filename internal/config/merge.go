package config

import "fmt"

// Merge combines partial models. Remotes accumulate; every other block may be
// defined at most once across all models.
func Merge(models ...*Model) (*Model, error) {
	out := &Model{}
	for _, m := range models {
		if m == nil {
			continue
		}
		out.Remotes = append(out.Remotes, m.Remotes...)
		if err := mergeOnce(&out.Container, m.Container, "container"); err != nil {
			return nil, err
		}
		if err := mergeOnce(&out.Manifest, m.Manifest, "manifest"); err != nil {
			return nil, err
		}
		if err := mergeOnce(&out.Integrity, m.Integrity, "integrity"); err != nil {
			return nil, err
		}
		if err := mergeOnce(&out.Fetch, m.Fetch, "fetch"); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func mergeOnce[T any](dst **T, src *T, block string) error {
	if src == nil {
		return nil
	}
	if *dst != nil {
		return fmt.Errorf("%w: %s block defined more than once", ErrInvalid, block)
	}
	*dst = src
	return nil
}

package emitter

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"os"
	"path/filepath"
	"strings"

	"github.com/valorkin/mf-loadable-adapter/internal/stats"
)

// integrityMap collects output file name -> digest from the final stats.
// Multi-digest values ("sha384-a sha512-b", or arrays) keep their first one.
func integrityMap(st *stats.Stats) map[string]string {
	digests := make(map[string]string)
	if st == nil {
		return digests
	}
	for _, asset := range st.Assets {
		if len(asset.Integrity) == 0 || asset.Integrity[0] == "" {
			continue
		}
		first, _, _ := strings.Cut(asset.Integrity[0], " ")
		digests[asset.Name] = first
	}
	return digests
}

// computeMissing hashes output files listed in the stats that carry no digest.
func computeMissing(digests map[string]string, result BuildResult, algorithm string) error {
	if result.Stats == nil {
		return nil
	}
	for _, asset := range result.Stats.Assets {
		if _, ok := digests[asset.Name]; ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(result.OutputDir, asset.Name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s for integrity: %w", asset.Name, err)
		}
		digest, err := Digest(algorithm, data)
		if err != nil {
			return err
		}
		digests[asset.Name] = digest
	}
	return nil
}

// Digest returns the subresource integrity value of data ("sha384-<base64>").
func Digest(algorithm string, data []byte) (string, error) {
	var h hash.Hash
	switch algorithm {
	case "sha256":
		h = sha256.New()
	case "sha384":
		h = sha512.New384()
	case "sha512":
		h = sha512.New()
	default:
		return "", fmt.Errorf("unsupported integrity algorithm %q", algorithm)
	}
	h.Write(data)
	return algorithm + "-" + base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

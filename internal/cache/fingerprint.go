// Package cache persists analysis reports keyed by deck content, so an
// unchanged deck never triggers a second remote analysis.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/slidelens/deck-analyzer/internal/domain"
)

// FingerprintFile digests the file's bytes into the cache key. The digest
// depends only on content: renaming or touching the file does not change
// it, editing a single byte does.
func FingerprintFile(path string) (domain.Fingerprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", domain.IOError("cannot read file for fingerprinting", err)
	}
	return FingerprintBytes(data), nil
}

// FingerprintBytes digests raw content.
func FingerprintBytes(data []byte) domain.Fingerprint {
	sum := sha256.Sum256(data)
	return domain.Fingerprint(hex.EncodeToString(sum[:]))
}

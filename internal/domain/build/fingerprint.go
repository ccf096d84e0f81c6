package build

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint identifies one exported snapshot: the catalog bytes, the blog
// sources and the config that shaped them.
type Fingerprint struct {
	CatalogHash string
	BlogHash    string
	ConfigHash  string
	ExportHash  string
}

func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// HashStrings hashes parts in order, each terminated by 0x00 so that
// ("ab","c") and ("a","bc") differ.
func HashStrings(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (f *Fingerprint) ComputeExportHash() {
	f.ExportHash = HashStrings(f.CatalogHash, f.BlogHash, f.ConfigHash)
}

// ETag is the short quoted form used in HTTP caching headers.
func ETag(hash string) string {
	if len(hash) > 16 {
		hash = hash[:16]
	}
	return `"` + hash + `"`
}

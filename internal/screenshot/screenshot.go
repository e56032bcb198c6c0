// Package screenshot resolves the optional leak-post screenshot artifact for
// a record. Artifacts are content-addressed: the file name is the MD5 digest
// of the post URL, so existence can be tested without touching image data.
package screenshot

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
)

// Fingerprint returns the hex MD5 digest of the UTF-8 bytes of s. It names
// artifact files; it is not a security control.
func Fingerprint(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Resolver maps a post URL to the public URL of its screenshot, when one has
// been captured.
type Resolver struct {
	dir     string
	baseURL string
}

// NewResolver creates a resolver over the artifact directory and the public
// base URL the files are served under.
func NewResolver(dir, baseURL string) *Resolver {
	return &Resolver{dir: dir, baseURL: baseURL}
}

// Resolve returns the screenshot URL for postURL, or "" when postURL is empty
// or no artifact exists. A missing screenshot is the common case, never an
// error.
func (r *Resolver) Resolve(postURL string) string {
	if postURL == "" {
		return ""
	}

	name := Fingerprint(postURL) + ".png"
	if _, err := os.Stat(filepath.Join(r.dir, name)); err != nil {
		return ""
	}
	return r.baseURL + name
}

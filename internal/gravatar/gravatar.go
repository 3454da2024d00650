// Package gravatar derives avatar URLs from email addresses.
package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

const baseURL = "//www.gravatar.com/avatar/"

// Options are the query parameters appended to the avatar URL.
type Options struct {
	Size    string // s
	Rating  string // r
	Default string // d
}

// ProfileOptions is what registration uses: 200px, PG-rated, mystery-man fallback.
var ProfileOptions = Options{Size: "200", Rating: "pg", Default: "mm"}

// URL returns the protocol-relative avatar URL for email. The hash is over
// the trimmed, lower-cased address so equal addresses map to one avatar.
func URL(email string, opts Options) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))

	q := make([]string, 0, 3)
	if opts.Size != "" {
		q = append(q, "s="+url.QueryEscape(opts.Size))
	}
	if opts.Rating != "" {
		q = append(q, "r="+url.QueryEscape(opts.Rating))
	}
	if opts.Default != "" {
		q = append(q, "d="+url.QueryEscape(opts.Default))
	}

	u := baseURL + hex.EncodeToString(sum[:])
	if len(q) > 0 {
		u += "?" + strings.Join(q, "&")
	}
	return u
}

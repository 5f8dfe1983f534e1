package mongodb

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildURI constructs a MongoDB connection URI from the options. When
// Options.URI is set it is returned unchanged; otherwise the URI is
// assembled from the individual fields.
func BuildURI(opts *Options) string {
	if opts.URI != "" {
		return opts.URI
	}

	var b strings.Builder
	b.WriteString("mongodb://")

	if opts.Username != "" {
		b.WriteString(url.QueryEscape(opts.Username))
		if opts.Password != "" {
			b.WriteString(":")
			b.WriteString(url.QueryEscape(opts.Password))
		}
		b.WriteString("@")
	}

	b.WriteString(fmt.Sprintf("%s:%d", opts.Host, opts.Port))

	if opts.Database != "" {
		b.WriteString("/")
		b.WriteString(opts.Database)
	}

	params := url.Values{}
	if opts.AuthSource != "" && opts.AuthSource != "admin" {
		params.Set("authSource", opts.AuthSource)
	}
	if opts.ReplicaSet != "" {
		params.Set("replicaSet", opts.ReplicaSet)
	}
	if opts.Direct {
		params.Set("directConnection", "true")
	}

	if len(params) > 0 {
		b.WriteString("?")
		b.WriteString(params.Encode())
	}

	return b.String()
}

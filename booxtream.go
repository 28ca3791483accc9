// Package booxtream is a client for the BooXtream document distribution
// service, which personalizes e-books for individual readers.
//
// Most callers need only [NewClient] together with the [options] package;
// the [client] package holds the full API, including the transport seam.
package booxtream

import (
	"github.com/adamwoolhether/booxtream/client"
	"github.com/adamwoolhether/booxtream/options"
)

// NewClient instantiates a new *client.Client for the given output type
// ("xml", "epub" or "mobi"). If not specified, the default HTTP transport
// and production base URL are used.
func NewClient(output string, opts map[string]any, auth client.Credentials, optFns ...client.Option) (*client.Client, error) {
	typ, err := client.ParseOutputType(output)
	if err != nil {
		return nil, err
	}

	return client.New(typ, options.New(opts), auth, optFns...)
}

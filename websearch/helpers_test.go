package websearch

import (
	"github.com/hazyhaar/getweb/webfetch"
)

// allowAllFetcher skips SSRF validation so tests can target the
// loopback servers httptest starts.
func allowAllFetcher() *webfetch.Fetcher {
	return webfetch.New(webfetch.Config{
		URLValidator: func(string) error { return nil },
	})
}

package http

import (
	"net/http"
	"time"
)

/**
* Global http client
 */
var globalHttpClient httpClient = &http.Client{Timeout: 30 * time.Second}

func HttpClient() httpClient {
	return globalHttpClient
}

// SetTimeout applies the configured timeout to the global client. Metadata
// reachability checks block on this client, callers must not hold locks
// across them.
func SetTimeout(timeout time.Duration) {
	globalHttpClient = &http.Client{Timeout: timeout}
}

// Interface to the http-client
type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

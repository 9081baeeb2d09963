package pkg

import (
	"net/http"
	"time"
)

// NewAPIHTTPClient returns the http.Client used for calls to the learning
// platform API. The timeout bounds a single collaborator call; the session
// layer treats anything slower as a network failure.
func NewAPIHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

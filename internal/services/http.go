package services

import (
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"
)

type ServiceHTTP struct{}

// httpClient builds a retrying client. A zero timeout falls back to 10s.
func (service *ServiceHTTP) httpClient(timeout time.Duration) *httpclient.Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	backoff := heimdall.NewConstantBackoff(500*time.Millisecond, 100*time.Millisecond)
	retrier := heimdall.NewRetrier(backoff)

	return httpclient.NewClient(
		httpclient.WithHTTPTimeout(timeout),
		httpclient.WithRetrier(retrier),
		httpclient.WithRetryCount(3),
	)
}

package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/ammyCodex/DocAI/internal/config"
)

var (
	once   sync.Once
	client *http.Client
)

// Pooled returns the shared HTTP client used by the provider adapters, so
// the embedding and generation calls reuse connections instead of paying the
// handshake on every request.
func Pooled() *http.Client {
	once.Do(func() {
		client = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        config.MaxIdleConns,
				MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
				IdleConnTimeout:     config.IdleConnTimeout,
			},
		}
	})
	return client
}

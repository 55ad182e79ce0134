package customHttpClient

import (
	"net/http"

	"github.com/veridex/evidenceAPI/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var pooledClient = &http.Client{Transport: customTransport}

// PooledClient returns the shared keep-alive client. Embedding calls go out
// per batch, so connection reuse is what keeps indexing latency flat.
func PooledClient() *http.Client {
	return pooledClient
}

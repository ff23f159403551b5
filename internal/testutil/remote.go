package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// RemoteServer serves federation manifests keyed by request path.
type RemoteServer struct {
	*httptest.Server
	hits atomic.Int64
}

// NewRemoteServer starts a server answering GET <path> with the manifest
// registered for it and 404 otherwise. It is closed on test cleanup.
func NewRemoteServer(t *testing.T, manifests map[string]string) *RemoteServer {
	t.Helper()

	rs := &RemoteServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.hits.Add(1)
		body, ok := manifests[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(rs.Close)
	return rs
}

// Hits returns the number of requests served.
func (rs *RemoteServer) Hits() int64 { return rs.hits.Load() }

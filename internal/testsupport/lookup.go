package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"nvdrivers/internal/nvidia"
)

// LookupServer is a fake driver lookup endpoint. Responses are keyed by
// LookupKey; requests without a func parameter get a 400 and lookups without
// a canned response get a 500.
type LookupServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []url.Values
}

// LookupKey builds the response key for a dch/studio combination.
func LookupKey(dch, studio bool) string {
	return "dch=" + flag(dch) + "&upCRD=" + flag(studio)
}

// NewLookupServer starts a fake endpoint serving responses and closes it
// when the test ends.
func NewLookupServer(t testing.TB, responses map[string]nvidia.LookupResponse) *LookupServer {
	t.Helper()

	srv := &LookupServer{}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("func") == "" {
			http.Error(w, "missing func", http.StatusBadRequest)
			return
		}
		srv.mu.Lock()
		srv.requests = append(srv.requests, query)
		srv.mu.Unlock()

		resp, ok := responses["dch="+query.Get("dch")+"&upCRD="+query.Get("upCRD")]
		if !ok {
			http.Error(w, "no fixture", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// Requests returns the lookup query strings received so far.
func (s *LookupServer) Requests() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]url.Values, len(s.requests))
	copy(out, s.requests)
	return out
}

// Driver builds a lookup result row.
func Driver(version, releaseDate, downloadURL string) nvidia.Entry {
	return nvidia.Entry{DownloadInfo: nvidia.DownloadInfo{
		Version:         version,
		ReleaseDateTime: releaseDate,
		DownloadURL:     downloadURL,
	}}
}

// Response wraps rows in a successful lookup document.
func Response(rows ...nvidia.Entry) nvidia.LookupResponse {
	return nvidia.LookupResponse{Success: "1", IDS: rows}
}

func flag(value bool) string {
	if value {
		return "1"
	}
	return "0"
}

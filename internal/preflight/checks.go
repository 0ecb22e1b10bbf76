package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"nvdrivers/internal/history"
)

const endpointTimeout = 10 * time.Second

// CheckEndpoint verifies that the lookup service answers HTTP. Any response
// below 500 counts as reachable since the bare endpoint rejects requests
// without query parameters.
func CheckEndpoint(ctx context.Context, name, baseURL, userAgent string) Result {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		return Result{Name: name, Detail: "missing url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, endpointTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, base, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("request failed (%v)", err)}
	}
	if ua := strings.TrimSpace(userAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	client := &http.Client{Timeout: endpointTimeout}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeEndpointError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return Result{Name: name, Detail: fmt.Sprintf("server error (%d)", resp.StatusCode)}
	}
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("reachable (%d in %s)", resp.StatusCode, time.Since(start).Round(time.Millisecond)),
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckHistory opens the history database and reports how many releases it
// holds and when the newest was first seen.
func CheckHistory(ctx context.Context, path string) Result {
	const name = "History database"

	if dir := CheckDirectoryAccess(name, filepath.Dir(path)); !dir.Passed {
		return dir
	}
	store, err := history.Open(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer store.Close()

	entries, err := store.List(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if len(entries) == 0 {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (empty)", path)}
	}
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%s (%d versions, newest seen %s)", path, len(entries), humanize.Time(entries[0].FirstSeen)),
	}
}

func summarizeEndpointError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out (lookup service unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out (lookup service unreachable)"
	}
	return err.Error()
}

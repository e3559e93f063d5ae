package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/csvdash-cli/internal/logging"
)

// ErrFetch is matched by every FetchError.
var ErrFetch = errors.New("could not load data")

// FetchError reports a source that could not be read: a non-success HTTP
// status or a transport/filesystem failure.
type FetchError struct {
	Location string
	// Status is the HTTP status code, 0 when no response was received.
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d %s", e.Location, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("fetch %s: %v", e.Location, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// DefaultTimeout bounds a single fetch when none is configured.
const DefaultTimeout = 30 * time.Second

// Fetcher reads raw bytes from a local path, a file:// URL or an http(s) URL.
// There is no retry.
type Fetcher struct {
	Client  *http.Client
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewFetcher builds a Fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{Client: &http.Client{}, Timeout: timeout}
}

// Fetch returns the raw payload at loc.
func (f *Fetcher) Fetch(ctx context.Context, loc string) ([]byte, error) {
	log := f.Logger
	if log == nil {
		log = logging.L()
	}
	data, err := f.fetch(ctx, loc)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			log.Error("fetch failed", "location", fe.Location, "status", fe.Status, "err", fe.Err)
		}
		return nil, err
	}
	log.Debug("fetched source", "location", loc, "bytes", len(data))
	return data, nil
}

func (f *Fetcher) fetch(ctx context.Context, loc string) ([]byte, error) {
	if strings.TrimSpace(loc) == "" {
		return nil, &FetchError{Location: loc, Err: errors.New("no source configured")}
	}
	if IsURL(loc) {
		return f.fetchHTTP(ctx, loc)
	}
	p := loc
	if strings.HasPrefix(loc, "file://") {
		u, err := url.Parse(loc)
		if err != nil {
			return nil, &FetchError{Location: loc, Err: err}
		}
		p = u.Path
	}
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Location: loc, Err: err}
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, &FetchError{Location: loc, Err: err}
	}
	return data, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, loc string) ([]byte, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, &FetchError{Location: loc, Err: err}
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Location: loc, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Location: loc, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Location: loc, Err: err}
	}
	return data, nil
}

// IsURL reports whether loc is an http(s) URL.
func IsURL(loc string) bool {
	l := strings.ToLower(loc)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// BaseName returns the file name a location refers to, ignoring query strings.
func BaseName(loc string) string {
	if IsURL(loc) || strings.HasPrefix(loc, "file://") {
		if u, err := url.Parse(loc); err == nil {
			if b := path.Base(u.Path); b != "/" && b != "." {
				return b
			}
			return u.Hostname()
		}
	}
	return filepath.Base(loc)
}

package source

import (
	"context"
	"sync"

	"github.com/KaramelBytes/csvdash-cli/internal/parser"
	"github.com/KaramelBytes/csvdash-cli/internal/table"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	raw []byte
	ds  *table.Dataset
}

// Session caches fetched sources for the lifetime of one command or server.
// Concurrent loads of the same location share a single fetch; failures are
// never cached. Entries live until Invalidate or Reset.
type Session struct {
	ID      string
	fetcher *Fetcher

	mu    sync.RWMutex
	cache map[string]*entry
	group singleflight.Group
}

// NewSession creates an empty session around f.
func NewSession(f *Fetcher) *Session {
	if f == nil {
		f = NewFetcher(0)
	}
	return &Session{ID: uuid.NewString(), fetcher: f, cache: map[string]*entry{}}
}

// Raw returns the decompressed payload for loc.
func (s *Session) Raw(ctx context.Context, loc string) ([]byte, error) {
	e, err := s.load(ctx, loc)
	if err != nil {
		return nil, err
	}
	return e.raw, nil
}

// Dataset returns the parsed Dataset for loc, fetching it on first use.
func (s *Session) Dataset(ctx context.Context, loc string) (*table.Dataset, error) {
	e, err := s.load(ctx, loc)
	if err != nil {
		return nil, err
	}
	return e.ds, nil
}

// Cached reports whether loc is held by the session.
func (s *Session) Cached(loc string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cache[loc]
	return ok
}

// Invalidate drops loc so the next access refetches it.
func (s *Session) Invalidate(loc string) {
	s.mu.Lock()
	delete(s.cache, loc)
	s.mu.Unlock()
	s.group.Forget(loc)
}

// Reset drops every cached entry.
func (s *Session) Reset() {
	s.mu.Lock()
	keys := make([]string, 0, len(s.cache))
	for k := range s.cache {
		keys = append(keys, k)
	}
	s.cache = map[string]*entry{}
	s.mu.Unlock()
	for _, k := range keys {
		s.group.Forget(k)
	}
}

func (s *Session) load(ctx context.Context, loc string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.cache[loc]
	s.mu.RUnlock()
	if ok {
		return e, nil
	}
	v, err, _ := s.group.Do(loc, func() (any, error) {
		raw, err := s.fetcher.Fetch(ctx, loc)
		if err != nil {
			return nil, err
		}
		data, _, err := Decompress(raw)
		if err != nil {
			return nil, &FetchError{Location: loc, Err: err}
		}
		ds, err := parser.ParseBytes(TrimCompressionExt(BaseName(loc)), data)
		if err != nil {
			return nil, err
		}
		e := &entry{raw: data, ds: ds}
		s.mu.Lock()
		s.cache[loc] = e
		s.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*entry), nil
}

package coachvault

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/futurepoint/coachvault/internal"
	"github.com/futurepoint/coachvault/store"
)

// ListNotes walks the notes namespace depth-first and returns nested and
// flat projections of every PDF found. A 404 on any subdirectory means
// "empty", not an error. The walk is bounded by the configured depth and
// entry caps; exceeding either yields [ErrListingTooLarge]. The result
// carries a cacheability hint; the aggregator itself caches nothing.
func (e *Engine) ListNotes(ctx context.Context, credential string) (*Listing, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	if e.metrics != nil && e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() { e.metrics.Observe(MetricListingLatency, time.Since(start)) }()
	}

	w := &listingWalker{
		engine:     e,
		credential: credential,
	}
	if err := w.walk(ctx, internal.NotesRoot, 0); err != nil {
		e.metricInc(MetricListingFailure)
		e.emitAudit(ctx, auditEventListingFailed, false, "", "", err, nil)
		return nil, err
	}

	listing := buildListing(w.files)
	listing.CacheMaxAge = e.config.Listing.CacheMaxAge

	e.metricInc(MetricListingServed)
	e.emitAudit(ctx, auditEventListingServed, true, "", "", nil, func() map[string]string {
		return map[string]string{"total": fmt.Sprintf("%d", listing.Total)}
	})

	return listing, nil
}

type listingWalker struct {
	engine     *Engine
	credential string
	files      []store.Entry
	visited    int
}

func (w *listingWalker) walk(ctx context.Context, dir string, depth int) error {
	if depth > w.engine.config.Listing.MaxDepth {
		return ErrListingTooLarge
	}

	entries, err := w.engine.store.List(ctx, dir, w.credential)
	if err != nil {
		// An absent directory is an empty one.
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	for _, entry := range entries {
		w.visited++
		if w.visited > w.engine.config.Listing.MaxEntries {
			return ErrListingTooLarge
		}

		switch entry.Type {
		case store.EntryDir:
			if err := w.walk(ctx, entry.Path, depth+1); err != nil {
				return err
			}
		case store.EntryFile:
			if strings.HasSuffix(strings.ToLower(entry.Name), ".pdf") {
				w.files = append(w.files, entry)
			}
		}
	}

	return nil
}

func buildListing(files []store.Entry) *Listing {
	listing := &Listing{
		Structure: make(map[string]map[string]map[string][]NoteEntry),
		Flat:      make([]NoteEntry, 0, len(files)),
	}

	for _, f := range files {
		class, stream, subject := internal.ParseStoragePath(f.Path)
		note := NoteEntry{
			Name:        f.Name,
			Path:        f.Path,
			Class:       class,
			Stream:      stream,
			Subject:     subject,
			Size:        f.Size,
			Version:     f.Version,
			DownloadURL: f.DownloadURL,
			HTMLURL:     f.HTMLURL,
		}
		listing.Flat = append(listing.Flat, note)

		streams, ok := listing.Structure[class]
		if !ok {
			streams = make(map[string]map[string][]NoteEntry)
			listing.Structure[class] = streams
		}
		subjects, ok := streams[stream]
		if !ok {
			subjects = make(map[string][]NoteEntry)
			streams[stream] = subjects
		}
		subjects[subject] = append(subjects[subject], note)
	}

	sort.Slice(listing.Flat, func(i, j int) bool {
		return listing.Flat[i].Path < listing.Flat[j].Path
	})
	listing.Total = len(listing.Flat)

	return listing
}

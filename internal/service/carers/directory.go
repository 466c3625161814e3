// Package carers maintains the in-memory carer directory: it loads carer profiles from the
// document store, merges reviews kept in a separate collection and records new reviews.
//
// Every public operation is total. Store failures are logged and surface only as
// LoadError text or a false return, never as errors.
package carers

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/janisto/carer-directory/internal/carer"
	"github.com/janisto/carer-directory/internal/platform/docstore"
	applog "github.com/janisto/carer-directory/internal/platform/logging"
)

// Collections and query parameters.
const (
	UsersCollection   = "users"
	ReviewsCollection = "reviews"

	roleField = "roles"
	carerRole = "carer"

	reviewBatchSize      = docstore.MaxInValues
	maxConcurrentBatches = 4
	fetchFlightKey       = "carers"
)

// User-facing load errors.
const (
	MsgStoreUnavailable = "Carer directory is unavailable: the database is not configured."
	MsgLoadFailed       = "Unable to load carers right now. Please try again later."
)

// Status summarizes the directory lifecycle.
type Status string

const (
	StatusUnloaded Status = "unloaded"
	StatusLoading  Status = "loading"
	StatusLoaded   Status = "loaded"
	StatusError    Status = "error"
)

// State is a snapshot of the directory.
type State struct {
	Carers    []carer.Carer
	Loading   bool
	HasLoaded bool
	LoadError string
	LoadedAt  time.Time
}

// Status derives the lifecycle status from the snapshot flags.
func (s State) Status() Status {
	switch {
	case s.Loading:
		return StatusLoading
	case !s.HasLoaded:
		return StatusUnloaded
	case s.LoadError != "":
		return StatusError
	default:
		return StatusLoaded
	}
}

// Directory is the carer directory. Construct one per process with New and share it.
type Directory struct {
	store   docstore.Store
	metrics *Metrics
	flight  singleflight.Group
	now     func() time.Time

	// syncMu orders loads against review writes: a load holds it exclusively, AddReview
	// shares it from the store writes through the local append.
	syncMu sync.RWMutex

	mu        sync.RWMutex
	carers    []carer.Carer
	loading   bool
	hasLoaded bool
	loadError string
	loadedAt  time.Time
}

// Option configures a Directory.
type Option func(*Directory)

// WithMetrics records directory metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(d *Directory) { d.metrics = m }
}

// WithClock overrides the clock used for LoadedAt.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) { d.now = now }
}

// New creates a Directory over store. A nil store means the database is not configured:
// loads report MsgStoreUnavailable and reviews are kept in memory only.
func New(store docstore.Store, opts ...Option) *Directory {
	d := &Directory{store: store, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FetchCarers loads the directory unless it is already loaded and force is false.
// Concurrent calls share one in-flight load. The load itself is detached from ctx so a
// caller that gives up does not abort it for the others.
func (d *Directory) FetchCarers(ctx context.Context, force bool) {
	if !force && d.loaded() {
		return
	}
	done := d.flight.DoChan(fetchFlightKey, func() (any, error) {
		if !force && d.loaded() {
			return nil, nil
		}
		d.load(context.WithoutCancel(ctx))
		return nil, nil
	})
	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (d *Directory) loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.hasLoaded
}

func (d *Directory) load(ctx context.Context) {
	start := time.Now()
	outcome := "loaded"

	d.mu.Lock()
	d.loading = true
	d.loadError = ""
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.loading = false
		d.mu.Unlock()
		d.metrics.observeFetch(outcome, start)
	}()

	d.syncMu.Lock()
	defer d.syncMu.Unlock()

	if d.store == nil {
		outcome = "unavailable"
		applog.LogWarn(ctx, "carer directory store not configured")
		d.finish(nil, MsgStoreUnavailable)
		return
	}

	docs, err := d.store.Query(ctx, UsersCollection, docstore.Filter{
		Field: roleField,
		Op:    docstore.ArrayContains,
		Value: carerRole,
	})
	if err != nil {
		outcome = "failed"
		applog.LogError(ctx, "failed to load carers", err)
		d.finish(nil, MsgLoadFailed)
		return
	}

	list := make([]carer.Carer, 0, len(docs))
	for _, doc := range docs {
		list = append(list, carer.Transform(doc.ID, doc.Data))
	}
	list = d.EnrichWithReviews(ctx, list)

	d.finish(list, "")
	applog.LogInfo(ctx, "carers loaded", zap.Int("count", len(list)), zap.Duration("duration", time.Since(start)))
}

func (d *Directory) finish(list []carer.Carer, loadError string) {
	if list == nil {
		list = []carer.Carer{}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.carers = list
	d.hasLoaded = true
	d.loadError = loadError
	if loadError == "" {
		d.loadedAt = d.now()
	}
}

// EnrichWithReviews merges documents from the reviews collection into each carer's
// embedded reviews. IDs are queried in batches of ten, concurrently; a failed batch is
// logged and skipped. The input slice is not modified.
func (d *Directory) EnrichWithReviews(ctx context.Context, list []carer.Carer) []carer.Carer {
	if len(list) == 0 || d.store == nil {
		return list
	}

	ids := make([]any, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	batches := chunk(ids, reviewBatchSize)
	results := make([][]docstore.Document, len(batches))

	var g errgroup.Group
	g.SetLimit(maxConcurrentBatches)
	for i, batch := range batches {
		g.Go(func() error {
			docs, err := d.store.Query(ctx, ReviewsCollection, docstore.Filter{
				Field: "carerId",
				Op:    docstore.In,
				Value: batch,
			})
			if err != nil {
				d.metrics.batchFailed()
				applog.LogWarn(ctx, "failed to load review batch",
					zap.Int("batch", i), zap.Int("size", len(batch)), zap.Error(err))
				return nil
			}
			results[i] = docs
			return nil
		})
	}
	_ = g.Wait()

	byCarer := make(map[string][]any)
	for _, docs := range results {
		for _, doc := range docs {
			if id := carerKey(doc.Data["carerId"]); id != "" {
				byCarer[id] = append(byCarer[id], doc.Data)
			}
		}
	}

	out := make([]carer.Carer, len(list))
	for i, c := range list {
		c = c.Clone()
		fetched := byCarer[c.ID]
		combined := make([]any, 0, len(c.Reviews)+len(fetched))
		for _, r := range c.Reviews {
			combined = append(combined, r)
		}
		combined = append(combined, fetched...)
		c.Reviews = carer.ExtractRatings(combined)
		out[i] = c
	}
	return out
}

// AddReview records rating for the carer with id. It reports false when the carer is
// unknown, the rating is unusable, or both store writes fail. Without a store the review
// is kept in memory only. A load never overlaps the writes and the local append, so a
// reload either already contains the review or runs after it was appended.
func (d *Directory) AddReview(ctx context.Context, id string, rating any) bool {
	value, ok := carer.ParseRating(rating)
	if !ok {
		d.metrics.reviewAdded("rejected")
		return false
	}

	d.syncMu.RLock()
	defer d.syncMu.RUnlock()
	if _, known := d.Carer(id); !known {
		d.metrics.reviewAdded("rejected")
		return false
	}

	if d.store == nil {
		d.appendReview(id, value)
		d.metrics.reviewAdded("local")
		return true
	}

	results := []WriteResult{
		d.write(ctx, id, targetEmbedded, func() error {
			return d.store.Update(ctx, UsersCollection, id, map[string]any{
				"reviews": docstore.ArrayUnion{Values: []any{value}},
			})
		}),
		d.write(ctx, id, targetDocument, func() error {
			_, err := d.store.Add(ctx, ReviewsCollection, map[string]any{
				"carerId":   id,
				"rating":    value,
				"createdAt": docstore.ServerTimestamp,
			})
			return err
		}),
	}
	if !atLeastOne(results...) {
		d.metrics.reviewAdded("failed")
		return false
	}

	d.appendReview(id, value)
	d.metrics.reviewAdded("stored")
	return true
}

func (d *Directory) write(ctx context.Context, id, target string, fn func() error) WriteResult {
	r := WriteResult{Target: target, Err: fn()}
	if r.Err != nil {
		applog.LogError(ctx, "review write failed", r.Err,
			zap.String("carerId", id), zap.String("target", target))
	}
	d.metrics.write(r)
	return r
}

// appendReview copies the review slice so snapshots handed out earlier stay unchanged.
func (d *Directory) appendReview(id string, value int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.carers {
		if d.carers[i].ID == id {
			reviews := make([]int, len(d.carers[i].Reviews), len(d.carers[i].Reviews)+1)
			copy(reviews, d.carers[i].Reviews)
			d.carers[i].Reviews = append(reviews, value)
			return
		}
	}
}

// Carers returns a copy of the loaded carers.
func (d *Directory) Carers() []carer.Carer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]carer.Carer, len(d.carers))
	for i, c := range d.carers {
		out[i] = c.Clone()
	}
	return out
}

// Carer returns the carer with id.
func (d *Directory) Carer(id string) (carer.Carer, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, c := range d.carers {
		if c.ID == id {
			return c.Clone(), true
		}
	}
	return carer.Carer{}, false
}

// AverageRating returns the carer's mean rating; unknown carers report 5.
func (d *Directory) AverageRating(id string) float64 {
	c, _ := d.Carer(id)
	return c.AverageRating()
}

// ReviewCount returns the number of reviews; unknown carers report 0.
func (d *Directory) ReviewCount(id string) int {
	c, _ := d.Carer(id)
	return c.ReviewCount()
}

// Description returns the carer's introduction or the shared placeholder.
func (d *Directory) Description(id string) string {
	c, _ := d.Carer(id)
	return c.DescriptionOrPlaceholder()
}

// State returns a snapshot of the directory.
func (d *Directory) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s := State{
		Carers:    make([]carer.Carer, len(d.carers)),
		Loading:   d.loading,
		HasLoaded: d.hasLoaded,
		LoadError: d.loadError,
		LoadedAt:  d.loadedAt,
	}
	for i, c := range d.carers {
		s.Carers[i] = c.Clone()
	}
	return s
}

func chunk(ids []any, size int) [][]any {
	var out [][]any
	for len(ids) > size {
		out = append(out, ids[:size:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}

// carerKey normalizes the carerId of a review document, which older clients stored as a number.
func carerKey(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	_ "time/tzdata"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/statute-core/internal/core/domain"
	"github.com/custodia-labs/statute-core/internal/core/ports/driven"
	"github.com/custodia-labs/statute-core/internal/core/ports/driving"
	"github.com/custodia-labs/statute-core/internal/core/versioning"
)

// Ensure versionService implements VersionService
var _ driving.VersionService = (*versionService)(nil)

// Cache result kinds, used in keys and metric labels
const (
	kindVersion = "version"
	kindDiff    = "diff"
	kindHistory = "history"
	kindSection = "section"
	kindDates   = "dates"
)

const (
	defaultVersionTTL         = 24 * time.Hour
	defaultDiffTTL            = time.Hour
	defaultTimelineTTL        = 24 * time.Hour
	defaultPrewarmConcurrency = 4
	prewarmLockTTL            = 5 * time.Minute
	defaultLocation           = "Europe/Stockholm"
)

// VersionServiceConfig holds dependencies for the version service.
// Cache and Lock are optional.
type VersionServiceConfig struct {
	Store driven.StatuteStore
	Cache driven.VersionCache
	Lock  driven.DistributedLock

	// Now supplies the reference day. Defaults to time.Now.
	Now func() time.Time

	// Location is where the reference day is read off the clock. Amendments
	// take effect at local midnight there. Defaults to Europe/Stockholm.
	Location *time.Location

	VersionTTL         time.Duration
	DiffTTL            time.Duration
	TimelineTTL        time.Duration
	PrewarmConcurrency int

	Logger *slog.Logger
}

type versionService struct {
	store  driven.StatuteStore
	cache  driven.VersionCache
	lock   driven.DistributedLock
	now    func() time.Time
	loc    *time.Location
	group  singleflight.Group
	logger *slog.Logger

	versionTTL  time.Duration
	diffTTL     time.Duration
	timelineTTL time.Duration
	prewarmN    int
}

// NewVersionService creates the version service.
func NewVersionService(cfg VersionServiceConfig) driving.VersionService {
	s := &versionService{
		store:       cfg.Store,
		cache:       cfg.Cache,
		lock:        cfg.Lock,
		now:         cfg.Now,
		loc:         cfg.Location,
		logger:      cfg.Logger,
		versionTTL:  cfg.VersionTTL,
		diffTTL:     cfg.DiffTTL,
		timelineTTL: cfg.TimelineTTL,
		prewarmN:    cfg.PrewarmConcurrency,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.loc == nil {
		loc, err := time.LoadLocation(defaultLocation)
		if err != nil {
			s.logger.Warn("reference day falls back to UTC", "location", defaultLocation, "error", err)
			loc = time.UTC
		}
		s.loc = loc
	}
	if s.versionTTL <= 0 {
		s.versionTTL = defaultVersionTTL
	}
	if s.diffTTL <= 0 {
		s.diffTTL = defaultDiffTTL
	}
	if s.timelineTTL <= 0 {
		s.timelineTTL = defaultTimelineTTL
	}
	if s.prewarmN <= 0 {
		s.prewarmN = defaultPrewarmConcurrency
	}
	return s
}

func (s *versionService) Version(ctx context.Context, documentID string, date time.Time, mode domain.VersionMode) (*domain.ReconstructedVersion, error) {
	id, mode, err := validate(documentID, mode)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	date = domain.Day(date)
	today := s.today()

	key := cacheKey(id, today, kindVersion, domain.FormatDate(date), string(mode))
	return getOrCompute(ctx, s, kindVersion, key, s.versionTTL, func(ctx context.Context) (*domain.ReconstructedVersion, error) {
		m, err := s.model(ctx, id, today, mode)
		if err != nil {
			return nil, err
		}
		return m.VersionAt(date)
	})
}

func (s *versionService) History(ctx context.Context, documentID string) (*domain.AmendmentHistory, error) {
	id, _, err := validate(documentID, domain.ModeHistorical)
	if err != nil {
		return nil, err
	}
	today := s.today()

	key := cacheKey(id, today, kindHistory)
	return getOrCompute(ctx, s, kindHistory, key, s.timelineTTL, func(ctx context.Context) (*domain.AmendmentHistory, error) {
		m, err := s.model(ctx, id, today, domain.ModeHistorical)
		if err != nil {
			return nil, err
		}
		return m.AmendmentHistory(), nil
	})
}

func (s *versionService) SectionHistory(ctx context.Context, documentID, chapter, section string) (*domain.SectionHistory, error) {
	id, _, err := validate(documentID, domain.ModePreview)
	if err != nil {
		return nil, err
	}
	sk, err := domain.NewSectionKey(chapter, section)
	if err != nil {
		return nil, err
	}
	today := s.today()

	key := cacheKey(id, today, kindSection, sk.String())
	return getOrCompute(ctx, s, kindSection, key, s.timelineTTL, func(ctx context.Context) (*domain.SectionHistory, error) {
		m, err := s.model(ctx, id, today, domain.ModePreview)
		if err != nil {
			return nil, err
		}
		return m.SectionHistory(sk)
	})
}

func (s *versionService) Diff(ctx context.Context, documentID string, from, to time.Time, mode domain.VersionMode, opts domain.DiffOptions) (*domain.DiffResult, error) {
	id, mode, err := validate(documentID, mode)
	if err != nil {
		return nil, err
	}
	if from.IsZero() || to.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	if opts.Context < 0 {
		return nil, fmt.Errorf("%w: negative patch context", domain.ErrInvalidInput)
	}
	from, to = domain.Day(from), domain.Day(to)
	today := s.today()

	key := cacheKey(id, today, kindDiff, domain.FormatDate(from), domain.FormatDate(to), string(mode), diffFlags(opts))
	return getOrCompute(ctx, s, kindDiff, key, s.diffTTL, func(ctx context.Context) (*domain.DiffResult, error) {
		m, err := s.model(ctx, id, today, mode)
		if err != nil {
			return nil, err
		}
		return m.DiffByDate(from, to, opts)
	})
}

func (s *versionService) VersionDates(ctx context.Context, documentID string) ([]time.Time, error) {
	id, _, err := validate(documentID, domain.ModeHistorical)
	if err != nil {
		return nil, err
	}
	today := s.today()

	key := cacheKey(id, today, kindDates)
	dates, err := getOrCompute(ctx, s, kindDates, key, s.timelineTTL, func(ctx context.Context) (*[]time.Time, error) {
		m, err := s.model(ctx, id, today, domain.ModeHistorical)
		if err != nil {
			return nil, err
		}
		d := m.VersionDates()
		return &d, nil
	})
	if err != nil {
		return nil, err
	}
	return *dates, nil
}

func (s *versionService) Invalidate(ctx context.Context, documentID string) (int, error) {
	id, err := domain.NormalizeDocumentID(documentID)
	if err != nil {
		return 0, err
	}
	if s.cache == nil {
		return 0, nil
	}
	n, err := s.cache.DeletePrefix(ctx, documentPrefix(id))
	if err != nil {
		return 0, fmt.Errorf("invalidate %s: %w", id, err)
	}
	s.logger.Info("cache invalidated", "document_id", id, "keys", n)
	return n, nil
}

func (s *versionService) Prewarm(ctx context.Context, targets []driving.PrewarmTarget) (*driving.PrewarmResult, error) {
	result := &driving.PrewarmResult{}
	var mu sync.Mutex
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			return
		}
		result.Warmed++
	}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		id, mode, err := validate(target.DocumentID, target.Mode)
		if err != nil {
			record(fmt.Errorf("%s: %w", target.DocumentID, err))
			continue
		}

		release, ok, err := s.acquirePrewarm(ctx, id)
		if err != nil {
			record(fmt.Errorf("%s: %w", id, err))
			continue
		}
		if !ok {
			s.logger.Info("prewarm already running elsewhere", "document_id", id)
			result.Skipped++
			continue
		}

		dates := target.Dates
		if len(dates) == 0 {
			if dates, err = s.prewarmDates(ctx, id); err != nil {
				release()
				record(fmt.Errorf("%s: %w", id, err))
				continue
			}
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.prewarmN)
		for _, d := range dates {
			g.Go(func() error {
				_, err := s.Version(gctx, id, d, mode)
				if err != nil && !errors.Is(err, domain.ErrNotYetInForce) {
					record(fmt.Errorf("%s@%s: %w", id, domain.FormatDate(d), err))
					return nil
				}
				record(nil)
				return nil
			})
		}
		_ = g.Wait()
		release()
	}

	s.logger.Info("prewarm complete",
		"targets", len(targets),
		"warmed", result.Warmed,
		"failed", result.Failed,
		"skipped", result.Skipped)
	return result, nil
}

// prewarmDates is today plus every date the document changed on.
func (s *versionService) prewarmDates(ctx context.Context, id string) ([]time.Time, error) {
	dates, err := s.VersionDates(ctx, id)
	if err != nil {
		return nil, err
	}
	return append([]time.Time{s.today()}, dates...), nil
}

// acquirePrewarm takes the per-document prewarm lock when a lock is configured.
// The returned release func is always safe to call.
func (s *versionService) acquirePrewarm(ctx context.Context, id string) (func(), bool, error) {
	if s.lock == nil {
		return func() {}, true, nil
	}
	name := "statute:prewarm:" + id
	ok, err := s.lock.Acquire(ctx, name, prewarmLockTTL)
	if err != nil || !ok {
		return func() {}, ok, err
	}
	return func() {
		if err := s.lock.Release(context.Background(), name); err != nil {
			s.logger.Warn("failed to release prewarm lock", "document_id", id, "error", err)
		}
	}, true, nil
}

func (s *versionService) today() time.Time {
	return domain.DayIn(s.now(), s.loc)
}

// model loads a document's rows in parallel and builds its history model.
func (s *versionService) model(ctx context.Context, id string, today time.Time, mode domain.VersionMode) (*versioning.Model, error) {
	var in versioning.Input

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := s.store.GetDocument(gctx, id)
		if err != nil {
			return err
		}
		in.Document = *doc
		return nil
	})
	g.Go(func() error {
		sections, err := s.store.GetCanonicalSections(gctx, id)
		in.Canonical = sections
		return err
	})
	g.Go(func() error {
		amendments, err := s.store.GetAmendments(gctx, id)
		in.Amendments = amendments
		return err
	})
	g.Go(func() error {
		changes, err := s.store.GetSectionChanges(gctx, id)
		in.Changes = changes
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", id, domain.ErrDocumentNotFound)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("load %s: %w: %w", id, domain.ErrServiceUnavailable, err)
	}

	m, err := versioning.Build(in, versioning.Options{Now: today, Mode: mode})
	if err != nil {
		// Caller input is validated before loading; anything Build rejects is stored data.
		return nil, fmt.Errorf("%s: %w: %w", id, domain.ErrDataIntegrity, err)
	}
	return m, nil
}

// getOrCompute is a cache-aside read. Concurrent misses on the same key share
// one computation. Cache failures degrade to computing; errors are never cached.
// The shared computation runs detached from every caller's cancellation, and
// each caller stops waiting when its own context ends.
func getOrCompute[T any](ctx context.Context, s *versionService, kind, key string, ttl time.Duration, compute func(context.Context) (*T, error)) (*T, error) {
	if s.cache != nil {
		data, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			cacheRequests.WithLabelValues(kind, "error").Inc()
			s.logger.Warn("cache read failed", "cache_key", key, "error", err)
		case ok:
			var v T
			if err := json.Unmarshal(data, &v); err == nil {
				cacheRequests.WithLabelValues(kind, "hit").Inc()
				return &v, nil
			}
			s.logger.Warn("discarding undecodable cache entry", "cache_key", key)
		}
		cacheRequests.WithLabelValues(kind, "miss").Inc()
	}

	ch := s.group.DoChan(key, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		start := time.Now()
		result, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		computeDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		s.logger.Debug("computed", "cache_key", key, "duration", time.Since(start))

		if s.cache != nil {
			if data, err := json.Marshal(result); err == nil {
				if err := s.cache.Set(ctx, key, data, ttl); err != nil {
					s.logger.Warn("cache write failed", "cache_key", key, "error", err)
				}
			}
		}
		return result, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			sharedComputations.WithLabelValues(kind).Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*T), nil
	}
}

// validate normalizes the document id and mode before any lookup.
func validate(documentID string, mode domain.VersionMode) (string, domain.VersionMode, error) {
	id, err := domain.NormalizeDocumentID(documentID)
	if err != nil {
		return "", "", err
	}
	mode, err = domain.ParseVersionMode(string(mode))
	if err != nil {
		return "", "", err
	}
	return id, mode, nil
}

func documentPrefix(id string) string {
	return "statute:" + id + ":"
}

// cacheKey builds "statute:<id>:<kind>:<parts...>@<today>". The reference day
// is part of the key since it moves the historical/preview boundary.
func cacheKey(id string, today time.Time, kind string, parts ...string) string {
	key := documentPrefix(id) + kind
	for _, p := range parts {
		key += ":" + p
	}
	return key + "@" + domain.FormatDate(today)
}

func diffFlags(opts domain.DiffOptions) string {
	flags := "all"
	if opts.ChangedOnly {
		flags = "changed"
	}
	if opts.IncludePatch {
		flags += fmt.Sprintf("+patch%d", opts.Context)
	}
	return flags
}

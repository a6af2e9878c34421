package catalog

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/contextware/better-agents/pkg/logger"
)

// DefaultTTL is how long a snapshot is trusted without refetching.
const DefaultTTL = 24 * time.Hour

// maxDescriptorFetches bounds concurrent SKILL.md downloads within one
// catalog refresh.
const maxDescriptorFetches = 4

// Source lists catalog entries and retrieves their descriptor documents.
type Source interface {
	List(ctx context.Context) ([]Entry, error)
	FetchDoc(ctx context.Context, entry Entry) (string, error)
}

// Clock supplies the current time. Injected so freshness rules are testable
// without real delays.
type Clock func() time.Time

// Service serves catalog snapshots, bounding remote calls with a single
// on-disk cache slot.
type Service struct {
	source Source
	store  Store
	clock  Clock
	ttl    time.Duration
	log    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// WithTTL replaces the snapshot time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService creates a catalog service over the given source and store.
func NewService(source Source, store Store, opts ...Option) *Service {
	s := &Service{
		source: source,
		store:  store,
		clock:  time.Now,
		ttl:    DefaultTTL,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Skills returns the current catalog, sorted by name. It never fails: a
// fetch error falls back to whatever snapshot is on disk, stale or not, and
// to an empty list when there is none. Skill selection is an enhancement to
// the scaffolding flow, not a requirement, so callers need a list rather
// than an error to handle.
func (s *Service) Skills(ctx context.Context, forceRefresh bool) []Skill {
	if forceRefresh {
		// Drop the slot before fetching so a failed fetch cannot fall
		// back to the snapshot the user asked to discard.
		if err := s.store.Delete(); err != nil {
			s.log.Debug("could not delete skills cache", "error", err)
		}
	} else if snap := s.store.Load(); snap != nil && snap.Age(s.clock()) < s.ttl {
		s.log.Debug("serving skills from cache", "count", len(snap.Skills), "age", snap.Age(s.clock()))
		return snap.Skills
	}

	skills, err := s.fetch(ctx)
	if err != nil {
		s.log.Debug("skills fetch failed", "error", err)
		if snap := s.store.Load(); snap != nil {
			s.log.Debug("falling back to stale skills cache", "count", len(snap.Skills))
			return snap.Skills
		}
		return []Skill{}
	}

	snap := &Snapshot{Timestamp: s.clock().UnixMilli(), Skills: skills}
	if err := s.store.Save(snap); err != nil {
		s.log.Debug("could not persist skills cache", "error", err)
	}

	return skills
}

// Find returns the named skill from the current catalog.
func (s *Service) Find(ctx context.Context, name string) (Skill, bool) {
	for _, sk := range s.Skills(ctx, false) {
		if sk.Name == name {
			return sk, true
		}
	}

	return Skill{}, false
}

// fetch lists the catalog and downloads each candidate's descriptor.
// Descriptor documents are independent of each other, so they are fetched
// with bounded concurrency; an entry whose download or parse fails is
// dropped without aborting the batch.
func (s *Service) fetch(ctx context.Context) ([]Skill, error) {
	entries, err := s.source.List(ctx)
	if err != nil {
		return nil, err
	}

	candidates := candidateEntries(entries)

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		skills = make([]Skill, 0, len(candidates))
	)
	sem := make(chan struct{}, maxDescriptorFetches)

	for _, entry := range candidates {
		sem <- struct{}{}
		wg.Add(1)
		go func(entry Entry) {
			defer wg.Done()
			defer func() { <-sem }()

			doc, err := s.source.FetchDoc(ctx, entry)
			if err != nil {
				s.log.Debug("skipping skill with unreadable descriptor", "skill", entry.Name, "error", err)
				return
			}

			sk := ParseSkillDoc(entry.Name, doc)

			mu.Lock()
			skills = append(skills, sk)
			mu.Unlock()
		}(entry)
	}
	wg.Wait()

	// Completion order is nondeterministic; restore a stable presentation
	// order.
	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })

	return skills, nil
}

// excludedEntries are repository housekeeping names that share the catalog
// tree but are never skills.
var excludedEntries = map[string]struct{}{
	".git":       {},
	".github":    {},
	"docs":       {},
	"license":    {},
	"license.md": {},
	"readme":     {},
	"readme.md":  {},
}

func candidateEntries(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Type != "dir" {
			continue
		}
		if _, skip := excludedEntries[strings.ToLower(e.Name)]; skip {
			continue
		}
		out = append(out, e)
	}

	return out
}

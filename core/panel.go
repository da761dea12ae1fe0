package core

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/seamosgenios/panel/core/agg"
	"github.com/seamosgenios/panel/core/algo"
	"github.com/seamosgenios/panel/core/identity"
	"github.com/seamosgenios/panel/core/sessions"
	"github.com/seamosgenios/panel/internal/contract"
	"github.com/seamosgenios/panel/schema"
)

// ErrStudentNotFound is returned when a StudentKey has no metrics under the active filters.
var ErrStudentNotFound = errors.New("student not found")

// RecomputeListener is notified with the fresh metrics after every recompute.
type RecomputeListener func(metrics map[string]schema.StudentMetrics)

// Panel owns the session store, the active filters and the latest aggregation.
// Every mutation runs a full recompute before listeners are notified, so readers
// never observe metrics computed against a stale filter or session set.
// A Panel is not safe for concurrent use.
type Panel struct {
	store     *sessions.Store
	excluded  agg.ExcludedSet
	filter    schema.FilterState
	metrics   map[string]schema.StudentMetrics
	listeners []RecomputeListener
	now       func() time.Time
}

// NewPanel creates a panel with the given excluded accounts and seed sessions.
func NewPanel(excludedAccounts []string, seed ...schema.Session) *Panel {
	p := &Panel{
		store:    sessions.NewStore(seed...),
		excluded: agg.NewExcludedSet(excludedAccounts),
		filter:   schema.DefaultFilter,
		now:      time.Now,
	}
	p.recompute()
	return p
}

// OnRecompute registers a listener called after each recompute.
func (p *Panel) OnRecompute(fn RecomputeListener) {
	p.listeners = append(p.listeners, fn)
}

// recompute replaces the metrics map and notifies listeners.
func (p *Panel) recompute() {
	p.metrics = agg.Aggregate(p.store.Sessions(), p.excluded, p.filter)
	for _, fn := range p.listeners {
		fn(maps.Clone(p.metrics))
	}
}

// Filter returns the active filter state.
func (p *Panel) Filter() schema.FilterState {
	return p.filter
}

// Excluded returns the excluded StudentKeys.
func (p *Panel) Excluded() agg.ExcludedSet {
	return p.excluded
}

// GetStudentMetrics returns a copy of the metrics map under the active filters.
func (p *Panel) GetStudentMetrics() map[string]schema.StudentMetrics {
	return maps.Clone(p.metrics)
}

// GetStudent looks a student up by display name or StudentKey.
func (p *Panel) GetStudent(name string) (schema.StudentMetrics, error) {
	key := identity.KeyFromName(name)
	m, ok := p.metrics[key]
	if !ok {
		return schema.StudentMetrics{}, fmt.Errorf("%w: %s", ErrStudentNotFound, key)
	}
	return m, nil
}

// GetFilteredSessions returns the sessions passing the area filter in store order.
func (p *Panel) GetFilteredSessions() []schema.Session {
	return agg.FilterSessions(p.store.Sessions(), p.filter)
}

// Sessions returns every stored session regardless of filters.
func (p *Panel) Sessions() []schema.Session {
	return p.store.Sessions()
}

// SetSedeFilter changes the sede filter and recomputes.
func (p *Panel) SetSedeFilter(value schema.SedeFilter) error {
	if _, ok := schema.ValidSedeFilters[value]; !ok {
		return fmt.Errorf("%w: sede %q", contract.ErrInvalidFilter, value)
	}
	p.filter.Sede = value
	p.recompute()
	return nil
}

// SetAreaFilter changes the area filter and recomputes.
func (p *Panel) SetAreaFilter(value schema.AreaFilter) error {
	if _, ok := schema.ValidAreaFilters[value]; !ok {
		return fmt.Errorf("%w: area %q", contract.ErrInvalidFilter, value)
	}
	p.filter.Area = value
	p.recompute()
	return nil
}

// SetFilter changes both filters with a single recompute.
func (p *Panel) SetFilter(filter schema.FilterState) error {
	if _, ok := schema.ValidSedeFilters[filter.Sede]; !ok {
		return fmt.Errorf("%w: sede %q", contract.ErrInvalidFilter, filter.Sede)
	}
	if _, ok := schema.ValidAreaFilters[filter.Area]; !ok {
		return fmt.Errorf("%w: area %q", contract.ErrInvalidFilter, filter.Area)
	}
	p.filter = filter
	p.recompute()
	return nil
}

// IngestFile parses one attendance file, appends it and recomputes.
// Nothing changes when the file yields no session.
func (p *Panel) IngestFile(content, name string) (schema.Session, error) {
	session, err := sessions.ParseFile(content, name, p.now())
	if err != nil {
		return schema.Session{}, err
	}
	session = p.store.Append(session)
	p.recompute()
	return session, nil
}

// IngestFiles reads a batch of files concurrently and appends the parsed sessions
// in input order once every read has finished. Listeners see exactly one recompute
// per batch; failed files are reported in the result and never block the batch.
func (p *Panel) IngestFiles(ctx context.Context, reader sessions.Reader, paths []string, workers int) schema.BatchResult {
	result := sessions.ReadBatch(ctx, reader, paths, workers, p.now())
	for i, s := range result.Sessions {
		result.Sessions[i] = p.store.Append(s)
	}
	if result.Completed == result.Requested {
		p.recompute()
	}
	return result
}

// ComputeUnifiedScore scores a student against a cross-session reference start.
func (p *Panel) ComputeUnifiedScore(student schema.StudentMetrics, referenceStart, totalSessions int) float64 {
	return algo.UnifiedScore(student, referenceStart, totalSessions)
}

// ComputeClassScores ranks the valid, non-excluded attendees of one session.
func (p *Panel) ComputeClassScores(session schema.Session) schema.ClassRanking {
	return algo.ClassScores(session, p.excluded)
}

// GlobalRanking ranks every student by the unified score over the filtered sessions.
func (p *Panel) GlobalRanking(limit int) schema.GlobalRanking {
	filtered := p.GetFilteredSessions()
	ref := algo.ReferenceStart(filtered)
	students := algo.SortedByName(p.metrics)
	return schema.GlobalRanking{
		ReferenceStart: ref,
		TotalSessions:  len(filtered),
		Students:       algo.RankStudents(students, ref, len(filtered), limit),
	}
}

// ClassRanking ranks the session at a 1-based index among the filtered sessions.
func (p *Panel) ClassRanking(index int) (schema.ClassRanking, error) {
	filtered := p.GetFilteredSessions()
	if index < 1 || index > len(filtered) {
		return schema.ClassRanking{}, fmt.Errorf("session %d out of range (1..%d)", index, len(filtered))
	}
	return p.ComputeClassScores(filtered[index-1]), nil
}

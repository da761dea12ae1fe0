package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/seamosgenios/panel/core/algo"
	"github.com/seamosgenios/panel/core/sessions"
	"github.com/seamosgenios/panel/internal/contract"
	"github.com/seamosgenios/panel/schema"
)

// ErrNoSessions is returned when neither the seed nor the data paths produced a session.
var ErrNoSessions = errors.New("no attendance sessions loaded")

// LoadPanel builds a panel from the seed file and every attendance file under the data paths,
// with the configured filters applied. Unreadable files are logged and skipped.
func LoadPanel(ctx context.Context, cfg *contract.Config) (*Panel, error) {
	var seed []schema.Session
	if cfg.SeedPath != "" {
		var err error
		if seed, err = sessions.LoadSeed(cfg.SeedPath); err != nil {
			return nil, err
		}
	}

	p := NewPanel(cfg.ExcludedAccounts, seed...)
	if err := p.SetFilter(cfg.Filter); err != nil {
		return nil, err
	}

	paths, err := sessions.ExpandPaths(cfg.DataPaths)
	if err != nil {
		return nil, err
	}
	result := p.IngestFiles(ctx, sessions.OSReader{}, paths, cfg.Workers)
	for _, f := range result.Failures {
		contract.LogWarn(fmt.Sprintf("Skipped %s", f.Path), f.Err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(p.Sessions()) == 0 {
		return nil, ErrNoSessions
	}
	return p, nil
}

// loadSideState returns every note and contacted flag. A disabled or failing store yields empty maps.
func loadSideState(mgr contract.StoreManager) (map[string]string, map[string]bool) {
	var store contract.SideStateStore
	if mgr != nil {
		store = mgr.GetSideStateStore()
	}
	if store == nil {
		return map[string]string{}, map[string]bool{}
	}
	notes, contacted, err := store.LoadAll()
	if err != nil {
		contract.LogWarn("Failed to load notes and contacted flags", err)
		return map[string]string{}, map[string]bool{}
	}
	return notes, contacted
}

// historyStore returns the history store carried by the context, or nil when tracking is disabled.
func historyStore(ctx context.Context) contract.HistoryStore {
	mgr := storeManagerFromContext(ctx)
	if mgr == nil {
		return nil
	}
	return mgr.GetHistoryStore()
}

// beginRun opens a history run and stores its ID in the returned context.
func beginRun(ctx context.Context, cfg *contract.Config, command string) context.Context {
	store := historyStore(ctx)
	if store == nil {
		return ctx
	}
	configParams := map[string]any{
		"command":      command,
		"data_paths":   cfg.DataPaths,
		"seed":         cfg.SeedPath,
		"workers":      cfg.Workers,
		"result_limit": cfg.ResultLimit,
		"session":      cfg.SessionIndex,
	}
	runID, err := store.BeginRun(time.Now(), cfg.Filter, configParams)
	if err != nil {
		contract.LogWarn("History tracking initialization failed", err)
		return ctx
	}
	return withRunID(ctx, runID)
}

// recordRun stores the scores of every student and closes the run.
func recordRun(ctx context.Context, p *Panel) {
	store := historyStore(ctx)
	runID, ok := getRunID(ctx)
	if store == nil || !ok {
		return
	}

	filtered := p.GetFilteredSessions()
	ref := algo.ReferenceStart(filtered)
	students := algo.SortedByName(p.metrics)
	for _, s := range students {
		scores := schema.StudentScores{
			Sede:         s.Sede,
			Area:         s.Area,
			Attended:     s.Attended,
			AttRate:      s.AttRate,
			AvgDuration:  s.AvgDuration,
			Engagement:   s.Engagement,
			UnifiedScore: algo.UnifiedScore(s, ref, len(filtered)),
		}
		if err := store.RecordStudentScores(runID, s.Name, scores); err != nil {
			contract.LogWarn(fmt.Sprintf("History tracking failed for %s", s.Name), err)
		}
	}

	if err := store.EndRun(runID, time.Now(), len(filtered), len(students)); err != nil {
		contract.LogWarn("Failed to finalize history tracking", err)
	}
}

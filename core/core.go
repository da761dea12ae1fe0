// Package core has the attendance panel: ingestion, aggregation, scoring and the command executors.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/seamosgenios/panel/core/identity"
	"github.com/seamosgenios/panel/internal/contract"
	"github.com/seamosgenios/panel/internal/outwriter"
)

// ExecutorFunc defines the function signature for executing panel commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteStudents prints every student under the active filters, sorted by name.
func ExecuteStudents(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	students, err := GetStudentsResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteStudents(students, cfg, time.Since(start))
}

// ExecuteStudent returns an executor that prints one student with its side-state.
func ExecuteStudent(name string) ExecutorFunc {
	return func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
		detail, err := GetStudentResult(ctx, cfg, mgr, name)
		if err != nil {
			return err
		}
		return outwriter.WriteStudentDetail(detail, cfg)
	}
}

// ExecuteSessions prints the per-session stats, or the attendees of cfg.SessionIndex when set.
func ExecuteSessions(ctx context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	p, err := LoadPanel(ctx, cfg)
	if err != nil {
		return err
	}
	if cfg.SessionIndex > 0 {
		detail, err := p.SessionDetail(cfg.SessionIndex)
		if err != nil {
			return err
		}
		return outwriter.WriteSessionDetail(detail, cfg)
	}
	return outwriter.WriteSessions(p.SessionReport(), cfg, time.Since(start))
}

// ExecuteRanking prints the unified ranking, or the class ranking of cfg.SessionIndex when set.
func ExecuteRanking(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	if cfg.SessionIndex > 0 {
		ranking, err := GetClassRankingResults(ctx, cfg, mgr)
		if err != nil {
			return err
		}
		return outwriter.WriteClassRanking(ranking, cfg, time.Since(start))
	}
	ranking, err := GetRankingResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteRanking(ranking, cfg, time.Since(start))
}

// ExecuteAlerts prints the risk, attention and excellence lists.
func ExecuteAlerts(ctx context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	alerts, err := GetAlertsResults(ctx, cfg)
	if err != nil {
		return err
	}
	return outwriter.WriteAlerts(alerts, cfg, time.Since(start))
}

// ExecuteSummary prints the dashboard KPIs.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	summary, err := GetSummaryResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteSummary(summary, cfg, time.Since(start))
}

// ExecuteHeatmap prints the student by session attendance grid.
func ExecuteHeatmap(ctx context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	p, err := LoadPanel(ctx, cfg)
	if err != nil {
		return err
	}
	return outwriter.WriteHeatmap(p.Heatmap(cfg.ResultLimit), cfg, time.Since(start))
}

// ExecuteMetrics prints the scoring formula definitions. No attendance data is read.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return outwriter.WriteMetricsDefinitions(cfg)
}

// sideStateStore returns the enabled side-state store or an error explaining how to enable it.
func sideStateStore(mgr contract.StoreManager) (contract.SideStateStore, error) {
	if mgr == nil || mgr.GetSideStateStore() == nil {
		return nil, fmt.Errorf("notes are disabled. Set --notes-backend to enable them")
	}
	return mgr.GetSideStateStore(), nil
}

// ExecuteNoteSet returns an executor that stores a note for a student. An empty note clears it.
func ExecuteNoteSet(name, note string) ExecutorFunc {
	return func(_ context.Context, _ *contract.Config, mgr contract.StoreManager) error {
		store, err := sideStateStore(mgr)
		if err != nil {
			return err
		}
		key := identity.KeyFromName(name)
		if err := store.SetNote(key, note); err != nil {
			return err
		}
		if note == "" {
			fmt.Printf("Cleared note for %s\n", key)
		} else {
			fmt.Printf("Saved note for %s\n", key)
		}
		return nil
	}
}

// ExecuteContact returns an executor that sets or clears a student's contacted flag.
func ExecuteContact(name string, contacted bool) ExecutorFunc {
	return func(_ context.Context, _ *contract.Config, mgr contract.StoreManager) error {
		store, err := sideStateStore(mgr)
		if err != nil {
			return err
		}
		key := identity.KeyFromName(name)
		if err := store.SetContacted(key, contacted); err != nil {
			return err
		}
		if contacted {
			fmt.Printf("Marked %s as contacted\n", key)
		} else {
			fmt.Printf("Marked %s as not contacted\n", key)
		}
		return nil
	}
}

// ExecuteNoteShow returns an executor that prints the side-state of one student.
func ExecuteNoteShow(name string) ExecutorFunc {
	return func(_ context.Context, _ *contract.Config, mgr contract.StoreManager) error {
		store, err := sideStateStore(mgr)
		if err != nil {
			return err
		}
		key := identity.KeyFromName(name)
		note, contacted, err := store.Get(key)
		if err != nil {
			return err
		}
		fmt.Printf("Student: %s\nContacted: %t\n", key, contacted)
		if note == "" {
			fmt.Println("Note: (none)")
		} else {
			fmt.Printf("Note: %s\n", note)
		}
		return nil
	}
}

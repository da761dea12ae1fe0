package core

import (
	"context"

	"github.com/seamosgenios/panel/core/algo"
	"github.com/seamosgenios/panel/internal/contract"
	"github.com/seamosgenios/panel/schema"
)

// loadTracked loads the panel inside a history run that records every student's scores.
func loadTracked(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, command string) (*Panel, error) {
	ctx = beginRun(contextWithStoreManager(ctx, mgr), cfg, command)
	p, err := LoadPanel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	recordRun(ctx, p)
	return p, nil
}

// GetStudentsResults returns every student under the configured filters, sorted by name,
// with rank, label, status and side-state attached.
func GetStudentsResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.EnrichedStudent, error) {
	p, err := loadTracked(ctx, cfg, mgr, "students")
	if err != nil {
		return nil, err
	}
	notes, contacted := loadSideState(mgr)
	return schema.EnrichStudents(algo.SortedByName(p.GetStudentMetrics()), notes, contacted), nil
}

// GetStudentResult returns one student's detail.
func GetStudentResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, name string) (schema.StudentDetail, error) {
	p, err := LoadPanel(ctx, cfg)
	if err != nil {
		return schema.StudentDetail{}, err
	}
	notes, contacted := loadSideState(mgr)
	return p.StudentDetail(name, notes, contacted)
}

// GetRankingResults returns the unified ranking limited to cfg.ResultLimit.
func GetRankingResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.GlobalRanking, error) {
	p, err := loadTracked(ctx, cfg, mgr, "ranking")
	if err != nil {
		return schema.GlobalRanking{}, err
	}
	return p.GlobalRanking(cfg.ResultLimit), nil
}

// GetClassRankingResults returns the ranking of session cfg.SessionIndex limited to cfg.ResultLimit.
func GetClassRankingResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.ClassRanking, error) {
	p, err := loadTracked(ctx, cfg, mgr, "ranking")
	if err != nil {
		return schema.ClassRanking{}, err
	}
	ranking, err := p.ClassRanking(cfg.SessionIndex)
	if err != nil {
		return schema.ClassRanking{}, err
	}
	if cfg.ResultLimit > 0 && len(ranking.Scores) > cfg.ResultLimit {
		ranking.Scores = ranking.Scores[:cfg.ResultLimit]
	}
	return ranking, nil
}

// GetAlertsResults returns the risk, attention and excellence lists.
func GetAlertsResults(ctx context.Context, cfg *contract.Config) (schema.AlertList, error) {
	p, err := LoadPanel(ctx, cfg)
	if err != nil {
		return schema.AlertList{}, err
	}
	return p.Alerts(), nil
}

// GetSummaryResults returns the dashboard KPIs including side-state counts.
func GetSummaryResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.Summary, error) {
	p, err := LoadPanel(ctx, cfg)
	if err != nil {
		return schema.Summary{}, err
	}
	notes, contacted := loadSideState(mgr)
	return p.Summary(notes, contacted), nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
	"github.com/josh-kwaku/ledger-sync/internal/hierarchy"
)

const statsSampleSize = 10

type HierarchyService struct {
	store  levelReader
	logger *slog.Logger
}

func NewHierarchyService(store levelReader, logger *slog.Logger) *HierarchyService {
	return &HierarchyService{store: store, logger: logger}
}

type HierarchyReport struct {
	TotalRecords int
	Nodes        []domain.TreeNode
	Orphans      []domain.LevelRecord
}

// BuildReport reads every persisted record, nests them and aggregates totals.
// The tree is rebuilt on every call.
func (s *HierarchyService) BuildReport(ctx context.Context) (*HierarchyReport, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("BuildReport: %w: %w", domain.ErrStorage, err)
	}

	nodes, orphans := hierarchy.Build(records)
	hierarchy.Aggregate(nodes)

	if len(orphans) > 0 {
		codes := make([]string, 0, len(orphans))
		for _, o := range orphans {
			codes = append(codes, o.Code)
		}
		s.logger.Warn("records without a parent left out of hierarchy",
			"count", len(orphans),
			"codes", codes,
		)
	}

	return &HierarchyReport{
		TotalRecords: len(records),
		Nodes:        nodes,
		Orphans:      orphans,
	}, nil
}

func (s *HierarchyService) GetHierarchy(ctx context.Context) ([]domain.TreeNode, error) {
	report, err := s.BuildReport(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetHierarchy: %w", err)
	}
	return report.Nodes, nil
}

func (s *HierarchyService) ListRecords(ctx context.Context) ([]domain.LevelRecord, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListRecords: %w: %w", domain.ErrStorage, err)
	}
	return records, nil
}

type StoreStats struct {
	TotalRecords int64
	Sample       []domain.LevelRecord
}

func (s *HierarchyService) Stats(ctx context.Context) (*StoreStats, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("Stats: %w: %w", domain.ErrStorage, err)
	}
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("Stats: %w: %w", domain.ErrStorage, err)
	}
	if len(records) > statsSampleSize {
		records = records[:statsSampleSize]
	}
	return &StoreStats{TotalRecords: total, Sample: records}, nil
}

func (s *HierarchyService) Clear(ctx context.Context) (int64, error) {
	n, err := s.store.ClearAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("Clear: %w: %w", domain.ErrStorage, err)
	}
	s.logger.Info("financial data cleared", "deleted", n)
	return n, nil
}

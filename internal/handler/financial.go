package handler

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
	"github.com/josh-kwaku/ledger-sync/internal/export"
	"github.com/josh-kwaku/ledger-sync/internal/logging"
	"github.com/josh-kwaku/ledger-sync/internal/service"
)

type hierarchyService interface {
	GetHierarchy(ctx context.Context) ([]domain.TreeNode, error)
	BuildReport(ctx context.Context) (*service.HierarchyReport, error)
	ListRecords(ctx context.Context) ([]domain.LevelRecord, error)
	Clear(ctx context.Context) (int64, error)
}

type FinancialHandler struct {
	hierarchy hierarchyService
}

func NewFinancialHandler(hierarchy hierarchyService) *FinancialHandler {
	return &FinancialHandler{hierarchy: hierarchy}
}

// Hierarchy serves the aggregated group > sub-group > account tree.
func (h *FinancialHandler) Hierarchy(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.hierarchy.GetHierarchy(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toTreeNodeDTOs(nodes))
}

const exportFilename = "financial-hierarchy.xlsx"

// Export serves the aggregated tree as an XLSX workbook.
func (h *FinancialHandler) Export(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.hierarchy.GetHierarchy(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteHierarchyXLSX(&buf, nodes); err != nil {
		logging.FromContext(r.Context()).Error("failed to render hierarchy export", "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Warn("failed to write hierarchy export", "error", err)
	}
}

type hierarchyDebugResponse struct {
	TotalRecords     int           `json:"total_records"`
	OrphanCodes      []string      `json:"orphan_codes"`
	HierarchicalData []treeNodeDTO `json:"hierarchical_data"`
}

func (h *FinancialHandler) DebugHierarchy(w http.ResponseWriter, r *http.Request) {
	report, err := h.hierarchy.BuildReport(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	orphans := make([]string, 0, len(report.Orphans))
	for _, o := range report.Orphans {
		orphans = append(orphans, o.Code)
	}

	RespondSuccess(w, http.StatusOK, hierarchyDebugResponse{
		TotalRecords:     report.TotalRecords,
		OrphanCodes:      orphans,
		HierarchicalData: toTreeNodeDTOs(report.Nodes),
	})
}

type recordsDebugResponse struct {
	TotalCount int              `json:"total_count"`
	Data       []levelRecordDTO `json:"data"`
}

func (h *FinancialHandler) DebugRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.hierarchy.ListRecords(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, recordsDebugResponse{
		TotalCount: len(records),
		Data:       toLevelRecordDTOs(records),
	})
}

type clearResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}

func (h *FinancialHandler) Clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.hierarchy.Clear(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	logging.FromContext(r.Context()).Info("financial data cleared via api", "deleted", n)
	RespondSuccess(w, http.StatusOK, clearResponse{
		Message:      "financial data cleared",
		DeletedCount: n,
	})
}

package handler

import (
	"context"
	"net/http"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
	"github.com/josh-kwaku/ledger-sync/internal/logging"
	"github.com/josh-kwaku/ledger-sync/internal/service"
)

type syncRunner interface {
	RunSync(ctx context.Context, trigger domain.SyncTrigger) (*domain.SyncResult, error)
}

type upstreamProber interface {
	Probe(ctx context.Context) (*service.ProbeResult, error)
}

type storeInspector interface {
	Stats(ctx context.Context) (*service.StoreStats, error)
}

// DebugHandler exposes operational endpoints: a manual sync trigger, a storage
// summary and an upstream connectivity probe.
type DebugHandler struct {
	syncer syncRunner
	prober upstreamProber
	store  storeInspector
}

func NewDebugHandler(syncer syncRunner, prober upstreamProber, store storeInspector) *DebugHandler {
	return &DebugHandler{syncer: syncer, prober: prober, store: store}
}

type syncResponse struct {
	Message      string `json:"message"`
	Processed    int    `json:"processed"`
	Skipped      int    `json:"skipped"`
	Unique       int    `json:"unique"`
	Succeeded    int    `json:"succeeded"`
	Failed       int    `json:"failed"`
	TotalRecords int64  `json:"total_records"`
}

func (h *DebugHandler) Sync(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	// A client hanging up must not cancel the merges of a run already started.
	result, err := h.syncer.RunSync(context.WithoutCancel(r.Context()), domain.SyncTriggerManual)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	resp := syncResponse{
		Message:   "sync completed",
		Processed: result.Processed,
		Skipped:   result.Skipped,
		Unique:    result.Unique,
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
	}
	if stats, err := h.store.Stats(r.Context()); err != nil {
		log.Warn("could not count records after sync", "error", err)
	} else {
		resp.TotalRecords = stats.TotalRecords
	}

	RespondSuccess(w, http.StatusOK, resp)
}

type databaseResponse struct {
	Status       string           `json:"status"`
	TotalRecords int64            `json:"total_records"`
	Sample       []levelRecordDTO `json:"sample"`
}

func (h *DebugHandler) Database(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, databaseResponse{
		Status:       "connected",
		TotalRecords: stats.TotalRecords,
		Sample:       toLevelRecordDTOs(stats.Sample),
	})
}

type probeResponse struct {
	TokenReceived bool   `json:"token_received"`
	RawDataLength int    `json:"raw_data_length"`
	RawDataSample string `json:"raw_data_sample"`
}

func (h *DebugHandler) TestUpstream(w http.ResponseWriter, r *http.Request) {
	probe, err := h.prober.Probe(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, probeResponse{
		TokenReceived: probe.TokenReceived,
		RawDataLength: probe.RawLength,
		RawDataSample: probe.RawSample,
	})
}

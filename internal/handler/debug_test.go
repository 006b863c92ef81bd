package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
	"github.com/josh-kwaku/ledger-sync/internal/service"
)

type mockSyncRunner struct {
	result  *domain.SyncResult
	err     error
	trigger domain.SyncTrigger
	ctxErr  error
}

func (m *mockSyncRunner) RunSync(ctx context.Context, trigger domain.SyncTrigger) (*domain.SyncResult, error) {
	m.trigger = trigger
	m.ctxErr = ctx.Err()
	return m.result, m.err
}

type mockProber struct {
	probe *service.ProbeResult
	err   error
}

func (m *mockProber) Probe(context.Context) (*service.ProbeResult, error) {
	return m.probe, m.err
}

type mockInspector struct {
	stats *service.StoreStats
	err   error
}

func (m *mockInspector) Stats(context.Context) (*service.StoreStats, error) {
	return m.stats, m.err
}

func TestDebugHandler_Sync(t *testing.T) {
	runner := &mockSyncRunner{result: &domain.SyncResult{Processed: 2, Unique: 4, Succeeded: 4}}
	h := NewDebugHandler(runner, &mockProber{}, &mockInspector{stats: &service.StoreStats{TotalRecords: 4}})

	rec := httptest.NewRecorder()
	h.Sync(rec, httptest.NewRequest(http.MethodPost, "/api/debug/sync", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.SyncTriggerManual, runner.trigger)

	env := decodeEnvelope[syncResponse](t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, 2, env.Data.Processed)
	assert.Equal(t, 4, env.Data.Succeeded)
	assert.Equal(t, int64(4), env.Data.TotalRecords)
}

func TestDebugHandler_Sync_SurvivesClientDisconnect(t *testing.T) {
	runner := &mockSyncRunner{result: &domain.SyncResult{Processed: 1, Unique: 3, Succeeded: 3}}
	h := NewDebugHandler(runner, &mockProber{}, &mockInspector{stats: &service.StoreStats{TotalRecords: 3}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/debug/sync", nil).WithContext(ctx)

	rec := httptest.NewRecorder()
	h.Sync(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, runner.ctxErr)
}

func TestDebugHandler_Sync_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "already running",
			err:        fmt.Errorf("RunSync: %w", domain.ErrSyncInProgress),
			wantStatus: http.StatusConflict,
			wantCode:   "SYNC_IN_PROGRESS",
		},
		{
			name:       "upstream unreachable",
			err:        fmt.Errorf("RunSync: FetchEntries: Login: %w", domain.ErrTransport),
			wantStatus: http.StatusBadGateway,
			wantCode:   "UPSTREAM_UNAVAILABLE",
		},
		{
			name:       "upstream garbage",
			err:        fmt.Errorf("RunSync: ParseEntries: %w", domain.ErrParse),
			wantStatus: http.StatusBadGateway,
			wantCode:   "UPSTREAM_INVALID_PAYLOAD",
		},
		{
			name:       "unexpected",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewDebugHandler(&mockSyncRunner{err: tt.err}, &mockProber{}, &mockInspector{})

			rec := httptest.NewRecorder()
			h.Sync(rec, httptest.NewRequest(http.MethodPost, "/api/debug/sync", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			env := decodeEnvelope[any](t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestDebugHandler_Database(t *testing.T) {
	stats := &service.StoreStats{
		TotalRecords: 42,
		Sample:       []domain.LevelRecord{{Code: "120", Level: domain.LevelGroup}},
	}
	h := NewDebugHandler(&mockSyncRunner{}, &mockProber{}, &mockInspector{stats: stats})

	rec := httptest.NewRecorder()
	h.Database(rec, httptest.NewRequest(http.MethodGet, "/api/debug/db", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope[databaseResponse](t, rec)
	assert.Equal(t, "connected", env.Data.Status)
	assert.Equal(t, int64(42), env.Data.TotalRecords)
	require.Len(t, env.Data.Sample, 1)
	assert.Equal(t, "120", env.Data.Sample[0].Code)
}

func TestDebugHandler_TestUpstream(t *testing.T) {
	prober := &mockProber{probe: &service.ProbeResult{TokenReceived: true, RawLength: 1234, RawSample: `[{"hesap_kodu":"120"`}}
	h := NewDebugHandler(&mockSyncRunner{}, prober, &mockInspector{})

	rec := httptest.NewRecorder()
	h.TestUpstream(rec, httptest.NewRequest(http.MethodGet, "/api/debug/test-api", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope[probeResponse](t, rec)
	assert.True(t, env.Data.TokenReceived)
	assert.Equal(t, 1234, env.Data.RawDataLength)
	assert.Equal(t, `[{"hesap_kodu":"120"`, env.Data.RawDataSample)
}

func TestDebugHandler_TestUpstream_Failure(t *testing.T) {
	h := NewDebugHandler(&mockSyncRunner{}, &mockProber{err: fmt.Errorf("Probe: %w", domain.ErrTransport)}, &mockInspector{})

	rec := httptest.NewRecorder()
	h.TestUpstream(rec, httptest.NewRequest(http.MethodGet, "/api/debug/test-api", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

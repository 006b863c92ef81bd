package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
)

const (
	testToken    = "tok-123"
	testUsername = "apitest"
	testPassword = "secret"
)

type fakeUpstream struct {
	scriptResult *string
	loginStatus  int
	dataStatus   int
	omitToken    bool
	logouts      atomic.Int32

	mu           sync.Mutex
	lastDataBody map[string]any
	lastDataPath string
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/sessions":
		user, pass, ok := r.BasicAuth()
		if !ok || user != testUsername || pass != testPassword {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if f.loginStatus != 0 {
			w.WriteHeader(f.loginStatus)
			_, _ = w.Write([]byte(`{"messages":[{"code":"812","message":"busy"}]}`))
			return
		}
		token := testToken
		if f.omitToken {
			token = ""
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"response": map[string]any{"token": token}})

	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/layouts/"):
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.mu.Lock()
		f.lastDataPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&f.lastDataBody)
		f.mu.Unlock()
		if f.dataStatus != 0 {
			w.WriteHeader(f.dataStatus)
			return
		}
		resp := map[string]any{}
		if f.scriptResult != nil {
			resp["scriptResult"] = *f.scriptResult
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"response": resp})

	case r.Method == http.MethodDelete && r.URL.Path == "/sessions/"+testToken:
		f.logouts.Add(1)
		_, _ = w.Write([]byte(`{"response":{}}`))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func strPtr(s string) *string { return &s }

func newTestClient(t *testing.T, upstream *fakeUpstream) *UpstreamClient {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	return NewUpstreamClient(UpstreamConfig{
		BaseURL:  srv.URL,
		Layout:   "testdb",
		RecordID: "1",
		Script:   "getData",
		Username: testUsername,
		Password: testPassword,
		Timeout:  2 * time.Second,
	})
}

func TestUpstreamClient_FetchEntries(t *testing.T) {
	upstream := &fakeUpstream{
		scriptResult: strPtr(`[
			{"hesap_kodu":"120.01.001","hesap_adi":"Cash A","borc":100,"alacak":0},
			{"hesap_kodu":"120.01.002","hesap_adi":"Cash B","borc":"50.5","alacak":null}
		]`),
	}
	client := newTestClient(t, upstream)

	entries, err := client.FetchEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, domain.LedgerEntry{AccountCode: "120.01.001", AccountName: "Cash A", Debit: "100", Credit: "0"}, entries[0])
	assert.Equal(t, domain.LedgerEntry{AccountCode: "120.01.002", AccountName: "Cash B", Debit: "50.5", Credit: ""}, entries[1])

	upstream.mu.Lock()
	defer upstream.mu.Unlock()
	assert.Equal(t, "/layouts/testdb/records/1", upstream.lastDataPath)
	assert.Equal(t, "getData", upstream.lastDataBody["script"])
	assert.Equal(t, map[string]any{}, upstream.lastDataBody["fieldData"])
	assert.Equal(t, int32(1), upstream.logouts.Load())
}

func TestUpstreamClient_FetchEntries_Errors(t *testing.T) {
	tests := []struct {
		name     string
		upstream *fakeUpstream
		wantErr  error
	}{
		{
			name:     "login rejected",
			upstream: &fakeUpstream{loginStatus: http.StatusInternalServerError},
			wantErr:  domain.ErrTransport,
		},
		{
			name:     "no token in session response",
			upstream: &fakeUpstream{omitToken: true},
			wantErr:  domain.ErrParse,
		},
		{
			name:     "data call rejected",
			upstream: &fakeUpstream{dataStatus: http.StatusBadGateway},
			wantErr:  domain.ErrTransport,
		},
		{
			name:     "missing scriptResult",
			upstream: &fakeUpstream{},
			wantErr:  domain.ErrParse,
		},
		{
			name:     "scriptResult not json",
			upstream: &fakeUpstream{scriptResult: strPtr("Error: script failed")},
			wantErr:  domain.ErrParse,
		},
		{
			name:     "scriptResult not an array",
			upstream: &fakeUpstream{scriptResult: strPtr(`{"hesap_kodu":"120"}`)},
			wantErr:  domain.ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.upstream)

			entries, err := client.FetchEntries(context.Background())
			assert.Nil(t, entries)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpstreamClient_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(&fakeUpstream{})
	t.Cleanup(srv.Close)

	client := NewUpstreamClient(UpstreamConfig{BaseURL: srv.URL, Username: "nobody", Password: "wrong"})
	_, err := client.Login(context.Background())
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "401")
}

func TestUpstreamClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(&fakeUpstream{})
	url := srv.URL
	srv.Close()

	client := NewUpstreamClient(UpstreamConfig{BaseURL: url, Timeout: time.Second})
	_, err := client.FetchEntries(context.Background())
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestUpstreamClient_Probe(t *testing.T) {
	raw := "[" + strings.Repeat(`{"hesap_kodu":"120.01.001","hesap_adi":"Cash","borc":1,"alacak":0},`, 20) + `{"hesap_kodu":"120"}]`
	client := newTestClient(t, &fakeUpstream{scriptResult: strPtr(raw)})

	probe, err := client.Probe(context.Background())
	require.NoError(t, err)
	assert.True(t, probe.TokenReceived)
	assert.Equal(t, len(raw), probe.RawLength)
	assert.Len(t, probe.RawSample, 500)
	assert.True(t, strings.HasPrefix(raw, probe.RawSample))
}

func TestParseEntries(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []domain.LedgerEntry
	}{
		{
			name: "empty array",
			raw:  `[]`,
			want: []domain.LedgerEntry{},
		},
		{
			name: "numeric account code",
			raw:  `[{"hesap_kodu":120,"hesap_adi":"Kasa","borc":"1.5","alacak":"2"}]`,
			want: []domain.LedgerEntry{{AccountCode: "120", AccountName: "Kasa", Debit: "1.5", Credit: "2"}},
		},
		{
			name: "missing fields",
			raw:  `[{"hesap_adi":"No code"}]`,
			want: []domain.LedgerEntry{{AccountName: "No code"}},
		},
		{
			name: "null values",
			raw:  `[{"hesap_kodu":null,"hesap_adi":null,"borc":null,"alacak":null}]`,
			want: []domain.LedgerEntry{{}},
		},
		{
			name: "unparseable amount kept verbatim",
			raw:  `[{"hesap_kodu":"320","borc":"abc","alacak":"12abc"}]`,
			want: []domain.LedgerEntry{{AccountCode: "320", Debit: "abc", Credit: "12abc"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntries(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

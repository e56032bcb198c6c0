package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JMousqueton/api.ransomware.live/internal/cache"
	"github.com/JMousqueton/api.ransomware.live/internal/enrich"
	"github.com/JMousqueton/api.ransomware.live/internal/model"
	"github.com/JMousqueton/api.ransomware.live/internal/ratelimit"
	"github.com/JMousqueton/api.ransomware.live/internal/screenshot"
	"github.com/JMousqueton/api.ransomware.live/pkg/config"
	apperrors "github.com/JMousqueton/api.ransomware.live/pkg/errors"
)

// fakeLoader serves fixed datasets and counts loads, so tests can observe
// whether the cache short-circuited a request.
type fakeLoader struct {
	victims      []model.VictimRecord
	groups       []model.GroupRecord
	ttps         []model.TTPRecord
	infostealer  map[string]model.InfostealerExposure
	cyberattacks []model.CyberattackRecord

	err   error
	loads atomic.Int64
}

func (f *fakeLoader) Victims(ctx context.Context) ([]model.VictimRecord, error) {
	f.loads.Add(1)
	return f.victims, f.err
}

func (f *fakeLoader) Groups(ctx context.Context) ([]model.GroupRecord, error) {
	f.loads.Add(1)
	return f.groups, f.err
}

func (f *fakeLoader) TTPs(ctx context.Context) ([]model.TTPRecord, error) {
	f.loads.Add(1)
	return f.ttps, f.err
}

func (f *fakeLoader) Infostealer(ctx context.Context) (map[string]model.InfostealerExposure, error) {
	f.loads.Add(1)
	return f.infostealer, f.err
}

func (f *fakeLoader) Cyberattacks(ctx context.Context) ([]model.CyberattackRecord, error) {
	f.loads.Add(1)
	return f.cyberattacks, f.err
}

func newTestAPI(t *testing.T, loader *fakeLoader, limit int) http.Handler {
	t.Helper()

	cfg := &config.Config{
		ServiceName: "ransomware-api",
		CacheTTL:    time.Minute,
		DocsURL:     "https://apidocs.example.com",
		CORSOrigins: []string{"*"},
	}

	store := cache.NewMemory(0)
	t.Cleanup(store.Stop)

	limiter := ratelimit.New(limit, time.Minute)
	t.Cleanup(limiter.Stop)

	enricher := enrich.New(screenshot.NewResolver(t.TempDir(), "https://images.example.com/"))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(cfg, loader, enricher, store, log).Router(limiter)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRecentVictims(t *testing.T) {
	loader := &fakeLoader{
		victims: []model.VictimRecord{
			{PostTitle: "Acme", GroupName: "lockbit3", Published: "2025-01-02", Website: "acme.com"},
			{PostTitle: "Globex", GroupName: "clop", Published: "2025-01-05"},
		},
		infostealer: map[string]model.InfostealerExposure{
			"acme.com": {Employees: 4},
		},
	}

	rec := get(t, newTestAPI(t, loader, 100), "/recentvictims")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var victims []model.VictimRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &victims))
	require.Len(t, victims, 2)
	assert.Equal(t, "Globex", victims[0].PostTitle)
	require.NotNil(t, victims[1].Infostealer)
	assert.Equal(t, 4, victims[1].Infostealer.Employees)
}

func TestCacheShortCircuitsSecondRequest(t *testing.T) {
	loader := &fakeLoader{
		victims: []model.VictimRecord{{PostTitle: "Acme", Published: "2025-01-01"}},
	}
	h := newTestAPI(t, loader, 100)

	first := get(t, h, "/recentvictims")
	require.Equal(t, http.StatusOK, first.Code)
	loadsAfterFirst := loader.loads.Load()
	assert.Positive(t, loadsAfterFirst)

	second := get(t, h, "/recentvictims")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, loadsAfterFirst, loader.loads.Load(), "second request must come from cache")
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
}

func TestCacheKeysAreParameterScoped(t *testing.T) {
	loader := &fakeLoader{
		victims: []model.VictimRecord{
			{PostTitle: "A", GroupName: "lockbit3", Discovered: "2024-07-01"},
			{PostTitle: "B", GroupName: "clop", Discovered: "2023-01-01"},
		},
	}
	h := newTestAPI(t, loader, 100)

	recA := get(t, h, "/groupvictims/lockbit3")
	recB := get(t, h, "/groupvictims/clop")
	require.Equal(t, http.StatusOK, recA.Code)
	require.Equal(t, http.StatusOK, recB.Code)
	assert.NotEqual(t, recA.Body.String(), recB.Body.String())
}

func TestVictimsByPeriod(t *testing.T) {
	loader := &fakeLoader{
		victims: []model.VictimRecord{
			{PostTitle: "A", Discovered: "2024-07-01 10:00:00"},
			{PostTitle: "B", Discovered: "2024-11-01 10:00:00"},
			{PostTitle: "C", Discovered: "2023-07-01 10:00:00"},
		},
	}
	h := newTestAPI(t, loader, 100)

	rec := get(t, h, "/victims/2024")
	require.Equal(t, http.StatusOK, rec.Code)
	var victims []model.VictimRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &victims))
	assert.Len(t, victims, 2)

	rec = get(t, h, "/victims/2024/7")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &victims))
	require.Len(t, victims, 1)
	assert.Equal(t, "A", victims[0].PostTitle)

	rec = get(t, h, "/victims/2024/13")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, h, "/victims/notayear")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGroupLookup(t *testing.T) {
	loader := &fakeLoader{
		groups: []model.GroupRecord{{Name: "lockbit3"}},
		ttps: []model.TTPRecord{
			{GroupName: "lockbit3", Techniques: []model.Technique{{ID: "T1486"}}},
		},
	}
	h := newTestAPI(t, loader, 100)

	rec := get(t, h, "/group/lockbit3")
	require.Equal(t, http.StatusOK, rec.Code)

	var group model.GroupRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &group))
	assert.Equal(t, "lockbit3", group.Name)
	require.Len(t, group.TTPs, 1)
	assert.Empty(t, group.TTPs[0].GroupName)
}

func TestGroupNotFound(t *testing.T) {
	loader := &fakeLoader{groups: []model.GroupRecord{{Name: "clop"}}}

	rec := get(t, newTestAPI(t, loader, 100), "/group/nosuchgroup")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "group not found", body["error"])
}

func TestGroupVictimsNoMatchIsEmptyArray(t *testing.T) {
	loader := &fakeLoader{
		victims: []model.VictimRecord{{PostTitle: "A", GroupName: "clop"}},
	}

	rec := get(t, newTestAPI(t, loader, 100), "/groupvictims/nosuchgroup")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestSourceFailurePropagatesStatus(t *testing.T) {
	loader := &fakeLoader{
		err: apperrors.SourceUnavailable("failed to fetch data from the source").
			WithStatus(http.StatusBadGateway),
	}

	rec := get(t, newTestAPI(t, loader, 100), "/recentvictims")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "failed to fetch data from the source", body["error"])
}

func TestFailedResponsesAreNotCached(t *testing.T) {
	loader := &fakeLoader{
		err: apperrors.SourceUnavailable("failed to fetch data from the source"),
	}
	h := newTestAPI(t, loader, 100)

	rec := get(t, h, "/recentvictims")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// Source recovers; the next request must reach it.
	loader.err = nil
	loader.victims = []model.VictimRecord{{PostTitle: "Acme"}}

	rec = get(t, h, "/recentvictims")
	require.Equal(t, http.StatusOK, rec.Code)
	var victims []model.VictimRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &victims))
	assert.Len(t, victims, 1)
}

func TestRateLimitRejectsSecondCall(t *testing.T) {
	loader := &fakeLoader{
		victims: []model.VictimRecord{{PostTitle: "Acme"}},
	}
	h := newTestAPI(t, loader, 1)

	rec := get(t, h, "/recentvictims")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, h, "/recentvictims")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rate limit exceeded, try again later", body["error"])

	// Another route still has its own window.
	rec = get(t, h, "/groups")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCyberattacks(t *testing.T) {
	loader := &fakeLoader{
		cyberattacks: []model.CyberattackRecord{
			{Title: "old", Date: "2023-01-01"},
			{Title: "new", Date: "2025-06-01"},
		},
	}
	h := newTestAPI(t, loader, 100)

	rec := get(t, h, "/recentcyberattacks")
	require.Equal(t, http.StatusOK, rec.Code)

	var attacks []model.CyberattackRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &attacks))
	require.Len(t, attacks, 2)
	assert.Equal(t, "new", attacks[0].Title)

	rec = get(t, h, "/allcyberattacks")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCountryAttacks(t *testing.T) {
	loader := &fakeLoader{
		victims: []model.VictimRecord{
			{PostTitle: "A", Country: "FR"},
			{PostTitle: "B", Country: "US"},
		},
	}

	rec := get(t, newTestAPI(t, loader, 100), "/countryattacks/fr")
	require.Equal(t, http.StatusOK, rec.Code)

	var victims []model.VictimRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &victims))
	require.Len(t, victims, 1)
	assert.Equal(t, "A", victims[0].PostTitle)
}

func TestCountryLookup(t *testing.T) {
	h := newTestAPI(t, &fakeLoader{}, 100)

	rec := get(t, h, "/country/fr")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"country": "France"}`, rec.Body.String())

	rec = get(t, h, "/country/zz")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthIsNotRateLimited(t *testing.T) {
	h := newTestAPI(t, &fakeLoader{}, 1)

	for i := 0; i < 3; i++ {
		rec := get(t, h, "/health")
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestUnknownRouteRedirectsToDocs(t *testing.T) {
	h := newTestAPI(t, &fakeLoader{}, 100)

	rec := get(t, h, "/nosuchroute")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://apidocs.example.com", rec.Header().Get("Location"))
}

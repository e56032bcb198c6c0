package source

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JMousqueton/api.ransomware.live/pkg/config"
	apperrors "github.com/JMousqueton/api.ransomware.live/pkg/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSnapshot(t *testing.T, dir string, dataset Dataset, content string) {
	t.Helper()
	path := filepath.Join(dir, string(dataset)+".json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFileVictims(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, DatasetVictims, `[
		{"post_title": "Acme Corp", "group_name": "lockbit3", "discovered": "2024-07-01 10:00:00", "published": "2024-07-02 08:00:00"},
		{"post_title": "Globex", "group_name": "clop", "discovered": "2024-08-01 09:00:00", "published": "2024-08-01 09:30:00"}
	]`)

	f := NewFile(dir, discardLogger())
	records, err := f.Victims(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Acme Corp", records[0].PostTitle)
	assert.Equal(t, "clop", records[1].GroupName)
}

func TestFileMissingSnapshot(t *testing.T) {
	f := NewFile(t.TempDir(), discardLogger())

	_, err := f.Groups(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeServiceUnavail))
}

func TestFileMalformedRecordSkipped(t *testing.T) {
	dir := t.TempDir()
	// The second element is not an object; the batch must survive it.
	writeSnapshot(t, dir, DatasetVictims, `[
		{"post_title": "Acme Corp", "group_name": "lockbit3"},
		"not a record",
		{"post_title": "Globex", "group_name": "clop"}
	]`)

	f := NewFile(dir, discardLogger())
	records, err := f.Victims(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Globex", records[1].PostTitle)
}

func TestFileMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, DatasetVictims, `{"not": "an array"}`)

	f := NewFile(dir, discardLogger())
	_, err := f.Victims(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeServiceUnavail))
}

func TestFileInfostealerIndex(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, DatasetInfostealer, `{
		"acme.com": {"employees": 10, "users": 25, "thirdparties": 3}
	}`)

	f := NewFile(dir, discardLogger())
	index, err := f.Infostealer(context.Background())
	require.NoError(t, err)
	require.Contains(t, index, "acme.com")
	assert.Equal(t, 10, index["acme.com"].Employees)
}

func newRemote(t *testing.T, url string) *HTTP {
	t.Helper()
	cfg := &config.Config{
		VictimsURL:      url + "/posts.json",
		GroupsURL:       url + "/groups.json",
		TTPsURL:         url + "/ttps.json",
		InfostealerURL:  url + "/infostealer.json",
		CyberattacksURL: url + "/cyberattacks.json",
	}
	return NewHTTP(cfg, discardLogger())
}

func TestHTTPVictims(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts.json", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`[{"post_title": "Acme Corp", "group_name": "lockbit3"}]`))
	}))
	defer srv.Close()

	h := newRemote(t, srv.URL)
	records, err := h.Victims(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme Corp", records[0].PostTitle)
}

func TestHTTPUpstreamErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	h := newRemote(t, srv.URL)
	_, err := h.Victims(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeServiceUnavail))
	assert.Equal(t, http.StatusBadGateway, apperrors.GetHTTPStatus(err))

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, "failed to fetch data from the source", appErr.Message)
}

func TestHTTPUnreachableSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	h := newRemote(t, srv.URL)
	_, err := h.Groups(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeServiceUnavail))
}

func TestHTTPGroups(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name": "lockbit3", "locations": [{"fqdn": "example.onion", "available": true}]}]`))
	}))
	defer srv.Close()

	h := newRemote(t, srv.URL)
	groups, err := h.Groups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Locations, 1)
	assert.True(t, groups[0].Locations[0].Available)
}

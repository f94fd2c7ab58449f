package loader

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysconf-tracker/sysconf/internal/models"
)

const (
	cfpJSON   = `[{"name":"OSDI","core_rank":"A*","cfp_deadline":"2024-05-01","cfp_url":"TBA"}]`
	datesJSON = `[{"name":"OSDI","core_rank":"A*","start_date":"TBA","end_date":"TBA","location":"USA","homepage":"https://www.usenix.org/conference/osdi"}]`
)

func quietLogger() *pterm.Logger {
	return pterm.DefaultLogger.WithWriter(io.Discard)
}

func writeDatasets(t *testing.T, dir string) {
	t.Helper()
	gen := filepath.Join(dir, "generated")
	require.NoError(t, os.MkdirAll(gen, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(gen, "cfp.json"), []byte(cfpJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(gen, "confdates.json"), []byte(datesJSON), 0o644))
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	writeDatasets(t, dir)

	ds, err := New(nil, quietLogger()).Load(context.Background(), Source{Dir: dir})
	require.NoError(t, err)
	require.Len(t, ds.CFP, 1)
	require.Len(t, ds.Dates, 1)

	assert.Equal(t, "2024-05-01", ds.CFP[0].String(models.FieldCFPDeadline))
	assert.Equal(t, []string{"name", "core_rank", "start_date", "end_date", "location", "homepage"}, ds.Dates[0].Keys())
}

func TestLoadFromURLFetchesSequentially(t *testing.T) {
	var order []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, r.URL.Path)
		switch r.URL.Path {
		case "/site/generated/cfp.json":
			w.Write([]byte(cfpJSON))
		case "/site/generated/confdates.json":
			w.Write([]byte(datesJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ds, err := New(nil, quietLogger()).Load(context.Background(), Source{BaseURL: srv.URL + "/site/"})
	require.NoError(t, err)
	assert.Len(t, ds.CFP, 1)
	assert.Len(t, ds.Dates, 1)
	assert.Equal(t, []string{"/site/generated/cfp.json", "/site/generated/confdates.json"}, order)
}

func TestLoadStopsOnFirstFailure(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(nil, quietLogger()).Load(context.Background(), Source{BaseURL: srv.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load cfp dataset")
	assert.Equal(t, 1, hits)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	writeDatasets(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "generated", "confdates.json"), []byte(`{"not":"an array"}`), 0o644))

	_, err := New(nil, quietLogger()).Load(context.Background(), Source{Dir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load dates dataset")
}

func TestLoadNeedsASource(t *testing.T) {
	_, err := New(nil, quietLogger()).Load(context.Background(), Source{})
	assert.Error(t, err)
}

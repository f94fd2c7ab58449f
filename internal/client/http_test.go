package client

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSendsHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := New(Options{}).Fetch(context.Background(), srv.URL, "application/json")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "application/json", gotAccept)
}

func TestFetchDecodesGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte(`[{"a":1}]`))
		gz.Close()
	}))
	defer srv.Close()

	body, err := New(Options{UserAgent: "test"}).Fetch(context.Background(), srv.URL, "*/*")
	require.NoError(t, err)
	assert.Equal(t, `[{"a":1}]`, string(body))
}

func TestFetchRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := New(Options{}).Fetch(context.Background(), srv.URL, "*/*")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

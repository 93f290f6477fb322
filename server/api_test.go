package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

type sentMail struct {
	to      []string
	subject string
	body    string
}

type fakeMailer struct {
	sends []sentMail
	err   error
}

func (f *fakeMailer) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.sends = append(f.sends, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

type testEnv struct {
	store  *memStore
	mailer *fakeMailer
	zoom   *zoomClient
	mux    *http.ServeMux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mailer := &fakeMailer{}
	zoom := newZoomClient(storeCredentials(store))
	a := newAPI(store, log, newDistributor(store, mailer, log), zoom, newStorageManager(t.TempDir(), store))
	mux := http.NewServeMux()
	a.routes(mux)
	return &testEnv{store: store, mailer: mailer, zoom: zoom, mux: mux}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		blob, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rd = bytes.NewReader(blob)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.mux.ServeHTTP(rr, req)
	return rr
}

func decodeAs[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

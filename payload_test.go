package xfer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchPayloadSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Range") != "" {
			t.Error("payload fetch must not set a Range header")
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("hello world"))
	}))
	defer srv.Close()

	result := fetchPayload(context.Background(), newHTTPTransport(), ResourceLocator{URL: srv.URL}, nil)

	if result.Outcome != DownloadSuccess {
		t.Fatalf("Outcome = %v, want Success", result.Outcome)
	}
	if string(result.Data) != "hello world" {
		t.Errorf("Data = %q", result.Data)
	}
}

func TestFetchPayloadNotModified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	result := fetchPayload(context.Background(), newHTTPTransport(), ResourceLocator{URL: srv.URL}, nil)

	if result.Outcome != DownloadNotModified {
		t.Fatalf("Outcome = %v, want NotModified", result.Outcome)
	}
}

func TestFetchPayloadEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := fetchPayload(context.Background(), newHTTPTransport(), ResourceLocator{URL: srv.URL}, nil)

	if result.Outcome != DownloadFailed {
		t.Fatalf("Outcome = %v, want DownloadFailed", result.Outcome)
	}
}

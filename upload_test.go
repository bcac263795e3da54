package xfer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestUploadS6StatusStrictness exercises S6 and property 8: only an
// exact 200 counts as success; 201 Created is UploadFailed.
func TestUploadS6StatusStrictness(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   UploadOutcome
	}{
		{"200 ok", http.StatusOK, UploadSuccess},
		{"201 created", http.StatusCreated, UploadFailed},
		{"500 server error", http.StatusInternalServerError, UploadFailed},
	}

	body := make([]byte, 1024)

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var gotBody []byte
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotBody, _ = io.ReadAll(r.Body)
				w.WriteHeader(c.status)
			}))
			defer srv.Close()

			e := NewEngine()
			result := e.Upload(context.Background(), ResourceLocator{URL: srv.URL}, body, nil)

			if result.Outcome != c.want {
				t.Errorf("Outcome = %v, want %v", result.Outcome, c.want)
			}
			if len(gotBody) != len(body) {
				t.Errorf("server received %d bytes, want %d", len(gotBody), len(body))
			}
		})
	}
}

func TestUploadProgressReportsBytesSent(t *testing.T) {
	body := make([]byte, 4096)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var seen []int64
	e := NewEngine()
	result := e.Upload(context.Background(), ResourceLocator{URL: srv.URL}, body, func(transferred, total int64) {
		seen = append(seen, transferred)
		if total != int64(len(body)) {
			t.Errorf("total = %d, want %d", total, len(body))
		}
	})

	if result.Outcome != UploadSuccess {
		t.Fatalf("Outcome = %v, want Success", result.Outcome)
	}
	if len(seen) == 0 {
		t.Fatal("expected progress callbacks")
	}
	if seen[len(seen)-1] != int64(len(body)) {
		t.Errorf("final progress = %d, want %d", seen[len(seen)-1], len(body))
	}
}

func TestUploadCancelledBeforeStart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued once canceled before start")
	}))
	defer srv.Close()

	e := NewEngine()
	e.Cancel()

	result := e.Upload(context.Background(), ResourceLocator{URL: srv.URL}, []byte("x"), nil)

	if result.Outcome != UploadCancelled {
		t.Fatalf("Outcome = %v, want Cancelled", result.Outcome)
	}
}

func TestUploadReleasedEngineFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e := NewEngine()
	e.Release()

	result := e.Upload(context.Background(), ResourceLocator{URL: srv.URL}, []byte("x"), nil)

	if result.Outcome != UploadFailed {
		t.Fatalf("Outcome = %v, want UploadFailed", result.Outcome)
	}
}

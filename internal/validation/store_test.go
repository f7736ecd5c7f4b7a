package validation_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/pulse/internal/validation"
	"github.com/JaimeStill/pulse/pkg/lifecycle"
	"github.com/JaimeStill/pulse/pkg/routes"
	"github.com/JaimeStill/pulse/pkg/storage"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStorage(t *testing.T) storage.System {
	t.Helper()

	cfg := &storage.Config{Root: filepath.Join(t.TempDir(), "artifacts")}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize storage: %v", err)
	}

	sys, err := storage.New(cfg, discard())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("start storage: %v", err)
	}
	if err := lc.WaitForStartup(); err != nil {
		t.Fatalf("storage startup: %v", err)
	}
	return sys
}

func failingResult() *validation.Result {
	frame := adultFrame("25", "", "39", "31", "52")
	return validation.Check(frame, adultSchema(0.2))
}

func TestStorageStoreWriteRead(t *testing.T) {
	ctx := context.Background()
	sys := newStorage(t)
	store := validation.NewStorageStore(sys, "validation")

	if _, err := store.Read(ctx); !errors.Is(err, validation.ErrNotFound) {
		t.Fatalf("read before write: got %v, want ErrNotFound", err)
	}

	want := failingResult()
	if err := store.Write(ctx, want); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got.OK != want.OK || got.Missing.Len() != 1 {
		t.Errorf("result: got %+v", got)
	}

	paths := store.Paths()
	if paths.JSON != "validation/validation_results.json" {
		t.Errorf("json path: got %s", paths.JSON)
	}
	if paths.HTML != "validation/validation_report.html" {
		t.Errorf("html path: got %s", paths.HTML)
	}

	body, err := store.Report(ctx)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	defer body.Close()

	html, _ := io.ReadAll(body)
	for _, want := range []string{"<h2>Data Validation Report</h2>", "<pre>", "20.00% nulls (not allowed)"} {
		if !strings.Contains(string(html), want) {
			t.Errorf("report missing %q:\n%s", want, html)
		}
	}
}

func TestStorageStoreOverwrites(t *testing.T) {
	ctx := context.Background()
	store := validation.NewStorageStore(newStorage(t), "validation")

	if err := store.Write(ctx, failingResult()); err != nil {
		t.Fatal(err)
	}

	frame := adultFrame("25", "45", "39", "31", "52")
	if err := store.Write(ctx, validation.Check(frame, adultSchema(0))); err != nil {
		t.Fatal(err)
	}

	got, err := store.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !got.OK {
		t.Error("latest write should win")
	}
}

func TestJSONArtifacts(t *testing.T) {
	ctx := context.Background()
	sys := newStorage(t)
	store := validation.NewStorageStore(sys, "validation")

	if err := store.Write(ctx, failingResult()); err != nil {
		t.Fatal(err)
	}
	if err := storage.WriteJSON(ctx, sys, "validation/history/old.json", map[string]int{}); err != nil {
		t.Fatal(err)
	}
	if err := storage.WriteJSON(ctx, sys, "validation/stats.json", map[string]int{}); err != nil {
		t.Fatal(err)
	}

	keys, err := store.JSONArtifacts(ctx)
	if err != nil {
		t.Fatal(err)
	}

	want := "validation/stats.json,validation/validation_results.json"
	if strings.Join(keys, ",") != want {
		t.Errorf("keys: got %v, want %s", keys, want)
	}
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()
	store := validation.NewStorageStore(newStorage(t), "validation")

	empty, err := validation.Summarize(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if empty.MissingIssues != -1 || empty.DTypeIssues != -1 || empty.RuleIssues != -1 {
		t.Errorf("empty summary: got %+v", empty)
	}
	if empty.ReportHTMLPath != nil {
		t.Error("empty summary should have no report path")
	}

	if err := store.Write(ctx, failingResult()); err != nil {
		t.Fatal(err)
	}

	sum, err := validation.Summarize(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if sum.OK || sum.MissingIssues != 1 || sum.DTypeIssues != 0 || sum.RuleIssues != 0 {
		t.Errorf("summary: got %+v", sum)
	}
	if sum.ReportHTMLPath == nil || *sum.ReportHTMLPath != store.Paths().HTML {
		t.Errorf("report path: got %v", sum.ReportHTMLPath)
	}
}

func TestHandler(t *testing.T) {
	ctx := context.Background()
	store := validation.NewStorageStore(newStorage(t), "validation")

	mux := http.NewServeMux()
	routes.Register(mux, validation.NewHandler(store, discard()).Routes())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/validation", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("before write: got %d, want 404", rec.Code)
	}

	if err := store.Write(ctx, failingResult()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path        string
		contentType string
	}{
		{"/validation", "application/json"},
		{"/validation/report", "text/html; charset=utf-8"},
		{"/validation/summary", "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("content-type: got %s, want %s", ct, tt.contentType)
			}
		})
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/validation", nil))

	var r validation.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if msg, _ := r.Missing.Get("age"); msg != "20.00% nulls (not allowed)" {
		t.Errorf("missing[age]: got %q", msg)
	}
}

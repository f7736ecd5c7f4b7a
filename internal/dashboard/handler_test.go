package dashboard_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/pulse/internal/dashboard"
	"github.com/JaimeStill/pulse/pkg/lifecycle"
	"github.com/JaimeStill/pulse/pkg/routes"
)

func TestHandler(t *testing.T) {
	f := newFixture(t, synthetic)
	f.persist(t, passingSchema())

	mux := http.NewServeMux()
	routes.Register(mux, dashboard.NewHandler(f.sync, discard()).Routes())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/dashboard/control_meta", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("before sync: got %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/dashboard/sync", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("sync status: got %d, want 200", rec.Code)
	}

	var report dashboard.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.Status != dashboard.SyncSuccess {
		t.Errorf("report status: got %s, want success", report.Status)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/dashboard/control_meta", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("document status: got %d, want 200", rec.Code)
	}

	var meta dashboard.ControlMeta
	if err := json.Unmarshal(rec.Body.Bytes(), &meta); err != nil {
		t.Fatal(err)
	}
	if meta.Status != dashboard.StateActive {
		t.Errorf("control_meta status: got %s, want active", meta.Status)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/dashboard/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown document: got %d, want 404", rec.Code)
	}
}

func TestConfigSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{"disabled", "", false},
		{"every five minutes", "*/5 * * * *", false},
		{"descriptor", "@hourly", false},
		{"malformed", "every minute", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &dashboard.Config{SyncSchedule: tt.schedule}
			err := cfg.Finalize(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("error: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

type countingSyncer struct {
	calls int
}

func (c *countingSyncer) SyncAll(context.Context) *dashboard.Report {
	c.calls++
	return &dashboard.Report{Status: dashboard.SyncSuccess}
}

func TestSchedulerDisabled(t *testing.T) {
	syncer := &countingSyncer{}
	s := dashboard.NewScheduler("", syncer, discard())

	if s.Enabled() {
		t.Error("empty schedule should disable the scheduler")
	}

	lc := lifecycle.New()
	if err := s.Start(lc); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := lc.WaitForStartup(); err != nil {
		t.Fatal(err)
	}
	if syncer.calls != 0 {
		t.Errorf("calls: got %d, want 0", syncer.calls)
	}
}

func TestSchedulerLifecycle(t *testing.T) {
	s := dashboard.NewScheduler("@every 1h", &countingSyncer{}, discard())

	lc := lifecycle.New()
	if err := s.Start(lc); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := lc.WaitForStartup(); err != nil {
		t.Fatal(err)
	}
	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}

func TestSchedulerInvalid(t *testing.T) {
	s := dashboard.NewScheduler("not a schedule", &countingSyncer{}, discard())

	err := s.Start(lifecycle.New())
	if err == nil || !strings.Contains(err.Error(), "not a schedule") {
		t.Errorf("error: got %v", err)
	}
}

package storage_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/pulse/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderLocal {
		t.Errorf("provider: got %s, want local", cfg.Provider)
	}
	if cfg.Root != "." {
		t.Errorf("root: got %s, want .", cfg.Root)
	}
	if cfg.ContainerName != "pulse" {
		t.Errorf("container_name: got %s, want pulse", cfg.ContainerName)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PROVIDER", "azure")
	t.Setenv("TEST_CONTAINER", "artifacts")
	t.Setenv("TEST_CONN", "UseDevelopmentStorage=true")

	cfg := storage.Config{}
	err := cfg.Finalize(&storage.Env{
		Provider:         "TEST_PROVIDER",
		ContainerName:    "TEST_CONTAINER",
		ConnectionString: "TEST_CONN",
	})
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderAzure {
		t.Errorf("provider: got %s, want azure", cfg.Provider)
	}
	if cfg.ContainerName != "artifacts" {
		t.Errorf("container_name: got %s, want artifacts", cfg.ContainerName)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{"local needs nothing", storage.Config{Provider: "local"}, ""},
		{"azure without credentials", storage.Config{Provider: "azure"}, "connection_string or account_url required"},
		{"azure with account url", storage.Config{Provider: "azure", AccountURL: "https://acct.blob.core.windows.net"}, ""},
		{"unknown provider", storage.Config{Provider: "s3"}, "unknown storage provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error: got %v, want %s", err, tt.wantErr)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrNotFound, 404},
		{storage.ErrInvalidKey, 400},
		{storage.ErrEmptyKey, 400},
		{errors.New("boom"), 500},
	}

	for _, tt := range tests {
		if got := storage.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

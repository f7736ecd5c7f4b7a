package validation_test

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/JaimeStill/pulse/internal/validation"
)

func TestIssuesOrder(t *testing.T) {
	var issues validation.Issues
	issues.Set("zeta", "first")
	issues.Set("alpha", "second")
	issues.Set("zeta", "replaced")

	if got := issues.Keys(); !slices.Equal(got, []string{"zeta", "alpha"}) {
		t.Errorf("keys: got %v, want [zeta alpha]", got)
	}
	if msg, _ := issues.Get("zeta"); msg != "replaced" {
		t.Errorf("zeta: got %q, want replaced", msg)
	}

	data, err := json.Marshal(issues)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"zeta":"replaced","alpha":"second"}` {
		t.Errorf("json: got %s", data)
	}
}

func TestIssuesUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    []string
		wantErr bool
	}{
		{"ordered", `{"b":"1","a":"2"}`, []string{"b", "a"}, false},
		{"empty", `{}`, []string{}, false},
		{"null", `null`, []string{}, false},
		{"array", `["a"]`, nil, true},
		{"non-string value", `{"a":1}`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var issues validation.Issues
			err := json.Unmarshal([]byte(tt.doc), &issues)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if got := issues.Keys(); !slices.Equal(got, tt.want) {
				t.Errorf("keys: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIssuesAll(t *testing.T) {
	var issues validation.Issues
	issues.Set("age", "missing column")
	issues.Set("income", "expected string, got int64")

	var keys []string
	for k := range issues.All() {
		keys = append(keys, k)
		break
	}
	if !slices.Equal(keys, []string{"age"}) {
		t.Errorf("early break: got %v", keys)
	}
}

package validation_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/JaimeStill/pulse/internal/dataset"
	"github.com/JaimeStill/pulse/internal/schema"
	"github.com/JaimeStill/pulse/internal/validation"
)

func adultSchema(maxNull float64) *schema.Schema {
	return &schema.Schema{
		Columns: []schema.Column{
			{Name: "age", DType: "int", AllowNull: false},
			{Name: "income", DType: "string", AllowNull: true},
		},
		Rules: schema.Rules{MaxNullFraction: maxNull},
	}
}

func adultFrame(ages ...string) *dataset.Frame {
	records := make([][]string, len(ages))
	incomes := []string{">50K", "<=50K"}
	for i, age := range ages {
		records[i] = []string{age, incomes[i%2]}
	}
	return dataset.New([]string{"age", "income"}, records)
}

func TestCheckDisallowedNull(t *testing.T) {
	frame := adultFrame("25", "", "39", "31", "52")
	r := validation.Check(frame, adultSchema(0.2))

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"missing":{"age":"20.00% nulls (not allowed)"},"dtypes":{},"rules":{},"ok":false}`
	if string(data) != want {
		t.Errorf("result:\n got  %s\n want %s", data, want)
	}
}

func TestCheckAllMatch(t *testing.T) {
	frame := adultFrame("25", "45", "39", "31", "52")
	r := validation.Check(frame, adultSchema(0))

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"missing":{},"dtypes":{},"rules":{},"ok":true}`
	if string(data) != want {
		t.Errorf("result: got %s, want %s", data, want)
	}
	if r.MetricValue() != 1 {
		t.Errorf("metric value: got %v, want 1", r.MetricValue())
	}
}

func TestCheckMissingColumn(t *testing.T) {
	frame := dataset.New([]string{"income"}, [][]string{{""}, {""}})
	r := validation.Check(frame, adultSchema(1))

	if r.OK {
		t.Error("ok should be false")
	}
	if msg, _ := r.DTypes.Get("age"); msg != "missing column" {
		t.Errorf("dtypes[age]: got %q, want missing column", msg)
	}
	if _, ok := r.Missing.Get("age"); ok {
		t.Error("missing column should not produce a null issue")
	}
	if r.MetricValue() != 0 {
		t.Errorf("metric value: got %v, want 0", r.MetricValue())
	}
}

func TestCheckTypeMismatch(t *testing.T) {
	frame := dataset.New([]string{"age", "income"}, [][]string{{"young", "1"}, {"old", "2"}})
	r := validation.Check(frame, adultSchema(0))

	tests := []struct {
		key  string
		want string
	}{
		{"age", "expected int, got string"},
		{"income", "expected string, got int64"},
	}

	for _, tt := range tests {
		if msg, _ := r.DTypes.Get(tt.key); msg != tt.want {
			t.Errorf("dtypes[%s]: got %q, want %q", tt.key, msg, tt.want)
		}
	}
	if got := r.DTypes.Keys(); len(got) != 2 || got[0] != "age" {
		t.Errorf("dtype order: got %v, want schema order", got)
	}
}

func TestCheckGlobalRule(t *testing.T) {
	frame := dataset.New(
		[]string{"age", "income"},
		[][]string{{"25", ""}, {"45", ""}, {"39", ">50K"}, {"31", ""}, {"52", ">50K"}},
	)
	r := validation.Check(frame, adultSchema(0.05))

	msg, ok := r.Rules.Get(validation.RuleMaxNullFraction)
	if !ok {
		t.Fatal("expected max_null_fraction rule issue")
	}
	if msg != "30.00% > 5.00%" {
		t.Errorf("rule message: got %q", msg)
	}
	if r.OK {
		t.Error("ok should be false")
	}
}

func TestCheckIdempotent(t *testing.T) {
	frame := adultFrame("", "45", "", "31", "52")
	s := adultSchema(0.1)

	first, err := validation.Encode(validation.Check(frame, s))
	if err != nil {
		t.Fatal(err)
	}
	second, err := validation.Encode(validation.Check(frame, s))
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("encodings differ:\n%s\n%s", first, second)
	}
}

func TestResultRoundTrip(t *testing.T) {
	frame := dataset.New([]string{"income"}, [][]string{{""}, {"x"}})
	r := validation.Check(frame, adultSchema(0.1))

	data, err := validation.Encode(r)
	if err != nil {
		t.Fatal(err)
	}

	var decoded validation.Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	again, err := validation.Encode(&decoded)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, again) {
		t.Errorf("round trip changed encoding:\n%s\n%s", data, again)
	}
}

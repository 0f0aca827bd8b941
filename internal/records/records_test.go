package records_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/scorecard/internal/records"
)

func TestNextBatchID(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"no batches", nil, "001"},
		{"single batch", []string{"001"}, "002"},
		{"max of several", []string{"003", "001", "007"}, "008"},
		{"non-numeric ignored", []string{"abc", "002", "", "1a"}, "003"},
		{"only non-numeric", []string{"abc", "", "x-1"}, "001"},
		{"wider than three digits", []string{"999"}, "1000"},
		{"unpadded ids", []string{"5", "12"}, "013"},
		{"signs are not digits", []string{"-4", "+9"}, "001"},
		{"overflow ignored", []string{"99999999999999999999", "004"}, "005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := records.NextBatchID(tt.existing); got != tt.want {
				t.Errorf("NextBatchID(%v) = %q, want %q", tt.existing, got, tt.want)
			}
		})
	}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		input   string
		want    records.Scope
		wantErr bool
	}{
		{"organization", records.ScopeOrganization, false},
		{" Global ", records.ScopeGlobal, false},
		{"tenant", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := records.ParseScope(tt.input)
			if tt.wantErr {
				if !errors.Is(err, records.ErrInvalidScope) {
					t.Fatalf("err = %v, want ErrInvalidScope", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("scope = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  *records.Date
	}{
		{"2024-01-15", date(2024, time.January, 15)},
		{"15-01-2024", date(2024, time.January, 15)},
		{"15/01/2024", date(2024, time.January, 15)},
		{"01/31/2024", date(2024, time.January, 31)},
		{"03/04/2024", date(2024, time.April, 3)},
		{"2024-1-5", date(2024, time.January, 5)},
		{"2024-01-15 00:00:00", date(2024, time.January, 15)},
		{"2024-01-15T08:30:00", date(2024, time.January, 15)},
		{"  2024-02-29  ", date(2024, time.February, 29)},
		{"", nil},
		{"   ", nil},
		{"yesterday", nil},
		{"2023-02-29", nil},
		{"13/13/2024", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := records.ParseDate(tt.input)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ParseDate(%q) = %s, want nil", tt.input, got)
			case tt.want != nil && got == nil:
				t.Errorf("ParseDate(%q) = nil, want %s", tt.input, tt.want)
			case tt.want != nil && !got.Equal(*tt.want):
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateJSON(t *testing.T) {
	d := records.NewDate(2024, time.March, 9)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-03-09"` {
		t.Errorf("json = %s, want \"2024-03-09\"", data)
	}

	var back records.Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip = %s, want %s", back, d)
	}
}

func TestFromSheet(t *testing.T) {
	tests := []struct {
		input  string
		want   records.Perspective
		wantOK bool
	}{
		{"Financial", records.Financial, true},
		{"  CUSTOMER ", records.Customer, true},
		{"internal", records.Internal, true},
		{"Learning & Growth", records.LearningGrowth, true},
		{"learning_growth", "", false},
		{"Marketing", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := records.FromSheet(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("FromSheet(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParsePerspective(t *testing.T) {
	got, err := records.ParsePerspective("Learning_Growth")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != records.LearningGrowth {
		t.Errorf("perspective = %q, want learning_growth", got)
	}

	if _, err := records.ParsePerspective("Learning & Growth"); !errors.Is(err, records.ErrInvalidPerspective) {
		t.Errorf("err = %v, want ErrInvalidPerspective", err)
	}
}

func TestPerspectiveMetadata(t *testing.T) {
	if got := records.LearningGrowth.Label(); got != "Learning & Growth" {
		t.Errorf("label = %q", got)
	}
	if !records.Financial.HasAttribute("currency") {
		t.Error("financial should have currency attribute")
	}
	if records.Customer.HasAttribute("currency") {
		t.Error("customer should not have currency attribute")
	}
	if got := records.Financial.Defaults()["currency"]; got != "USD" {
		t.Errorf("currency default = %q, want USD", got)
	}

	for i, p := range records.Perspectives {
		if p.Index() != i {
			t.Errorf("%s index = %d, want %d", p, p.Index(), i)
		}
	}
	if got := records.Perspective("other").Index(); got != len(records.Perspectives) {
		t.Errorf("unknown index = %d, want %d", got, len(records.Perspectives))
	}
}

func TestAttributesScan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want records.Attributes
	}{
		{"bytes", []byte(`{"currency":"EUR"}`), records.Attributes{"currency": "EUR"}},
		{"string", `{"period":"Q1"}`, records.Attributes{"period": "Q1"}},
		{"null", nil, records.Attributes{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got records.Attributes
			if err := got.Scan(tt.src); err != nil {
				t.Fatalf("scan: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("attributes mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("rejects other types", func(t *testing.T) {
		var a records.Attributes
		if err := a.Scan(42); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("nil value encodes empty object", func(t *testing.T) {
		v, err := records.Attributes(nil).Value()
		if err != nil {
			t.Fatalf("value: %v", err)
		}
		if v != "{}" {
			t.Errorf("value = %v, want {}", v)
		}
	})
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", records.ErrNotFound, http.StatusNotFound},
		{"duplicate", records.ErrDuplicate, http.StatusConflict},
		{"invalid perspective", records.ErrInvalidPerspective, http.StatusBadRequest},
		{"invalid field", records.ErrInvalidField, http.StatusBadRequest},
		{"invalid update", records.ErrInvalidUpdate, http.StatusBadRequest},
		{"empty batch", records.ErrEmptyBatch, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := records.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
}

func date(y int, m time.Month, d int) *records.Date {
	v := records.NewDate(y, m, d)
	return &v
}

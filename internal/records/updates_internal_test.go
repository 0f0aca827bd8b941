package records

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestResolveUpdate(t *testing.T) {
	org := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	id := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	t.Run("core field", func(t *testing.T) {
		s, err := FieldUpdate{Perspective: Financial, ID: id, Field: "Actual", Value: " 120 "}.resolve(org, "003")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(s.sql, "SET actual = $1") {
			t.Errorf("sql = %s", s.sql)
		}
		want := []any{"120", id, org, "003", "financial"}
		if len(s.args) != len(want) {
			t.Fatalf("args = %v, want %v", s.args, want)
		}
		for i := range want {
			if s.args[i] != want[i] {
				t.Errorf("args[%d] = %v, want %v", i, s.args[i], want[i])
			}
		}
	})

	t.Run("attribute of the perspective", func(t *testing.T) {
		s, err := FieldUpdate{Perspective: Customer, ID: id, Field: "customer_segment", Value: "SMB"}.resolve(org, "001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(s.sql, "jsonb_set") {
			t.Errorf("sql = %s", s.sql)
		}
		if s.args[0] != "customer_segment" || s.args[1] != "SMB" {
			t.Errorf("args = %v", s.args)
		}
	})

	t.Run("empty owner clears", func(t *testing.T) {
		s, err := FieldUpdate{Perspective: Internal, ID: id, Field: "owner", Value: "  "}.resolve(org, "001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.args[0] != nil {
			t.Errorf("owner arg = %v, want nil", s.args[0])
		}
	})

	t.Run("date parsed", func(t *testing.T) {
		s, err := FieldUpdate{Perspective: Internal, ID: id, Field: "date", Value: "31/12/2024"}.resolve(org, "001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		d, ok := s.args[0].(Date)
		if !ok || !d.Equal(NewDate(2024, time.December, 31)) {
			t.Errorf("date arg = %v", s.args[0])
		}
	})

	errs := []struct {
		name   string
		update FieldUpdate
		want   error
	}{
		{"batch id", FieldUpdate{Perspective: Financial, ID: id, Field: "batch_id", Value: "009"}, ErrInvalidField},
		{"batch name", FieldUpdate{Perspective: Financial, ID: id, Field: "batch_name", Value: "x"}, ErrInvalidField},
		{"organization", FieldUpdate{Perspective: Financial, ID: id, Field: "organization_id", Value: "x"}, ErrInvalidField},
		{"uploaded at", FieldUpdate{Perspective: Financial, ID: id, Field: "uploaded_at", Value: "x"}, ErrInvalidField},
		{"foreign attribute", FieldUpdate{Perspective: Customer, ID: id, Field: "currency", Value: "EUR"}, ErrInvalidField},
		{"empty objective", FieldUpdate{Perspective: Financial, ID: id, Field: "objective", Value: " "}, ErrInvalidUpdate},
		{"bad date", FieldUpdate{Perspective: Financial, ID: id, Field: "date", Value: "soon"}, ErrInvalidUpdate},
		{"missing id", FieldUpdate{Perspective: Financial, Field: "actual", Value: "1"}, ErrInvalidUpdate},
		{"unknown perspective", FieldUpdate{Perspective: "ops", ID: id, Field: "actual", Value: "1"}, ErrInvalidPerspective},
	}

	for _, tt := range errs {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.update.resolve(org, "001")
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

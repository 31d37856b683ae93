package validate

import (
	"errors"
	"testing"

	"github.com/sekolah-web/core/internal/pkg/apperr"
)

type sample struct {
	Title string `json:"title" validate:"required,max=10"`
	Start string `json:"start" validate:"omitempty,clock"`
	Slug  string `json:"slug"  validate:"omitempty,slug"`
	Year  string `json:"year"  validate:"omitempty,academic_year"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name  string
		in    sample
		field string
	}{
		{name: "valid", in: sample{Title: "Ok", Start: "07:30", Slug: "abc-1", Year: "2024/2025"}},
		{name: "missing title", in: sample{}, field: "title"},
		{name: "too long", in: sample{Title: "abcdefghijk"}, field: "title"},
		{name: "bad clock", in: sample{Title: "x", Start: "25:00"}, field: "start"},
		{name: "bad slug", in: sample{Title: "x", Slug: "Not A Slug"}, field: "slug"},
		{name: "bad year", in: sample{Title: "x", Year: "2024"}, field: "year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("want validation error on %q, got %v", tt.field, err)
			}
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("error not classed as validation: %v", err)
			}
		})
	}
}

package model

import (
	"strings"
	"testing"
)

// validPortfolio returns a Portfolio that passes all validation rules.
func validPortfolio() Portfolio {
	return Portfolio{
		Name:    "Ada Lovelace",
		Summary: "Analyst of engines.",
		Experience: []Experience{
			{Company: "Analytical Engines Ltd", Role: "Programmer"},
			{Company: "Royal Society", Role: "Correspondent"},
		},
		Education:      []Education{{University: "Home Tutoring", Course: "Mathematics"}},
		Certifications: []string{"Notes on the Engine"},
		Project:        []Project{{Name: "Bernoulli numbers"}, {Name: "Loom cards"}},
	}
}

// fieldErrors extracts a *ValidationError from err or fails the test.
func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve.Errors
}

// hasFieldError reports whether the error list contains an error for the given field.
func hasFieldError(errs []FieldError, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestValidatePortfolio_Valid(t *testing.T) {
	p := validPortfolio()
	if err := ValidatePortfolio(&p); err != nil {
		t.Fatalf("ValidatePortfolio() = %v, want nil", err)
	}
}

func TestValidatePortfolio_EmptyCollectionsAllowed(t *testing.T) {
	p := Portfolio{Name: "Only A Name"}
	if err := ValidatePortfolio(&p); err != nil {
		t.Fatalf("ValidatePortfolio() = %v, want nil", err)
	}
}

func TestValidatePortfolio_Nil(t *testing.T) {
	errs := fieldErrors(t, ValidatePortfolio(nil))
	if !hasFieldError(errs, "portfolio") {
		t.Error("expected error on field 'portfolio' for nil document")
	}
}

func TestValidatePortfolio_NameRequired(t *testing.T) {
	p := validPortfolio()
	p.Name = "   \t "
	errs := fieldErrors(t, ValidatePortfolio(&p))
	if !hasFieldError(errs, "name") {
		t.Error("expected error on field 'name' for whitespace-only name")
	}
}

func TestValidatePortfolio_NameTooLong(t *testing.T) {
	p := validPortfolio()
	p.Name = strings.Repeat("x", 201)
	errs := fieldErrors(t, ValidatePortfolio(&p))
	if !hasFieldError(errs, "name") {
		t.Error("expected error on field 'name' for 201-character name")
	}
}

func TestValidatePortfolio_EntryTitles(t *testing.T) {
	p := validPortfolio()
	p.Experience[1].Company = ""
	p.Education[0].University = " "
	p.Project[0].Name = ""
	errs := fieldErrors(t, ValidatePortfolio(&p))
	for _, field := range []string{"experience[1].company", "education[0].university", "project[0].name"} {
		if !hasFieldError(errs, field) {
			t.Errorf("expected error on field %q", field)
		}
	}
	if len(errs) != 3 {
		t.Errorf("got %d errors, want 3: %v", len(errs), errs)
	}
}

func TestValidateRecord(t *testing.T) {
	p := validPortfolio()
	for _, tc := range []struct {
		name      string
		rec       PortfolioRecord
		wantField string
	}{
		{name: "valid", rec: PortfolioRecord{Code: "abc123", Portfolio: &p}},
		{name: "short code", rec: PortfolioRecord{Code: "abc12", Portfolio: &p}, wantField: "code"},
		{name: "symbol in code", rec: PortfolioRecord{Code: "abc-12", Portfolio: &p}, wantField: "code"},
		{name: "negative limit", rec: PortfolioRecord{Code: "abc123", Portfolio: &p, ViewLimit: -1}, wantField: "view_limit"},
		{name: "missing document", rec: PortfolioRecord{Code: "abc123"}, wantField: "portfolio"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRecord(&tc.rec)
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateRecord() = %v, want nil", err)
				}
				return
			}
			if !hasFieldError(fieldErrors(t, err), tc.wantField) {
				t.Errorf("expected error on field %q, got %v", tc.wantField, err)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	ve := &ValidationError{Errors: []FieldError{
		{Field: "name", Message: "is required"},
		{Field: "code", Message: "bad"},
	}}
	want := "validation failed: name: is required; code: bad"
	if got := ve.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

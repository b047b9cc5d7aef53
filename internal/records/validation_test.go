package records

import (
	"strings"
	"testing"
)

func TestValidateExercise(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"simple", "Squat", false},
		{"unicode", "Şınav", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"max length", strings.Repeat("a", MaxExerciseLength), false},
		{"too long", strings.Repeat("a", MaxExerciseLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExercise(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExercise(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !IsValidationError(err) {
				t.Errorf("expected validation error, got %T", err)
			}
		})
	}
}

func TestValidateWeight(t *testing.T) {
	tests := []struct {
		in      int
		wantErr bool
	}{
		{0, false},
		{100, false},
		{MaxWeight, false},
		{-1, true},
		{MaxWeight + 1, true},
	}

	for _, tt := range tests {
		if err := ValidateWeight(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("ValidateWeight(%d) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestParseWeight(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"80", 80, false},
		{" 80 ", 80, false},
		{"+5", 5, false},
		{"0", 0, false},
		{"", 0, true},
		{"abc", 0, true},
		{"12.5", 0, true},
		{"10kg", 0, true},
		{"-3", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseWeight(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWeight(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseWeight(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestValidateInput(t *testing.T) {
	if errs := ValidateInput(Input{Exercise: "Row", Weight: 60}); len(errs) != 0 {
		t.Errorf("valid input returned %v", errs)
	}

	errs := ValidateInput(Input{Exercise: "", Weight: -5})
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2", len(errs))
	}

	joined := JoinValidationErrors(errs)
	if !IsValidationError(joined) {
		t.Fatalf("joined error should be a validation error, got %T", joined)
	}
	if !strings.Contains(joined.Error(), "exercise cannot be empty") ||
		!strings.Contains(joined.Error(), "weight cannot be negative") {
		t.Errorf("joined error = %q", joined.Error())
	}

	if JoinValidationErrors(nil) != nil {
		t.Error("JoinValidationErrors(nil) should be nil")
	}
}

func TestValidatePatch(t *testing.T) {
	name := "Press"
	weight := -1

	if errs := ValidatePatch(Patch{}); len(errs) != 1 {
		t.Errorf("empty patch: got %d errors, want 1", len(errs))
	}
	if errs := ValidatePatch(Patch{Exercise: &name}); len(errs) != 0 {
		t.Errorf("exercise patch: got %v", errs)
	}
	if errs := ValidatePatch(Patch{Weight: &weight}); len(errs) != 1 {
		t.Errorf("negative weight patch: got %d errors, want 1", len(errs))
	}
}

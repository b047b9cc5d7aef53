package records

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// MaxExerciseLength bounds the exercise name so it fits a table column
	MaxExerciseLength = 64

	// MaxWeight is a sanity bound on weight in kilograms
	MaxWeight = 10000
)

// ValidateExercise validates an exercise name.
// Names must be non-blank and at most MaxExerciseLength characters.
func ValidateExercise(exercise string) error {
	if strings.TrimSpace(exercise) == "" {
		return NewValidationError("exercise cannot be empty")
	}
	if n := utf8.RuneCountInString(exercise); n > MaxExerciseLength {
		return NewValidationError(fmt.Sprintf("exercise too long (max %d chars): %d chars", MaxExerciseLength, n))
	}
	return nil
}

// ValidateWeight validates a weight in kilograms
func ValidateWeight(weight int) error {
	if weight < 0 {
		return NewValidationError(fmt.Sprintf("weight cannot be negative, got %d", weight))
	}
	if weight > MaxWeight {
		return NewValidationError(fmt.Sprintf("weight must be at most %d, got %d", MaxWeight, weight))
	}
	return nil
}

// ParseWeight parses a weight typed by the user
func ParseWeight(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, NewValidationError("weight cannot be empty")
	}
	w, err := strconv.Atoi(s)
	if err != nil {
		return 0, NewValidationError(fmt.Sprintf("weight must be a whole number, got %q", s))
	}
	if err := ValidateWeight(w); err != nil {
		return 0, err
	}
	return w, nil
}

// ValidateInput validates a create or update body.
// Returns a slice of validation errors (empty if valid).
func ValidateInput(in Input) []error {
	var errs []error

	if err := ValidateExercise(in.Exercise); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateWeight(in.Weight); err != nil {
		errs = append(errs, err)
	}

	return errs
}

// ValidatePatch validates the fields present in a partial update
func ValidatePatch(p Patch) []error {
	var errs []error

	if p.Exercise == nil && p.Weight == nil {
		errs = append(errs, NewValidationError("patch must set exercise or weight"))
	}
	if p.Exercise != nil {
		if err := ValidateExercise(*p.Exercise); err != nil {
			errs = append(errs, err)
		}
	}
	if p.Weight != nil {
		if err := ValidateWeight(*p.Weight); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// JoinValidationErrors folds a ValidateInput result into a single error, or nil
func JoinValidationErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		if recErr, ok := asError(err); ok {
			msgs[i] = recErr.Message
		} else {
			msgs[i] = err.Error()
		}
	}
	return NewValidationError(strings.Join(msgs, "; "))
}

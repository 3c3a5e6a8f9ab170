package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// InitiatorMethionineBehavior controls how a protein N-terminal methionine is digested.
type InitiatorMethionineBehavior int

const (
	// Variable emits peptides both with and without the initiator methionine.
	Variable InitiatorMethionineBehavior = iota
	Retain
	Cleave
)

// ParseInitiatorMethionine parses "variable", "retain" or "cleave".
func ParseInitiatorMethionine(s string) (InitiatorMethionineBehavior, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "variable":
		return Variable, nil
	case "retain":
		return Retain, nil
	case "cleave":
		return Cleave, nil
	default:
		return Variable, fmt.Errorf("invalid initiator methionine behavior '%s', must be variable, retain, or cleave", s)
	}
}

func (b InitiatorMethionineBehavior) String() string {
	switch b {
	case Retain:
		return "retain"
	case Cleave:
		return "cleave"
	default:
		return "variable"
	}
}

// DigestionConfig describes the proteases to apply and the digestion bounds.
// It is immutable for the duration of a run.
type DigestionConfig struct {
	Proteases          []*Protease `validate:"required,min=1,dive,required"`
	MinPeptideLength   int         `validate:"gte=1"`
	MaxPeptideLength   int         `validate:"gte=1,gtefield=MinPeptideLength"`
	MaxMissedCleavages int         `validate:"gte=0"`

	// Group peptides by full (modified) sequence instead of base sequence
	TreatModifiedPeptidesAsDifferent bool

	InitiatorMethionine InitiatorMethionineBehavior `validate:"gte=0,lte=2"`
	MaxModsPerPeptide   int                         `validate:"gte=0"`
}

// DefaultDigestionConfig returns the bounds used when nothing else is configured.
func DefaultDigestionConfig() DigestionConfig {
	return DigestionConfig{
		MinPeptideLength:    7,
		MaxPeptideLength:    50,
		MaxMissedCleavages:  2,
		InitiatorMethionine: Variable,
		MaxModsPerPeptide:   2,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration before a run.
func (c DigestionConfig) Validate() error {
	var errs []string

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("failed to validate digestion config: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, describeFieldError(fe))
		}
	}

	seen := make(map[string]bool, len(c.Proteases))
	for _, p := range c.Proteases {
		if p == nil {
			continue
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Sprintf("protease %s is listed more than once", p.Name))
		}
		seen[p.Name] = true
	}

	if len(errs) > 0 {
		return &ValidationError{
			Field:   "DigestionConfig",
			Message: strings.Join(errs, "; "),
		}
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be smaller than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// ProteaseNames returns the configured protease names in order.
func (c DigestionConfig) ProteaseNames() []string {
	names := make([]string, 0, len(c.Proteases))
	for _, p := range c.Proteases {
		names = append(names, p.Name)
	}
	return names
}

package types

import (
	"fmt"
	"math"
	"strings"
)

// Food is one row of the nutrition table. Macro-nutrients are grams per
// serving. Sugar is conventionally part of Carbohydrates but nothing
// enforces that.
type Food struct {
	FoodID        string  `json:"food_id,omitempty" yaml:"food_id,omitempty"` // UUID v7, set by the store.
	Name          string  `json:"name" yaml:"name"`                           // Required, non-empty. Not unique.
	Fat           float64 `json:"fat" yaml:"fat"`
	Carbohydrates float64 `json:"carbohydrates" yaml:"carbohydrates"`
	Protein       float64 `json:"protein" yaml:"protein"`
	Sugar         float64 `json:"sugar" yaml:"sugar"`
	Notice        *string `json:"notice,omitempty" yaml:"notice,omitempty"` // Optional annotation; nil means absent.
}

// Validate checks the record's shape: a non-blank name and finite,
// non-negative macros. Nutritional consistency (sugar within carbohydrates)
// is not checked here; see catalog audits.
func (f *Food) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrInvalidName
	}
	macros := []struct {
		name  string
		grams float64
	}{
		{"fat", f.Fat},
		{"carbohydrates", f.Carbohydrates},
		{"protein", f.Protein},
		{"sugar", f.Sugar},
	}
	for _, m := range macros {
		if math.IsNaN(m.grams) || math.IsInf(m.grams, 0) || m.grams < 0 {
			return fmt.Errorf("%s %v: %w", m.name, m.grams, ErrInvalidMacro)
		}
	}
	return nil
}

// HasNotice reports whether the annotation is present.
func (f *Food) HasNotice() bool {
	return f.Notice != nil
}

// NoticeText returns the annotation or "" when absent.
func (f *Food) NoticeText() string {
	if f.Notice == nil {
		return ""
	}
	return *f.Notice
}

// SameMacros reports whether two records carry identical macro values.
func (f *Food) SameMacros(other *Food) bool {
	return f.Fat == other.Fat &&
		f.Carbohydrates == other.Carbohydrates &&
		f.Protein == other.Protein &&
		f.Sugar == other.Sugar
}

// Clone returns a deep copy, including the notice pointer target.
func (f *Food) Clone() *Food {
	c := *f
	if f.Notice != nil {
		n := *f.Notice
		c.Notice = &n
	}
	return &c
}

// StringPtr returns a pointer to s. Useful for building records with a notice.
func StringPtr(s string) *string {
	return &s
}

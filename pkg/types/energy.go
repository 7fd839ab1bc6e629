package types

import (
	"fmt"
	"math"
)

// Energy per gram of each macro-nutrient, in kilocalories.
const (
	KcalPerGramCarbohydrate = 4
	KcalPerGramProtein      = 4
	KcalPerGramFat          = 9
	KcalPerGramSugar        = 4
)

// ApproximateCalories estimates food energy from macro grams as
// round(4c + 4p + 9f + 4s). Sugar is added on top of carbohydrates.
// Ties round away from zero. There is no validation: NaN and infinite
// inputs propagate to the result.
func ApproximateCalories(carbs, protein, fat, sugar float64) float64 {
	return math.Round(carbs*KcalPerGramCarbohydrate +
		protein*KcalPerGramProtein +
		fat*KcalPerGramFat +
		sugar*KcalPerGramSugar)
}

// SugarPolicy decides whether sugar grams count separately from
// carbohydrates when estimating energy.
type SugarPolicy string

const (
	// SugarAdditive weights sugar at 4 kcal/g on top of carbohydrates.
	SugarAdditive SugarPolicy = "additive"
	// SugarIncluded treats sugar as already counted within carbohydrates.
	SugarIncluded SugarPolicy = "included"
)

// ParseSugarPolicy maps a config value to a SugarPolicy. The empty string
// selects SugarAdditive.
func ParseSugarPolicy(s string) (SugarPolicy, error) {
	switch SugarPolicy(s) {
	case "", SugarAdditive:
		return SugarAdditive, nil
	case SugarIncluded:
		return SugarIncluded, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrSugarPolicyUnknown)
	}
}

// Estimator computes energy under a sugar policy. The zero value uses
// SugarAdditive.
type Estimator struct {
	Policy SugarPolicy
}

// Calories estimates energy for raw macro grams.
func (e Estimator) Calories(carbs, protein, fat, sugar float64) float64 {
	if e.Policy == SugarIncluded {
		sugar = 0
	}
	return ApproximateCalories(carbs, protein, fat, sugar)
}

// Estimate estimates energy for a food record.
func (e Estimator) Estimate(f *Food) float64 {
	return e.Calories(f.Carbohydrates, f.Protein, f.Fat, f.Sugar)
}

// Estimated is a food record with its energy estimate, as served to the
// front-end.
type Estimated struct {
	*Food
	Energy float64 `json:"energy"`
}

// Annotate pairs each food with its estimate.
func (e Estimator) Annotate(foods []*Food) []Estimated {
	out := make([]Estimated, len(foods))
	for i, f := range foods {
		out[i] = Estimated{Food: f, Energy: e.Estimate(f)}
	}
	return out
}

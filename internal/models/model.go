package models

// ModelSpec identifies one prediction model and the entry field that
// carries its per-runner probability.
type ModelSpec struct {
	Name             string `mapstructure:"name" json:"name" validate:"required"`
	ProbabilityField string `mapstructure:"probability_field" json:"probability_field" validate:"required"`
	Ensemble         bool   `mapstructure:"ensemble" json:"ensemble"`
}

// DefaultModels returns the standard model set: four base learners and
// the ensemble that blends them. The set is configuration-driven; this
// is only the fallback when config names none.
func DefaultModels() []ModelSpec {
	return []ModelSpec{
		{Name: "mlp", ProbabilityField: "mlp_proba"},
		{Name: "rf", ProbabilityField: "rf_proba"},
		{Name: "xgboost", ProbabilityField: "xgboost_proba"},
		{Name: "benter", ProbabilityField: "benter_proba"},
		{Name: "ensemble", ProbabilityField: "ensemble_proba", Ensemble: true},
	}
}

// EnsembleModel returns the ensemble member of the set, or the first
// model when none is flagged.
func EnsembleModel(specs []ModelSpec) (ModelSpec, bool) {
	for _, spec := range specs {
		if spec.Ensemble {
			return spec, true
		}
	}
	if len(specs) > 0 {
		return specs[0], true
	}
	return ModelSpec{}, false
}

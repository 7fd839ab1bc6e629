package types

import "errors"

// Config holds backend selection and parameters for Pantry.Attach.
type Config struct {
	Backend     string `json:"backend" yaml:"backend"`
	DataDir     string `json:"data_dir" yaml:"data_dir"`
	SugarPolicy string `json:"sugar_policy,omitempty" yaml:"sugar_policy,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty       = errors.New("backend must not be empty")
	ErrBackendUnknown     = errors.New("unknown backend")
	ErrSugarPolicyUnknown = errors.New("unknown sugar policy")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. An empty SugarPolicy is valid and means
// SugarAdditive.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if _, err := ParseSugarPolicy(c.SugarPolicy); err != nil {
		return err
	}
	return nil
}

// Estimator returns the estimator selected by SugarPolicy.
// Callers should Validate first; an unknown policy falls back to SugarAdditive.
func (c Config) Estimator() Estimator {
	policy, err := ParseSugarPolicy(c.SugarPolicy)
	if err != nil {
		policy = SugarAdditive
	}
	return Estimator{Policy: policy}
}

// Package types defines the Pantry and Table interfaces, the Food entity,
// the energy estimator, and standard error types for the Larder nutrition
// table.
package types

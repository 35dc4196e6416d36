// Package features provides feature flags for gating carousel functionality.
// A Reader answers flag queries for the UI, failing closed when the run is not
// interactive or no provider is installed; a Manager is the usual provider, with
// priority resolution from CLI overrides, the persisted flag store, config file
// values, and compiled-in defaults.
package features

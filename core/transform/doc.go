// Package transform holds the dataset preprocessing stages applied between
// loading and model building. Stages are registered by type name and built
// from configuration through core/factory. An empty pipeline returns the
// dataset unchanged.
package transform

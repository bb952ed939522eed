// Package types defines the fermentation model for half-baked: the Ferment
// stage, the Bake schedule that keeps stages contiguous in time, the argument
// records used to rebuild both, and the standard errors they return.
//
// The package is pure. It performs no I/O and holds no shared state; callers
// rebuild a Bake from its BakeArgs, apply one change, and serialize it again.
// The SessionStore interface declared here is implemented elsewhere.
package types

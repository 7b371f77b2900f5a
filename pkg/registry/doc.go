// Package registry implements the runtime property extension system:
// descriptor registration with module grouping, the per-galaxy property
// store lifecycle, typed element accessors, and the bridge that mirrors
// the compiled core catalog into the registry so output code serializes
// core and module properties through one walk.
//
// A Registry is mutated only during the module load phase, before any
// galaxy is attached; after that it is read-only and safe to share.
// Each galaxy's store is owned by one goroutine at a time.
package registry

// Package types defines the property data model for the galaxykit
// extension system: element kinds, property descriptors, typed values,
// the per-galaxy property store, and the compiled core property catalog.
package types

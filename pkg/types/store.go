package types

// PropertyStore holds the runtime-registered property values of one
// galaxy. Values is sized to the registry count at attach time, so a
// galaxy attached before later registrations never sees them. Slots
// stay nil until materialized; Mask mirrors which slots hold values.
//
// The zero PropertyStore is the detached state. Lifecycle transitions
// (attach, detach, clone, materialization) go through the registry
// package; one goroutine owns a galaxy at a time.
type PropertyStore struct {
	Values []*Value // Indexed by PropertyID; nil until materialized.
	Mask   Bitmask  // Set bits track materialized slots.
}

// Attached reports whether the store has been attached to a registry.
// An attach against an empty registry yields an attached store with
// zero slots.
func (s *PropertyStore) Attached() bool {
	return s.Values != nil
}

// Count returns the number of property slots the galaxy was attached
// with. Zero for detached stores.
func (s *PropertyStore) Count() int {
	return len(s.Values)
}

// Has reports whether slot id is materialized. False for detached
// stores and out-of-range ids; never allocates.
func (s *PropertyStore) Has(id PropertyID) bool {
	if int(id) < 0 || int(id) >= len(s.Values) {
		return false
	}
	return s.Mask.Test(int(id))
}

// Reset returns the store to the detached state, dropping every
// materialized value.
func (s *PropertyStore) Reset() {
	s.Values = nil
	s.Mask.Reset()
}

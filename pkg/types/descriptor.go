package types

import "errors"

// Capacity limits for the extension registry. The materialization
// bitmask is sized to MaxExtensions, so registry capacity and bitmask
// width can never disagree.
const (
	MaxExtensions = 256 // property slots per registry
	MaxModules    = 64  // module group table entries
	MaxNameLen    = 256 // bytes in a property name
)

// PlaceholderSize is the declared byte size of a dynamic-length array
// property, whose storage is resolved per galaxy at materialization.
const PlaceholderSize = 8

// PropertyID identifies a registered property. IDs are assigned in
// registration order, are process-local, and are never reused after
// unregistration.
type PropertyID int32

// ModuleID identifies the physics module that owns a property.
// Loader-assigned module ids start at 0; ModuleCore marks properties
// mirrored from the compiled core catalog.
type ModuleID int32

// ModuleCore is the owner of bridged core-catalog properties.
const ModuleCore ModuleID = -1

// Valid reports whether m is a loader-assigned module id or ModuleCore.
func (m ModuleID) Valid() bool {
	return m >= 0 || m == ModuleCore
}

// Flags control property behavior.
type Flags uint32

const (
	// FlagSerialize marks the property for inclusion in output. A
	// serializable descriptor must carry both codec callbacks.
	FlagSerialize Flags = 1 << iota
	// FlagReadOnly rejects writes through the typed accessors. Bridged
	// core properties are read-only; their storage is the galaxy record.
	FlagReadOnly
	// FlagZeroInit guarantees the value reads as zero until first set.
	FlagZeroInit
)

// Has reports whether all bits of flag are set.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// MarshalFunc encodes one property of one galaxy. For module-owned
// properties v is the materialized value; bridged core properties read
// the galaxy record directly and may ignore v.
type MarshalFunc func(g *Galaxy, v *Value) ([]byte, error)

// UnmarshalFunc decodes property bytes back into v, or into the galaxy
// record for bridged core properties.
type UnmarshalFunc func(g *Galaxy, v *Value, data []byte) error

// Descriptor validation errors.
var (
	ErrNameEmpty       = errors.New("property name is empty")
	ErrNameTooLong     = errors.New("property name exceeds maximum length")
	ErrInvalidSize     = errors.New("property size must be positive")
	ErrInvalidModule   = errors.New("module id is not valid")
	ErrInvalidArrayLen = errors.New("array length is not valid")
	ErrMissingCodec    = errors.New("serializable property requires both codecs")
)

// Descriptor declares one runtime-registered property.
type Descriptor struct {
	Name      string        // Unique property name (required, at most MaxNameLen bytes).
	SizeBytes int           // Declared storage size; PlaceholderSize for dynamic arrays.
	Kind      Kind          // Element kind.
	Array     bool          // True for array properties.
	ArrayLen  int           // Fixed element count; 0 means dynamic length.
	Module    ModuleID      // Owning module, or ModuleCore for bridged properties.
	Flags     Flags         // Behavior flags.
	Marshal   MarshalFunc   // Output codec; required when FlagSerialize is set.
	Unmarshal UnmarshalFunc // Input codec; required when FlagSerialize is set.
}

// Validate checks the descriptor fields that do not depend on registry
// state. Returns the first violation found: ErrNameEmpty, ErrNameTooLong,
// ErrInvalidSize, ErrInvalidKind, ErrInvalidModule, ErrInvalidArrayLen,
// or ErrMissingCodec.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return ErrNameEmpty
	}
	if len(d.Name) > MaxNameLen {
		return ErrNameTooLong
	}
	if d.SizeBytes <= 0 {
		return ErrInvalidSize
	}
	if !d.Kind.Valid() {
		return ErrInvalidKind
	}
	if !d.Module.Valid() {
		return ErrInvalidModule
	}
	if d.ArrayLen < 0 {
		return ErrInvalidArrayLen
	}
	if !d.Array && d.ArrayLen != 0 {
		return ErrInvalidArrayLen
	}
	if d.Flags.Has(FlagSerialize) && (d.Marshal == nil || d.Unmarshal == nil) {
		return ErrMissingCodec
	}
	return nil
}

// Dynamic reports whether the descriptor declares a dynamic-length array.
func (d *Descriptor) Dynamic() bool {
	return d.Array && d.ArrayLen == 0
}

// SizePairName returns the name of the companion property that carries
// the per-galaxy element count of a dynamic array property.
func SizePairName(name string) string {
	return name + "_size"
}

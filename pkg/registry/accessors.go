package registry

import (
	"go.uber.org/zap"

	"github.com/sage-home/galaxykit/pkg/types"
)

// Scalar enumerates the element types the accessors operate on,
// matching the property kinds one to one.
type Scalar interface {
	float32 | float64 | int32 | int64 | uint64
}

// Get returns a scalar property value, materializing it on first
// touch. Every failure path (nil galaxy, detached store, id out of
// range, unregistered property, array property, kind mismatch) returns
// def and logs at error level; accessors never abort entity
// processing.
func Get[T Scalar](r *Registry, g *types.Galaxy, id types.PropertyID, def T) T {
	v, d, ok := access(r, g, id, false)
	if !ok {
		return def
	}
	if v.Kind != kindOf[T]() {
		logKindMismatch(r, d, v.Kind)
		return def
	}
	out, ok := readElem[T](v, 0)
	if !ok {
		return def
	}
	return out
}

// Set writes a scalar property value, materializing it on first touch.
// Reports false after logging on the Get failure paths plus read-only
// properties.
func Set[T Scalar](r *Registry, g *types.Galaxy, id types.PropertyID, val T) bool {
	v, d, ok := access(r, g, id, false)
	if !ok {
		return false
	}
	if d.Flags.Has(types.FlagReadOnly) {
		logReadOnly(r, d)
		return false
	}
	if v.Kind != kindOf[T]() {
		logKindMismatch(r, d, v.Kind)
		return false
	}
	return writeElem(v, 0, val)
}

// GetAt returns one element of an array property. The index is checked
// against the property's resolved bound: the fixed length, or for
// dynamic arrays the "<name>_size" companion (registry default when no
// companion is registered). Elements inside the bound that were never
// written read as zero. Out-of-bound indexes return def and log.
func GetAt[T Scalar](r *Registry, g *types.Galaxy, id types.PropertyID, index int, def T) T {
	v, d, ok := access(r, g, id, true)
	if !ok {
		return def
	}
	if v.Kind != kindOf[T]() {
		logKindMismatch(r, d, v.Kind)
		return def
	}
	if index < 0 || index >= r.arrayBound(g, d) {
		logBadIndex(r, d, index)
		return def
	}
	out, ok := readElem[T](v, index)
	if !ok {
		// Inside the resolved bound but past the current allocation:
		// the element is logically zero. Reads never grow the value.
		var zero T
		return zero
	}
	return out
}

// SetAt writes one element of an array property, growing dynamic
// arrays up to the resolved bound as needed. Reports false after
// logging on the GetAt failure paths plus read-only properties.
func SetAt[T Scalar](r *Registry, g *types.Galaxy, id types.PropertyID, index int, val T) bool {
	v, d, ok := access(r, g, id, true)
	if !ok {
		return false
	}
	if d.Flags.Has(types.FlagReadOnly) {
		logReadOnly(r, d)
		return false
	}
	if v.Kind != kindOf[T]() {
		logKindMismatch(r, d, v.Kind)
		return false
	}
	if index < 0 || index >= r.arrayBound(g, d) {
		logBadIndex(r, d, index)
		return false
	}
	if index >= v.Len() {
		v.Grow(index + 1)
	}
	return writeElem(v, index, val)
}

// access runs the shared failure checks and materializes the value.
// Reports false after logging; a nil or uninitialized registry fails
// silently because there is nowhere to log.
func access(r *Registry, g *types.Galaxy, id types.PropertyID, wantArray bool) (*types.Value, *types.Descriptor, bool) {
	if r == nil || !r.initialized {
		return nil, nil, false
	}
	if g == nil {
		r.logger.Error("property access on nil galaxy", zap.Int32("id", int32(id)))
		return nil, nil, false
	}
	if !g.Ext.Attached() {
		r.logger.Error("property access on detached galaxy",
			zap.Int32("id", int32(id)),
			zap.Uint64("galaxy", g.GalaxyIndex))
		return nil, nil, false
	}
	d, ok := r.FindByID(id)
	if !ok {
		r.logger.Error("property access with unknown id",
			zap.Int32("id", int32(id)),
			zap.Uint64("galaxy", g.GalaxyIndex))
		return nil, nil, false
	}
	if d.Array != wantArray {
		r.logger.Error("array/scalar access mismatch",
			zap.String("name", d.Name),
			zap.Bool("array", d.Array))
		return nil, nil, false
	}
	v, err := r.GetOrCreate(g, id)
	if err != nil {
		r.logger.Error("materializing property",
			zap.Int32("id", int32(id)),
			zap.Uint64("galaxy", g.GalaxyIndex),
			zap.Error(err))
		return nil, nil, false
	}
	return v, d, true
}

// arrayBound returns the element bound used for index checks.
func (r *Registry) arrayBound(g *types.Galaxy, d *types.Descriptor) int {
	if d.Dynamic() {
		return r.resolveDynamicLen(g, d)
	}
	return d.ArrayLen
}

// kindOf maps the accessor type parameter to its property kind.
func kindOf[T Scalar]() types.Kind {
	var z T
	switch any(z).(type) {
	case float32:
		return types.Float32
	case float64:
		return types.Float64
	case int32:
		return types.Int32
	case int64:
		return types.Int64
	default:
		return types.UInt64
	}
}

// readElem reads element i from the slice matching T. Reports false
// when i is outside the current allocation or the kind disagrees.
func readElem[T Scalar](v *types.Value, i int) (T, bool) {
	var out T
	if i < 0 {
		return out, false
	}
	switch p := any(&out).(type) {
	case *float32:
		if i >= len(v.F32) {
			return out, false
		}
		*p = v.F32[i]
	case *float64:
		if i >= len(v.F64) {
			return out, false
		}
		*p = v.F64[i]
	case *int32:
		if i >= len(v.I32) {
			return out, false
		}
		*p = v.I32[i]
	case *int64:
		if i >= len(v.I64) {
			return out, false
		}
		*p = v.I64[i]
	case *uint64:
		if i >= len(v.U64) {
			return out, false
		}
		*p = v.U64[i]
	}
	return out, true
}

// writeElem writes element i of the slice matching T. Reports false
// when i is outside the current allocation or the kind disagrees.
func writeElem[T Scalar](v *types.Value, i int, val T) bool {
	if i < 0 {
		return false
	}
	switch x := any(val).(type) {
	case float32:
		if i >= len(v.F32) {
			return false
		}
		v.F32[i] = x
	case float64:
		if i >= len(v.F64) {
			return false
		}
		v.F64[i] = x
	case int32:
		if i >= len(v.I32) {
			return false
		}
		v.I32[i] = x
	case int64:
		if i >= len(v.I64) {
			return false
		}
		v.I64[i] = x
	case uint64:
		if i >= len(v.U64) {
			return false
		}
		v.U64[i] = x
	}
	return true
}

func logKindMismatch(r *Registry, d *types.Descriptor, got types.Kind) {
	r.logger.Error("property kind mismatch",
		zap.String("name", d.Name),
		zap.String("kind", got.String()))
}

func logReadOnly(r *Registry, d *types.Descriptor) {
	r.logger.Error("write to read-only property",
		zap.String("name", d.Name))
}

func logBadIndex(r *Registry, d *types.Descriptor, index int) {
	r.logger.Error("array index out of bounds",
		zap.String("name", d.Name),
		zap.Int("index", index))
}

package registry

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sage-home/galaxykit/pkg/types"
)

// Store lifecycle errors.
var (
	ErrNilGalaxy         = errors.New("galaxy is nil")
	ErrNotAttached       = errors.New("galaxy has no property store")
	ErrInvalidPropertyID = errors.New("property id out of range for this galaxy")
	ErrPropertyNotFound  = errors.New("property is no longer registered")
)

// Attach sizes the galaxy's property store to the registry's current
// count. Properties registered after the attach are invisible to this
// galaxy until it is re-attached. Idempotent: an existing store is torn
// down first.
// Returns ErrNotInitialized or ErrNilGalaxy.
func (r *Registry) Attach(g *types.Galaxy) error {
	if !r.initialized {
		return ErrNotInitialized
	}
	if g == nil {
		return ErrNilGalaxy
	}
	g.Ext.Reset()
	g.Ext.Values = make([]*types.Value, len(r.slots))
	return nil
}

// Detach drops the galaxy's property store and every materialized
// value. Safe on nil galaxies and detached stores.
func (r *Registry) Detach(g *types.Galaxy) {
	if g == nil {
		return
	}
	g.Ext.Reset()
}

// Has reports whether the property is materialized on this galaxy.
// Pure query: it never allocates and never touches the mask.
func (r *Registry) Has(g *types.Galaxy, id types.PropertyID) bool {
	if g == nil {
		return false
	}
	return g.Ext.Has(id)
}

// GetOrCreate returns the galaxy's value for the property,
// materializing it on first touch. New values are zero-filled. Dynamic
// arrays materialize at the length resolved from their "<name>_size"
// companion (see resolveDynamicLen).
// Returns ErrNotInitialized, ErrNilGalaxy, ErrNotAttached,
// ErrInvalidPropertyID when the id is outside this galaxy's slots, or
// ErrPropertyNotFound when the slot was unregistered after the attach.
func (r *Registry) GetOrCreate(g *types.Galaxy, id types.PropertyID) (*types.Value, error) {
	if !r.initialized {
		return nil, ErrNotInitialized
	}
	if g == nil {
		return nil, ErrNilGalaxy
	}
	if !g.Ext.Attached() {
		return nil, ErrNotAttached
	}
	if int(id) < 0 || int(id) >= g.Ext.Count() {
		return nil, fmt.Errorf("property %d: %w", id, ErrInvalidPropertyID)
	}
	if g.Ext.Mask.Test(int(id)) && g.Ext.Values[id] != nil {
		return g.Ext.Values[id], nil
	}
	d, ok := r.FindByID(id)
	if !ok {
		return nil, fmt.Errorf("materializing property %d: %w", id, ErrPropertyNotFound)
	}
	n := 1
	switch {
	case d.Dynamic():
		n = r.resolveDynamicLen(g, d)
	case d.Array:
		n = d.ArrayLen
	}
	v, err := types.NewValue(d.Kind, n)
	if err != nil {
		return nil, fmt.Errorf("materializing property %q: %w", d.Name, err)
	}
	g.Ext.Values[id] = v
	g.Ext.Mask.Set(int(id))
	return v, nil
}

// Clone rebuilds dst's property store as a deep copy of src's. dst is
// detached first; a detached src leaves dst detached. Slots whose
// descriptor was unregistered after src attached are skipped with a
// diagnostic rather than failing the clone, mirroring the lifecycle
// guarantee that copies never abort entity processing.
// Returns ErrNotInitialized or ErrNilGalaxy.
func (r *Registry) Clone(dst, src *types.Galaxy) error {
	if !r.initialized {
		return ErrNotInitialized
	}
	if dst == nil || src == nil {
		return ErrNilGalaxy
	}
	dst.Ext.Reset()
	if !src.Ext.Attached() {
		return nil
	}
	dst.Ext.Values = make([]*types.Value, src.Ext.Count())
	for i := 0; i < src.Ext.Count(); i++ {
		if !src.Ext.Mask.Test(i) {
			continue
		}
		if _, ok := r.FindByID(types.PropertyID(i)); !ok {
			r.logger.Warn("skipping unregistered property during clone",
				zap.Int("id", i),
				zap.Uint64("galaxy", src.GalaxyIndex))
			continue
		}
		v := src.Ext.Values[i]
		if v == nil {
			r.logger.Warn("skipping empty materialized slot during clone",
				zap.Int("id", i),
				zap.Uint64("galaxy", src.GalaxyIndex))
			continue
		}
		dst.Ext.Values[i] = v.Clone()
		dst.Ext.Mask.Set(i)
	}
	return nil
}

// resolveDynamicLen returns the element bound of a dynamic array
// property on this galaxy. A registered "<name>_size" companion wins:
// its materialized integer value (negative reads clamp to zero), or
// zero when the companion exists but has not been set. Without a
// companion the registry default applies. The resolution never
// materializes anything.
func (r *Registry) resolveDynamicLen(g *types.Galaxy, d *types.Descriptor) int {
	pairID, pd, ok := r.FindByName(types.SizePairName(d.Name))
	if !ok {
		return r.dynDefault
	}
	if !g.Ext.Has(pairID) {
		return 0
	}
	v := g.Ext.Values[pairID]
	if v == nil || v.Len() == 0 {
		return 0
	}
	n := 0
	switch v.Kind {
	case types.Int32:
		n = int(v.I32[0])
	case types.Int64:
		n = int(v.I64[0])
	case types.UInt64:
		n = int(v.U64[0])
	default:
		r.logger.Warn("size companion has non-integer kind",
			zap.String("name", pd.Name),
			zap.String("kind", pd.Kind.String()))
		return r.dynDefault
	}
	if n < 0 {
		return 0
	}
	return n
}

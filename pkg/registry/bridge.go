package registry

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sage-home/galaxykit/pkg/types"
)

// Bridge maps compiled core catalog positions to the property ids the
// catalog entries were mirrored under. Entries skipped at bridge time
// map to InvalidProperty.
type Bridge struct {
	ids []types.PropertyID
}

// PropertyID returns the extension id mirroring catalog entry i.
func (b *Bridge) PropertyID(i int) (types.PropertyID, bool) {
	if i < 0 || i >= len(b.ids) || b.ids[i] == InvalidProperty {
		return InvalidProperty, false
	}
	return b.ids[i], true
}

// Len returns the number of catalog entries the bridge covers.
func (b *Bridge) Len() int {
	return len(b.ids)
}

// BridgeCatalog mirrors the compiled core catalog into the registry so
// output code serializes core fields and module properties through one
// descriptor walk. It runs once at startup, after module registration.
//
// Entries whose name is already registered are not mirrored; the map
// resolves to the existing property. Entries with an unrecognized
// declared kind are logged and skipped, leaving that field out of
// generic output rather than failing startup. Mirrored descriptors are
// owned by ModuleCore, flagged serializable and read-only, and carry
// codecs that read and write the compiled galaxy field.
func BridgeCatalog(r *Registry, catalog []types.CatalogEntry) (*Bridge, error) {
	if r == nil || !r.initialized {
		return nil, ErrNotInitialized
	}
	b := &Bridge{ids: make([]types.PropertyID, len(catalog))}
	for i := range catalog {
		entry := &catalog[i]
		b.ids[i] = InvalidProperty
		if id, _, ok := r.FindByName(entry.Name); ok {
			r.logger.Debug("core field name already registered",
				zap.String("name", entry.Name),
				zap.Int32("id", int32(id)))
			b.ids[i] = id
			continue
		}
		elemSize, err := entry.Kind.ElemSize()
		if err != nil {
			r.logger.Error("skipping core field with unrecognized kind",
				zap.String("name", entry.Name),
				zap.Int32("kind", int32(entry.Kind)))
			continue
		}
		size := elemSize
		arrayLen := 0
		if entry.Array {
			if entry.Dim > 0 {
				size = elemSize * entry.Dim
				arrayLen = entry.Dim
			} else {
				size = types.PlaceholderSize
			}
		}
		id, err := r.Register(types.Descriptor{
			Name:      entry.Name,
			SizeBytes: size,
			Kind:      entry.Kind,
			Array:     entry.Array,
			ArrayLen:  arrayLen,
			Module:    types.ModuleCore,
			Flags:     types.FlagSerialize | types.FlagReadOnly,
			Marshal:   coreMarshal(entry),
			Unmarshal: coreUnmarshal(entry),
		})
		if err != nil {
			return nil, fmt.Errorf("bridging core field %q: %w", entry.Name, err)
		}
		b.ids[i] = id
	}
	return b, nil
}

// coreMarshal encodes the compiled galaxy field; the materialized
// placeholder value is ignored.
func coreMarshal(entry *types.CatalogEntry) types.MarshalFunc {
	return func(g *types.Galaxy, _ *types.Value) ([]byte, error) {
		if g == nil {
			return nil, ErrNilGalaxy
		}
		v, err := entry.Extract(g)
		if err != nil {
			return nil, err
		}
		return v.MarshalBinary()
	}
}

// coreUnmarshal decodes bytes back into the compiled galaxy field.
func coreUnmarshal(entry *types.CatalogEntry) types.UnmarshalFunc {
	return func(g *types.Galaxy, _ *types.Value, data []byte) error {
		if g == nil {
			return ErrNilGalaxy
		}
		n := 1
		if entry.Array {
			n = entry.Dim
		}
		v, err := types.NewValue(entry.Kind, n)
		if err != nil {
			return err
		}
		if err := v.UnmarshalBinary(data); err != nil {
			return err
		}
		return entry.Inject(g, v)
	}
}

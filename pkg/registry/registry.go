package registry

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sage-home/galaxykit/pkg/types"
)

// Registry state errors.
var (
	ErrAlreadyInitialized = errors.New("registry is already initialized")
	ErrNotInitialized     = errors.New("registry is not initialized")
	ErrRegistryFull       = errors.New("registry extension table is full")
	ErrModuleTableFull    = errors.New("registry module table is full")
	ErrDuplicateName      = errors.New("property name is already registered")
	ErrUnknownProperty    = errors.New("property id is not registered")
	ErrNotContiguous      = errors.New("module registrations must be contiguous")
)

// InvalidProperty is returned by Register on failure. It is outside
// every store's bounds, so using it with the accessors degrades to the
// caller's default instead of touching another property.
const InvalidProperty = types.PropertyID(-1)

// DefaultDynamicArrayLen bounds dynamic array access when no
// "<name>_size" companion property is registered.
const DefaultDynamicArrayLen = 10

// slot is one issued property id. Unregistration tombstones the slot;
// the id itself is never reused.
type slot struct {
	desc types.Descriptor
	live bool
}

// moduleGroup records the contiguous id range registered by one module.
type moduleGroup struct {
	module types.ModuleID
	first  types.PropertyID
	count  int
}

// Registry assigns property ids and resolves descriptors for one
// simulation run. The zero value is unusable until Initialize is
// called; New returns an initialized registry.
type Registry struct {
	initialized bool
	slots       []slot
	groups      []moduleGroup
	logger      *zap.Logger
	dynDefault  int
}

// Option configures a Registry built with New.
type Option func(*Registry)

// WithLogger routes registry diagnostics to the given logger. The
// default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDynamicArrayDefault overrides DefaultDynamicArrayLen for dynamic
// arrays without a size companion. Values below 1 are ignored.
func WithDynamicArrayDefault(n int) Option {
	return func(r *Registry) {
		if n >= 1 {
			r.dynDefault = n
		}
	}
}

// New returns an initialized registry.
func New(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	// The zero registry cannot already be initialized.
	_ = r.Initialize()
	return r
}

// Initialize prepares the registry for registration. Idempotent:
// a second call returns ErrAlreadyInitialized and leaves the registry
// unchanged; callers may treat that as non-fatal.
func (r *Registry) Initialize() error {
	if r.initialized {
		return ErrAlreadyInitialized
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.dynDefault < 1 {
		r.dynDefault = DefaultDynamicArrayLen
	}
	r.initialized = true
	return nil
}

// Register assigns the next property id to the descriptor. Ids are
// assigned in registration order and never reused. A module's
// registrations must be consecutive; interleaving two modules'
// registrations returns ErrNotContiguous.
// Returns InvalidProperty with ErrNotInitialized, a descriptor
// validation error, ErrDuplicateName, ErrRegistryFull, or
// ErrModuleTableFull on failure.
func (r *Registry) Register(d types.Descriptor) (types.PropertyID, error) {
	if !r.initialized {
		return InvalidProperty, ErrNotInitialized
	}
	if err := d.Validate(); err != nil {
		return InvalidProperty, fmt.Errorf("validating descriptor %q: %w", d.Name, err)
	}
	if _, _, ok := r.FindByName(d.Name); ok {
		return InvalidProperty, fmt.Errorf("registering %q: %w", d.Name, ErrDuplicateName)
	}
	if len(r.slots) >= types.MaxExtensions {
		return InvalidProperty, ErrRegistryFull
	}
	id := types.PropertyID(len(r.slots))
	gi := r.groupIndex(d.Module)
	if gi < 0 {
		if len(r.groups) >= types.MaxModules {
			return InvalidProperty, ErrModuleTableFull
		}
		r.groups = append(r.groups, moduleGroup{module: d.Module, first: id})
		gi = len(r.groups) - 1
	} else {
		g := r.groups[gi]
		if types.PropertyID(int(g.first)+g.count) != id {
			return InvalidProperty, fmt.Errorf("registering %q for module %d: %w", d.Name, d.Module, ErrNotContiguous)
		}
	}
	r.slots = append(r.slots, slot{desc: d, live: true})
	r.groups[gi].count++
	r.logger.Debug("registered property",
		zap.String("name", d.Name),
		zap.Int32("id", int32(id)),
		zap.Int32("module", int32(d.Module)))
	return id, nil
}

// Unregister tombstones the property. The id is never reassigned and
// later ids keep their positions. The owning module's group count
// shrinks; when it reaches zero the group entry is removed and the
// group table compacts.
// Returns ErrNotInitialized or ErrUnknownProperty (out of range or
// already tombstoned).
func (r *Registry) Unregister(id types.PropertyID) error {
	if !r.initialized {
		return ErrNotInitialized
	}
	if int(id) < 0 || int(id) >= len(r.slots) || !r.slots[id].live {
		return fmt.Errorf("unregistering property %d: %w", id, ErrUnknownProperty)
	}
	module := r.slots[id].desc.Module
	name := r.slots[id].desc.Name
	r.slots[id] = slot{}
	gi := r.groupIndex(module)
	if gi >= 0 {
		r.groups[gi].count--
		if r.groups[gi].count <= 0 {
			r.groups = append(r.groups[:gi], r.groups[gi+1:]...)
		}
	}
	r.logger.Debug("unregistered property",
		zap.String("name", name),
		zap.Int32("id", int32(id)))
	return nil
}

// FindByName returns the live property with the given name. Linear
// scan; registration-phase churn is the only write traffic, so no
// index is kept.
func (r *Registry) FindByName(name string) (types.PropertyID, *types.Descriptor, bool) {
	for i := range r.slots {
		if r.slots[i].live && r.slots[i].desc.Name == name {
			return types.PropertyID(i), &r.slots[i].desc, true
		}
	}
	return InvalidProperty, nil, false
}

// FindByID returns the descriptor for a live property id.
func (r *Registry) FindByID(id types.PropertyID) (*types.Descriptor, bool) {
	if int(id) < 0 || int(id) >= len(r.slots) || !r.slots[id].live {
		return nil, false
	}
	return &r.slots[id].desc, true
}

// FindByModule returns the contiguous id range registered by the given
// module: its first property id and the live count.
func (r *Registry) FindByModule(module types.ModuleID) (types.PropertyID, int, bool) {
	gi := r.groupIndex(module)
	if gi < 0 {
		return InvalidProperty, 0, false
	}
	return r.groups[gi].first, r.groups[gi].count, true
}

// Count returns the number of ids ever issued, tombstones included.
// Stores attached now get this many slots.
func (r *Registry) Count() int {
	return len(r.slots)
}

// Live reports whether the id refers to a registered, non-tombstoned
// property.
func (r *Registry) Live(id types.PropertyID) bool {
	return int(id) >= 0 && int(id) < len(r.slots) && r.slots[id].live
}

// Modules returns the number of module group entries currently held.
func (r *Registry) Modules() int {
	return len(r.groups)
}

func (r *Registry) groupIndex(module types.ModuleID) int {
	for i := range r.groups {
		if r.groups[i].module == module {
			return i
		}
	}
	return -1
}

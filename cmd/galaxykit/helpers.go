// Shared helpers for galaxykit CLI commands.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sage-home/galaxykit/pkg/types"
)

// shapeString renders a descriptor's shape for listings.
func shapeString(d *types.Descriptor) string {
	switch {
	case d.Dynamic():
		return "dynamic"
	case d.Array:
		return fmt.Sprintf("array[%d]", d.ArrayLen)
	default:
		return "scalar"
	}
}

// moduleString renders a module id, naming the core sentinel.
func moduleString(m types.ModuleID) string {
	if m == types.ModuleCore {
		return "core"
	}
	return strconv.Itoa(int(m))
}

// flagString renders the flag set as comma-separated names.
func flagString(f types.Flags) string {
	var names []string
	if f.Has(types.FlagSerialize) {
		names = append(names, "serialize")
	}
	if f.Has(types.FlagReadOnly) {
		names = append(names, "readonly")
	}
	if f.Has(types.FlagZeroInit) {
		names = append(names, "zeroinit")
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}

// valueElems returns the element slice of a decoded value for
// printing.
func valueElems(v *types.Value) any {
	switch v.Kind {
	case types.Float32:
		return v.F32
	case types.Float64:
		return v.F64
	case types.Int32:
		return v.I32
	case types.Int64:
		return v.I64
	case types.UInt64:
		return v.U64
	}
	return nil
}

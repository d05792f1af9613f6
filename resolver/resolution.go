package resolver

import (
	"github.com/basm-lang/basm/ast"
	"github.com/basm-lang/basm/errors"
)

// TypeInfo describes one type known to the resolution collaborator.
// Member maps are keyed by simple name; method values hold the descriptor of
// every overload.
type TypeInfo struct {
	Name      string
	Interface bool
	Fields    map[string]string
	Methods   map[string][]string
}

// TypeResolver is the capability the surrounding workspace implements to
// answer type and member lookups. Lookups are advisory: a missing type
// degrades to a warning unless an omitted descriptor depends on it.
type TypeResolver interface {
	Resolve(internalName string) (TypeInfo, bool)
}

// Resolution is the symbol table a successful resolve produces. The compiler
// consumes the label and local tables; editors read the warnings.
type Resolution struct {
	unit       *ast.Unit
	labels     map[string]int
	slots      map[string]int
	paramSlots int
	warnings   []errors.Diagnostic
}

// Unit returns the resolved unit.
func (r *Resolution) Unit() *ast.Unit { return r.unit }

// LabelIndex returns the body-entry index of the named label's declaration.
func (r *Resolution) LabelIndex(name string) (int, bool) {
	i, ok := r.labels[name]
	return i, ok
}

// Slot returns the local variable slot bound to the given name.
func (r *Resolution) Slot(name string) (int, bool) {
	s, ok := r.slots[name]
	return s, ok
}

// ParamSlots returns the number of local slots reserved by the receiver and
// the method parameters. Zero for class and field units.
func (r *Resolution) ParamSlots() int { return r.paramSlots }

// Labels returns a copy of the label table.
func (r *Resolution) Labels() map[string]int {
	out := make(map[string]int, len(r.labels))
	for k, v := range r.labels {
		out[k] = v
	}
	return out
}

// Slots returns a copy of the local name table.
func (r *Resolution) Slots() map[string]int {
	out := make(map[string]int, len(r.slots))
	for k, v := range r.slots {
		out[k] = v
	}
	return out
}

// Warnings returns the advisory diagnostics gathered during resolution.
func (r *Resolution) Warnings() []errors.Diagnostic { return r.warnings }

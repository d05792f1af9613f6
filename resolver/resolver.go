// Package resolver binds the symbolic operands of a parsed unit to their
// declarations: labels to body-entry indexes, named locals to slots, and
// member references to completed descriptors.
//
// Label and local resolution is purely in-tree. Member and type references
// are checked through the optional TypeResolver capability; a failed lookup
// degrades to a warning, since the referenced type may live outside the
// loaded workspace. An omitted member descriptor is the exception: it must
// be completable, uniquely, or resolution fails.
package resolver

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/basm-lang/basm/ast"
	"github.com/basm-lang/basm/errors"
	"github.com/basm-lang/basm/internal/descriptor"
	"github.com/basm-lang/basm/op"
	"github.com/basm-lang/basm/token"
)

// Config holds resolver configuration options.
type Config struct {
	// Types is the external type-resolution capability. When nil, member
	// descriptors must be written explicitly and no type validation runs.
	Types TypeResolver

	// Source is the original assembly text, used to attach source lines to
	// diagnostics.
	Source string

	// Sink receives every diagnostic as it is produced, warnings included.
	Sink errors.Sink
}

// Resolver performs a single-unit resolution pass.
type Resolver struct {
	types  TypeResolver
	source string
	sink   errors.Sink

	errs     *multierror.Error
	warnings []errors.Diagnostic

	labels   map[string]int
	declLine map[string]int
	slots    map[string]int
}

// Resolve binds all symbolic operands in the unit. Pass nil for cfg to use
// defaults. On success the Resolution carries the label and local tables the
// compiler consumes; member references with omitted descriptors have been
// completed in place. On failure every hard diagnostic is returned in one
// multierror batch.
func Resolve(unit *ast.Unit, cfg *Config) (*Resolution, error) {
	return New(cfg).ResolveUnit(unit)
}

// New creates a Resolver. Pass nil for cfg to use defaults.
func New(cfg *Config) *Resolver {
	r := &Resolver{}
	if cfg != nil {
		r.types = cfg.Types
		r.source = cfg.Source
		r.sink = cfg.Sink
	}
	return r
}

// ResolveUnit resolves one unit. Incomplete units are refused: their missing
// pieces would surface here as misleading symbol errors.
func (r *Resolver) ResolveUnit(unit *ast.Unit) (*Resolution, error) {
	if unit == nil || unit.Definition() == nil {
		return nil, fmt.Errorf("resolver: nil unit")
	}
	if unit.Incomplete() {
		return nil, fmt.Errorf("resolver: cannot resolve an incomplete unit")
	}

	r.errs = nil
	r.warnings = nil
	res := &Resolution{
		unit:   unit,
		labels: map[string]int{},
		slots:  map[string]int{},
	}

	switch def := unit.Definition().(type) {
	case *ast.ClassDef:
		r.resolveClass(def)
	case *ast.FieldDef:
		r.resolveField(def)
	case *ast.MethodDef:
		r.resolveMethod(def, res)
	}

	res.warnings = r.warnings
	if err := r.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Resolver) resolveClass(def *ast.ClassDef) {
	r.checkModifiers(ast.ClassKind, def.Modifiers(), def.Pos())
	if def.Super() != "" {
		r.checkType(def.Pos(), def.Super())
	}
	for _, iface := range def.Interfaces() {
		r.checkType(def.Pos(), iface)
	}
}

func (r *Resolver) resolveField(def *ast.FieldDef) {
	r.checkModifiers(ast.FieldKind, def.Modifiers(), def.Pos())

	typ, err := descriptor.ParseField(def.Desc())
	if err != nil {
		r.errorf(errors.E2004, def.Pos(), "malformed field descriptor %q", def.Desc())
		return
	}
	if typ.Sort == descriptor.Object {
		r.checkType(def.Pos(), typ.ClassName)
	}
	if v := def.Value(); v != nil && !constantFits(typ, v) {
		r.errorf(errors.E2010, v.Pos(),
			"constant value %s does not fit descriptor %s", v.String(), def.Desc())
	}
}

func (r *Resolver) resolveMethod(def *ast.MethodDef, res *Resolution) {
	r.checkModifiers(ast.MethodKind, def.Modifiers(), def.Pos())

	var sig descriptor.Method
	sigOK := false
	if m, err := descriptor.ParseMethod(def.Desc()); err != nil {
		r.errorf(errors.E2004, def.Pos(), "malformed method descriptor %q", def.Desc())
	} else {
		sig = m
		sigOK = true
	}

	body := def.Body()
	abstract := def.HasModifier("abstract") || def.HasModifier("native")
	if abstract && (len(body.Instructions()) > 0 || len(body.Handlers()) > 0 || len(body.Locals()) > 0) {
		r.errorf(errors.E2007, def.Pos(), "method %s is abstract or native and must not have a body", def.Name())
	}

	r.collectLabels(body)
	r.checkReferences(body)
	r.checkHandlers(body)
	r.bindLocals(def, body, sig, sigOK, res)
	r.resolveMembers(body)

	res.labels = r.labels
	res.slots = r.slots
}

// collectLabels records the entry index of every label declaration,
// reporting duplicates.
func (r *Resolver) collectLabels(body *ast.Body) {
	r.labels = map[string]int{}
	r.declLine = map[string]int{}
	for i, e := range body.Entries() {
		decl, ok := e.(*ast.LabelDecl)
		if !ok {
			continue
		}
		if _, dup := r.labels[decl.Name()]; dup {
			r.errorf(errors.E2001, decl.Pos(),
				"duplicate label %%%s (first declared on line %d)",
				decl.Name(), r.declLine[decl.Name()])
			continue
		}
		r.labels[decl.Name()] = i
		r.declLine[decl.Name()] = decl.Pos().LineNumber()
	}
}

// checkReferences verifies that every label reference in the entry stream
// names a declaration.
func (r *Resolver) checkReferences(body *ast.Body) {
	for _, e := range body.Entries() {
		switch inst := e.(type) {
		case *ast.BranchInst:
			r.checkLabel(inst.Target())
		case *ast.TableSwitchInst:
			for _, t := range inst.Targets() {
				r.checkLabel(t)
			}
			r.checkLabel(inst.Default())
		case *ast.LookupSwitchInst:
			for _, p := range inst.Pairs() {
				r.checkLabel(p.Target)
			}
			r.checkLabel(inst.Default())
		case *ast.TypeInst:
			r.checkType(inst.Pos(), inst.Type().Name())
		case *ast.MultiArrayInst:
			r.checkArrayType(inst)
		case *ast.ConstInst:
			if lit := inst.Literal(); lit.Kind() == ast.TypeLit {
				r.checkType(inst.Pos(), lit.Str())
			}
		}
	}
}

// checkHandlers resolves handler bounds and validates their ordering. The
// protected range is half-open, so from must be strictly before to.
func (r *Resolver) checkHandlers(body *ast.Body) {
	for _, h := range body.Handlers() {
		if !h.CatchesAll() {
			r.checkType(h.Pos(), h.Type())
		}
		from, okFrom := r.checkLabel(h.From())
		to, okTo := r.checkLabel(h.To())
		_, okH := r.checkLabel(h.Handler())
		if okFrom && okTo && okH && from >= to {
			r.errorf(errors.E2006, h.Pos(),
				"handler range %%%s..%%%s is empty or reversed",
				h.From().Name(), h.To().Name())
		}
	}
}

// checkLabel resolves one reference against the declaration table.
func (r *Resolver) checkLabel(ref *ast.LabelRef) (int, bool) {
	if idx, ok := r.labels[ref.Name()]; ok {
		return idx, true
	}
	r.errorf(errors.E2002, ref.Pos(),
		"unresolved label %%%s (line %d)", ref.Name(), ref.Pos().LineNumber())
	return 0, false
}

// bindLocals builds the name-to-slot table: parameters first, then var
// directives, then auto-allocated names in order of first use.
func (r *Resolver) bindLocals(def *ast.MethodDef, body *ast.Body, sig descriptor.Method, sigOK bool, res *Resolution) {
	paramSlots := 0
	if !def.HasModifier("static") {
		paramSlots = 1
	}
	if sigOK {
		paramSlots += sig.ArgSlots()
	}
	res.paramSlots = paramSlots

	r.slots = map[string]int{}
	if !def.HasModifier("static") {
		r.slots["this"] = 0
	}

	type varRange struct {
		v        *ast.VarDirective
		from, to int
		width    int
		rangeOK  bool
	}
	var ranges []varRange
	next := paramSlots

	for _, v := range body.Locals() {
		width := 1
		if t, err := descriptor.ParseField(v.Desc()); err != nil {
			r.errorf(errors.E2004, v.Pos(),
				"malformed descriptor %q for local %s", v.Desc(), v.Name())
		} else {
			width = t.SlotWidth()
			if t.Sort == descriptor.Object {
				r.checkType(v.Pos(), t.ClassName)
			}
		}
		if prev, bound := r.slots[v.Name()]; bound && prev != v.Slot() {
			r.errorf(errors.E2003, v.Pos(),
				"local %s is bound to both slot %d and slot %d", v.Name(), prev, v.Slot())
		} else {
			r.slots[v.Name()] = v.Slot()
		}
		if v.Slot()+width > next {
			next = v.Slot() + width
		}

		from, okFrom := r.checkLabel(v.From())
		to, okTo := r.checkLabel(v.To())
		rangeOK := okFrom && okTo
		if rangeOK && from > to {
			r.errorf(errors.E2006, v.Pos(), "variable %s range is reversed", v.Name())
			rangeOK = false
		}
		ranges = append(ranges, varRange{v: v, from: from, to: to, width: width, rangeOK: rangeOK})
	}

	// Two declared locals may share slots only when their live ranges are
	// disjoint.
	for i := 1; i < len(ranges); i++ {
		for j := 0; j < i; j++ {
			a, b := ranges[j], ranges[i]
			if a.v.Name() == b.v.Name() || !a.rangeOK || !b.rangeOK {
				continue
			}
			slotsClash := a.v.Slot() < b.v.Slot()+b.width && b.v.Slot() < a.v.Slot()+a.width
			rangesClash := a.from < b.to && b.from < a.to
			if slotsClash && rangesClash {
				shared := a.v.Slot()
				if b.v.Slot() > shared {
					shared = b.v.Slot()
				}
				r.errorf(errors.E2005, b.v.Pos(),
					"locals %s and %s both occupy slot %d", a.v.Name(), b.v.Name(), shared)
			}
		}
	}

	// Usage widths for names that have no var directive, and the high-water
	// mark of explicitly numbered slots.
	width := map[string]int{}
	for _, e := range body.Entries() {
		var l ast.Local
		w := 1
		switch inst := e.(type) {
		case *ast.VarInst:
			l = inst.Local()
			w = slotOpWidth(inst.Op())
		case *ast.IincInst:
			l = inst.Local()
		default:
			continue
		}
		if l.IsNamed() {
			if w > width[l.Name()] {
				width[l.Name()] = w
			}
		} else if l.Slot()+w > next {
			next = l.Slot() + w
		}
	}

	// Auto-allocate remaining names in first-use order.
	for _, e := range body.Entries() {
		var l ast.Local
		switch inst := e.(type) {
		case *ast.VarInst:
			l = inst.Local()
		case *ast.IincInst:
			l = inst.Local()
		default:
			continue
		}
		if !l.IsNamed() {
			continue
		}
		if _, bound := r.slots[l.Name()]; bound {
			continue
		}
		r.slots[l.Name()] = next
		next += width[l.Name()]
	}

	// Substitute named locals with their assigned slots so downstream
	// consumers see concrete operands.
	for _, e := range body.Entries() {
		switch inst := e.(type) {
		case *ast.VarInst:
			if l := inst.Local(); l.IsNamed() {
				inst.SetLocal(ast.NewSlotLocal(l.Token(), r.slots[l.Name()]))
			}
		case *ast.IincInst:
			if l := inst.Local(); l.IsNamed() {
				inst.SetLocal(ast.NewSlotLocal(l.Token(), r.slots[l.Name()]))
			}
		}
	}
}

// resolveMembers completes and cross-checks field and method references.
func (r *Resolver) resolveMembers(body *ast.Body) {
	for _, e := range body.Entries() {
		switch inst := e.(type) {
		case *ast.FieldInst:
			r.resolveMember(inst.Pos(), inst.Ref(), false)
		case *ast.MethodInst:
			r.resolveMember(inst.Pos(), inst.Ref(), true)
		}
	}
}

func (r *Resolver) resolveMember(pos token.Position, ref *ast.MemberRef, isMethod bool) {
	if ref.Desc() == "" {
		r.completeMember(pos, ref, isMethod)
		return
	}

	valid := descriptor.IsValidField(ref.Desc())
	what := "field"
	if isMethod {
		valid = descriptor.IsValidMethod(ref.Desc())
		what = "method"
	}
	if !valid {
		r.errorf(errors.E2004, pos, "malformed %s descriptor %q for %s.%s",
			what, ref.Desc(), ref.Owner(), ref.Name())
		return
	}
	if r.types == nil {
		return
	}

	info, known := r.types.Resolve(ref.Owner())
	if !known {
		r.warnf(errors.E2008, pos, "type %s is not known to the workspace", ref.Owner())
		return
	}
	if isMethod {
		cands := info.Methods[ref.Name()]
		if len(cands) == 0 {
			r.warnf(errors.E2009, pos, "type %s has no known method %s", ref.Owner(), ref.Name())
			return
		}
		for _, d := range cands {
			if d == ref.Desc() {
				return
			}
		}
		r.warnf(errors.E2009, pos, "no overload of %s.%s matches %s",
			ref.Owner(), ref.Name(), ref.Desc())
		return
	}
	d, ok := info.Fields[ref.Name()]
	if !ok {
		r.warnf(errors.E2009, pos, "type %s has no known field %s", ref.Owner(), ref.Name())
		return
	}
	if d != ref.Desc() {
		r.warnf(errors.E2009, pos, "field %s.%s has descriptor %s, not %s",
			ref.Owner(), ref.Name(), d, ref.Desc())
	}
}

// completeMember fills in an omitted descriptor. Unlike the advisory checks,
// completion must succeed: the compiler cannot encode a reference without a
// descriptor.
func (r *Resolver) completeMember(pos token.Position, ref *ast.MemberRef, isMethod bool) {
	if r.types == nil {
		r.errorf(errors.E2009, pos,
			"no descriptor given for %s.%s and no type information is available",
			ref.Owner(), ref.Name())
		return
	}
	info, known := r.types.Resolve(ref.Owner())
	if !known {
		r.errorf(errors.E2008, pos,
			"cannot complete descriptor for %s.%s: type %s is not known",
			ref.Owner(), ref.Name(), ref.Owner())
		return
	}
	if isMethod {
		cands := info.Methods[ref.Name()]
		switch len(cands) {
		case 0:
			r.errorf(errors.E2009, pos, "type %s has no method %s", ref.Owner(), ref.Name())
		case 1:
			ref.SetDesc(cands[0])
		default:
			r.errorf(errors.E2003, pos,
				"ambiguous reference to %s.%s: %d overloads, write the descriptor",
				ref.Owner(), ref.Name(), len(cands))
		}
		return
	}
	d, ok := info.Fields[ref.Name()]
	if !ok {
		r.errorf(errors.E2009, pos, "type %s has no field %s", ref.Owner(), ref.Name())
		return
	}
	ref.SetDesc(d)
}

// checkType validates a type operand: array descriptors must be well formed,
// and class names are looked up when a resolver is configured.
func (r *Resolver) checkType(pos token.Position, name string) {
	if name == "" || name == "*" {
		return
	}
	if strings.HasPrefix(name, "[") {
		t, err := descriptor.ParseField(name)
		if err != nil {
			r.errorf(errors.E2004, pos, "malformed array descriptor %q", name)
			return
		}
		if t.Sort != descriptor.Object {
			return
		}
		name = t.ClassName
	}
	if r.types == nil {
		return
	}
	if _, known := r.types.Resolve(name); !known {
		r.warnf(errors.E2008, pos, "type %s is not known to the workspace", name)
	}
}

func (r *Resolver) checkArrayType(inst *ast.MultiArrayInst) {
	name := inst.Type().Name()
	if !strings.HasPrefix(name, "[") {
		r.errorf(errors.E2004, inst.Pos(),
			"multianewarray needs an array descriptor, got %q", name)
		return
	}
	t, err := descriptor.ParseField(name)
	if err != nil {
		r.errorf(errors.E2004, inst.Pos(), "malformed array descriptor %q", name)
		return
	}
	if inst.Dims() > t.Dims {
		r.errorf(errors.E2004, inst.Pos(),
			"multianewarray creates %d dimensions but %q has only %d",
			inst.Dims(), name, t.Dims)
		return
	}
	if t.Sort == descriptor.Object {
		r.checkType(inst.Pos(), t.ClassName)
	}
}

// checkModifiers reports words that are not legal for the definition kind
// and the classic illegal pairings.
func (r *Resolver) checkModifiers(kind ast.DefKind, words []string, pos token.Position) {
	visibility := 0
	for _, w := range words {
		if _, ok := ast.ModifierBit(kind, w); !ok {
			r.errorf(errors.E2007, pos, "%s is not a legal %s modifier", w, kind)
		}
		switch w {
		case "public", "private", "protected":
			visibility++
		}
	}
	if visibility > 1 {
		r.errorf(errors.E2007, pos, "at most one of public, private and protected is allowed")
	}
	if hasWord(words, "final") && hasWord(words, "abstract") {
		r.errorf(errors.E2007, pos, "final and abstract are mutually exclusive")
	}
	if kind == ast.FieldKind && hasWord(words, "final") && hasWord(words, "volatile") {
		r.errorf(errors.E2007, pos, "final and volatile are mutually exclusive")
	}
	if kind == ast.ClassKind && hasWord(words, "interface") && hasWord(words, "final") {
		r.errorf(errors.E2007, pos, "an interface cannot be final")
	}
}

func (r *Resolver) errorf(code errors.ErrorCode, pos token.Position, format string, args ...interface{}) {
	d := r.diag(code, errors.SeverityError, pos, fmt.Sprintf(format, args...))
	r.errs = multierror.Append(r.errs, d)
}

func (r *Resolver) warnf(code errors.ErrorCode, pos token.Position, format string, args ...interface{}) {
	d := r.diag(code, errors.SeverityWarning, pos, fmt.Sprintf(format, args...))
	r.warnings = append(r.warnings, *d)
}

func (r *Resolver) diag(code errors.ErrorCode, sev errors.Severity, pos token.Position, msg string) *errors.Diagnostic {
	d := &errors.Diagnostic{
		Code:     code,
		Severity: sev,
		Message:  msg,
		Location: errors.SourceLocation{
			Filename: pos.File,
			Line:     pos.LineNumber(),
			Column:   pos.ColumnNumber(),
			Source:   r.lineText(pos),
		},
	}
	if r.sink != nil {
		r.sink.Report(*d)
	}
	return d
}

// lineText slices the source line containing pos out of the configured
// source text.
func (r *Resolver) lineText(pos token.Position) string {
	if r.source == "" || pos.LineStart < 0 || pos.LineStart > len(r.source) {
		return ""
	}
	rest := r.source[pos.LineStart:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// slotOpWidth returns the local slot width consumed by a load or store.
func slotOpWidth(code op.Code) int {
	switch code {
	case op.Lload, op.Dload, op.Lstore, op.Dstore:
		return 2
	}
	return 1
}

// constantFits reports whether a field constant literal matches the declared
// descriptor sort.
func constantFits(typ descriptor.Type, lit *ast.Literal) bool {
	if typ.Dims > 0 {
		return false
	}
	switch typ.Sort {
	case descriptor.Boolean, descriptor.Byte, descriptor.Char, descriptor.Short, descriptor.Int:
		return lit.Kind() == ast.IntLit
	case descriptor.Long:
		return lit.Kind() == ast.LongLit
	case descriptor.Float:
		return lit.Kind() == ast.FloatLit
	case descriptor.Double:
		return lit.Kind() == ast.DoubleLit
	case descriptor.Object:
		return typ.ClassName == "java/lang/String" && lit.Kind() == ast.StringLit
	}
	return false
}

func hasWord(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

package bytecode

import (
	"fmt"
	"math"
	"strconv"
)

// ConstKind tags a constant pool entry.
type ConstKind uint8

const (
	ConstInt ConstKind = iota + 1
	ConstLong
	ConstFloat
	ConstDouble
	ConstString
	ConstClass
	ConstFieldRef
	ConstMethodRef
	ConstIfaceMethodRef
)

func (k ConstKind) String() string {
	switch k {
	case ConstInt:
		return "int"
	case ConstLong:
		return "long"
	case ConstFloat:
		return "float"
	case ConstDouble:
		return "double"
	case ConstString:
		return "string"
	case ConstClass:
		return "class"
	case ConstFieldRef:
		return "fieldref"
	case ConstMethodRef:
		return "methodref"
	case ConstIfaceMethodRef:
		return "interfacemethodref"
	}
	return "invalid"
}

// Const is one constant pool entry. Which fields are meaningful depends on
// Kind: Int for int and long entries, Float for float and double entries,
// Str for string and class entries, Owner/Name/Desc for member references.
type Const struct {
	Kind  ConstKind
	Int   int64
	Float float64
	Str   string
	Owner string
	Name  string
	Desc  string
}

// String renders the entry the way disassembly listings annotate it.
func (c Const) String() string {
	switch c.Kind {
	case ConstInt:
		return "int " + strconv.FormatInt(c.Int, 10)
	case ConstLong:
		return "long " + strconv.FormatInt(c.Int, 10) + "L"
	case ConstFloat:
		return "float " + strconv.FormatFloat(c.Float, 'g', -1, 32) + "F"
	case ConstDouble:
		return "double " + strconv.FormatFloat(c.Float, 'g', -1, 64)
	case ConstString:
		return "string " + strconv.Quote(c.Str)
	case ConstClass:
		return "class " + c.Str
	case ConstFieldRef, ConstMethodRef, ConstIfaceMethodRef:
		return fmt.Sprintf("%s %s.%s %s", c.Kind, c.Owner, c.Name, c.Desc)
	}
	return "invalid"
}

// poolKey compares entries by exact bit pattern, keeping 0.0 and -0.0 as
// separate entries and letting NaN-valued constants coexist.
type poolKey struct {
	kind  ConstKind
	i     int64
	bits  uint64
	str   string
	owner string
	name  string
	desc  string
}

func keyOf(c Const) poolKey {
	return poolKey{
		kind:  c.Kind,
		i:     c.Int,
		bits:  math.Float64bits(c.Float),
		str:   c.Str,
		owner: c.Owner,
		name:  c.Name,
		desc:  c.Desc,
	}
}

// ConstPool is a deduplicating constant pool. Entries are addressed by
// uint16 index in insertion order.
type ConstPool struct {
	entries []Const
	index   map[poolKey]uint16
}

// NewConstPool creates an empty pool.
func NewConstPool() *ConstPool {
	return &ConstPool{index: map[poolKey]uint16{}}
}

// poolFromEntries rebuilds a pool around an existing entry list, preserving
// every index. The entries slice is taken over, not copied.
func poolFromEntries(entries []Const) *ConstPool {
	p := &ConstPool{entries: entries, index: make(map[poolKey]uint16, len(entries))}
	for i, c := range entries {
		key := keyOf(c)
		if _, ok := p.index[key]; !ok {
			p.index[key] = uint16(i)
		}
	}
	return p
}

// Add interns an entry and returns its index. Adding an entry equal to an
// existing one returns the existing index.
func (p *ConstPool) Add(c Const) (uint16, error) {
	key := keyOf(c)
	if idx, ok := p.index[key]; ok {
		return idx, nil
	}
	if len(p.entries) > math.MaxUint16 {
		return 0, fmt.Errorf("bytecode: constant pool is full")
	}
	idx := uint16(len(p.entries))
	p.entries = append(p.entries, c)
	p.index[key] = idx
	return idx, nil
}

// AddInt interns a 32-bit integer constant.
func (p *ConstPool) AddInt(v int32) (uint16, error) {
	return p.Add(Const{Kind: ConstInt, Int: int64(v)})
}

// AddLong interns a 64-bit integer constant.
func (p *ConstPool) AddLong(v int64) (uint16, error) {
	return p.Add(Const{Kind: ConstLong, Int: v})
}

// AddFloat interns a 32-bit float constant.
func (p *ConstPool) AddFloat(v float32) (uint16, error) {
	return p.Add(Const{Kind: ConstFloat, Float: float64(v)})
}

// AddDouble interns a 64-bit float constant.
func (p *ConstPool) AddDouble(v float64) (uint16, error) {
	return p.Add(Const{Kind: ConstDouble, Float: v})
}

// AddString interns a string constant.
func (p *ConstPool) AddString(s string) (uint16, error) {
	return p.Add(Const{Kind: ConstString, Str: s})
}

// AddClass interns a class constant by internal name or array descriptor.
func (p *ConstPool) AddClass(internalName string) (uint16, error) {
	return p.Add(Const{Kind: ConstClass, Str: internalName})
}

// AddFieldRef interns a field reference.
func (p *ConstPool) AddFieldRef(owner, name, desc string) (uint16, error) {
	return p.Add(Const{Kind: ConstFieldRef, Owner: owner, Name: name, Desc: desc})
}

// AddMethodRef interns a method reference.
func (p *ConstPool) AddMethodRef(owner, name, desc string) (uint16, error) {
	return p.Add(Const{Kind: ConstMethodRef, Owner: owner, Name: name, Desc: desc})
}

// AddInterfaceMethodRef interns an interface method reference.
func (p *ConstPool) AddInterfaceMethodRef(owner, name, desc string) (uint16, error) {
	return p.Add(Const{Kind: ConstIfaceMethodRef, Owner: owner, Name: name, Desc: desc})
}

// Count returns the number of entries.
func (p *ConstPool) Count() int { return len(p.entries) }

// Entry returns the entry at the given index, reporting whether it exists.
func (p *ConstPool) Entry(index uint16) (Const, bool) {
	if int(index) >= len(p.entries) {
		return Const{}, false
	}
	return p.entries[index], true
}

// Clone returns an independent copy of the pool.
func (p *ConstPool) Clone() *ConstPool {
	entries := make([]Const, len(p.entries))
	copy(entries, p.entries)
	return poolFromEntries(entries)
}

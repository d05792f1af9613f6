package bytecode

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/gofrs/uuid"
)

// Container format constants. The magic distinguishes BASM artifacts from
// arbitrary CBOR; the version gates layout changes.
const (
	Magic         = "BASM"
	FormatVersion = 1
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Wire layout. Float constants travel as raw bits so encoding cannot
// disturb negative zero or NaN payloads.

type wireContainer struct {
	Magic   string   `cbor:"1,keyasint"`
	Version int      `cbor:"2,keyasint"`
	Unit    wireUnit `cbor:"3,keyasint"`
}

type wireUnit struct {
	ID     []byte      `cbor:"1,keyasint"`
	Class  *wireClass  `cbor:"2,keyasint,omitempty"`
	Field  *wireField  `cbor:"3,keyasint,omitempty"`
	Method *wireMethod `cbor:"4,keyasint,omitempty"`
}

type wireClass struct {
	Flags      uint16   `cbor:"1,keyasint"`
	Name       string   `cbor:"2,keyasint"`
	Super      string   `cbor:"3,keyasint,omitempty"`
	Interfaces []string `cbor:"4,keyasint,omitempty"`
}

type wireConst struct {
	Kind  uint8  `cbor:"1,keyasint"`
	Int   int64  `cbor:"2,keyasint,omitempty"`
	Bits  uint64 `cbor:"3,keyasint,omitempty"`
	Str   string `cbor:"4,keyasint,omitempty"`
	Owner string `cbor:"5,keyasint,omitempty"`
	Name  string `cbor:"6,keyasint,omitempty"`
	Desc  string `cbor:"7,keyasint,omitempty"`
}

type wireField struct {
	Flags uint16     `cbor:"1,keyasint"`
	Name  string     `cbor:"2,keyasint"`
	Desc  string     `cbor:"3,keyasint"`
	Value *wireConst `cbor:"4,keyasint,omitempty"`
}

type wireHandler struct {
	Start   int    `cbor:"1,keyasint"`
	End     int    `cbor:"2,keyasint"`
	Handler int    `cbor:"3,keyasint"`
	Type    string `cbor:"4,keyasint,omitempty"`
}

type wireLocal struct {
	Slot  int    `cbor:"1,keyasint"`
	Name  string `cbor:"2,keyasint"`
	Desc  string `cbor:"3,keyasint"`
	Start int    `cbor:"4,keyasint"`
	End   int    `cbor:"5,keyasint"`
}

type wireLine struct {
	PC   int `cbor:"1,keyasint"`
	Line int `cbor:"2,keyasint"`
}

type wireMethod struct {
	Flags     uint16        `cbor:"1,keyasint"`
	Name      string        `cbor:"2,keyasint"`
	Desc      string        `cbor:"3,keyasint"`
	Code      []byte        `cbor:"4,keyasint,omitempty"`
	MaxStack  int           `cbor:"5,keyasint"`
	MaxLocals int           `cbor:"6,keyasint"`
	Pool      []wireConst   `cbor:"7,keyasint,omitempty"`
	Handlers  []wireHandler `cbor:"8,keyasint,omitempty"`
	Locals    []wireLocal   `cbor:"9,keyasint,omitempty"`
	Lines     []wireLine    `cbor:"10,keyasint,omitempty"`
}

// Marshal serializes a Unit to BASM container bytes.
func Marshal(u *Unit) ([]byte, error) {
	if u == nil {
		return nil, fmt.Errorf("bytecode: cannot marshal a nil unit")
	}
	w := wireContainer{
		Magic:   Magic,
		Version: FormatVersion,
		Unit:    wireUnit{ID: u.id.Bytes()},
	}
	switch {
	case u.class != nil:
		w.Unit.Class = &wireClass{
			Flags:      u.class.flags,
			Name:       u.class.name,
			Super:      u.class.super,
			Interfaces: u.class.interfaces,
		}
	case u.field != nil:
		f := &wireField{Flags: u.field.flags, Name: u.field.name, Desc: u.field.desc}
		if u.field.hasValue {
			f.Value = wireConstOf(u.field.value)
		}
		w.Unit.Field = f
	case u.method != nil:
		m := u.method
		wm := &wireMethod{
			Flags:     m.flags,
			Name:      m.name,
			Desc:      m.desc,
			Code:      m.code,
			MaxStack:  m.maxStack,
			MaxLocals: m.maxLocals,
		}
		for i := 0; i < m.pool.Count(); i++ {
			c, _ := m.pool.Entry(uint16(i))
			wm.Pool = append(wm.Pool, *wireConstOf(c))
		}
		for _, h := range m.handlers {
			wm.Handlers = append(wm.Handlers, wireHandler(h))
		}
		for _, l := range m.locals {
			wm.Locals = append(wm.Locals, wireLocal(l))
		}
		for _, e := range m.lines {
			wm.Lines = append(wm.Lines, wireLine(e))
		}
		w.Unit.Method = wm
	default:
		return nil, fmt.Errorf("bytecode: unit wraps no artifact")
	}
	return cborEncMode.Marshal(w)
}

// Unmarshal reads a Unit back from container bytes.
func Unmarshal(data []byte) (*Unit, error) {
	var w wireContainer
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal container: %w", err)
	}
	if w.Magic != Magic {
		return nil, fmt.Errorf("bytecode: not a BASM container (magic %q)", w.Magic)
	}
	if w.Version != FormatVersion {
		return nil, fmt.Errorf("bytecode: unsupported container version %d", w.Version)
	}
	id, err := uuid.FromBytes(w.Unit.ID)
	if err != nil {
		return nil, fmt.Errorf("bytecode: bad artifact id: %w", err)
	}

	switch {
	case w.Unit.Class != nil:
		c := w.Unit.Class
		return &Unit{id: id, class: NewClass(ClassParams{
			Flags:      c.Flags,
			Name:       c.Name,
			Super:      c.Super,
			Interfaces: c.Interfaces,
		})}, nil

	case w.Unit.Field != nil:
		f := w.Unit.Field
		var value *Const
		if f.Value != nil {
			v := constOf(*f.Value)
			value = &v
		}
		return &Unit{id: id, field: NewField(FieldParams{
			Flags: f.Flags,
			Name:  f.Name,
			Desc:  f.Desc,
			Value: value,
		})}, nil

	case w.Unit.Method != nil:
		wm := w.Unit.Method
		if len(wm.Pool) > math.MaxUint16+1 {
			return nil, fmt.Errorf("bytecode: container pool has %d entries", len(wm.Pool))
		}
		entries := make([]Const, 0, len(wm.Pool))
		for _, wc := range wm.Pool {
			entries = append(entries, constOf(wc))
		}
		handlers := make([]ExceptionHandler, 0, len(wm.Handlers))
		for _, h := range wm.Handlers {
			handlers = append(handlers, ExceptionHandler(h))
		}
		locals := make([]LocalVar, 0, len(wm.Locals))
		for _, l := range wm.Locals {
			locals = append(locals, LocalVar(l))
		}
		lines := make([]LineEntry, 0, len(wm.Lines))
		for _, e := range wm.Lines {
			lines = append(lines, LineEntry(e))
		}
		return &Unit{id: id, method: NewMethod(MethodParams{
			Flags:     wm.Flags,
			Name:      wm.Name,
			Desc:      wm.Desc,
			Code:      wm.Code,
			MaxStack:  wm.MaxStack,
			MaxLocals: wm.MaxLocals,
			Pool:      poolFromEntries(entries),
			Handlers:  handlers,
			Locals:    locals,
			Lines:     lines,
		})}, nil
	}
	return nil, fmt.Errorf("bytecode: container wraps no artifact")
}

func wireConstOf(c Const) *wireConst {
	return &wireConst{
		Kind:  uint8(c.Kind),
		Int:   c.Int,
		Bits:  math.Float64bits(c.Float),
		Str:   c.Str,
		Owner: c.Owner,
		Name:  c.Name,
		Desc:  c.Desc,
	}
}

func constOf(w wireConst) Const {
	return Const{
		Kind:  ConstKind(w.Kind),
		Int:   w.Int,
		Float: math.Float64frombits(w.Bits),
		Str:   w.Str,
		Owner: w.Owner,
		Name:  w.Name,
		Desc:  w.Desc,
	}
}

package ast

import "fmt"

// The operations in this file are the mutation surface of the tree. They are
// driven by an interactive editor and are not safe for concurrent use on the
// same Unit; callers serialize edits per unit.

// ReplaceDefinition swaps the unit's wrapped definition. The replacement
// must be non-nil; the unit is considered complete afterwards.
func (u *Unit) ReplaceDefinition(def Definition) error {
	if def == nil {
		return fmt.Errorf("replacement definition is nil")
	}
	u.def = def
	u.incomplete = false
	return nil
}

// Insert places an entry before index i in the stream. Inserting at Len()
// appends.
func (b *Body) Insert(i int, e BodyEntry) error {
	if i < 0 || i > len(b.entries) {
		return fmt.Errorf("insert index %d out of range [0, %d]", i, len(b.entries))
	}
	b.entries = append(b.entries, nil)
	copy(b.entries[i+1:], b.entries[i:])
	b.entries[i] = e
	return nil
}

// Remove deletes the entry at index i.
func (b *Body) Remove(i int) error {
	if i < 0 || i >= len(b.entries) {
		return fmt.Errorf("remove index %d out of range [0, %d)", i, len(b.entries))
	}
	b.entries = append(b.entries[:i], b.entries[i+1:]...)
	return nil
}

// Replace substitutes the entry at index i.
func (b *Body) Replace(i int, e BodyEntry) error {
	if i < 0 || i >= len(b.entries) {
		return fmt.Errorf("replace index %d out of range [0, %d)", i, len(b.entries))
	}
	b.entries[i] = e
	return nil
}

// RenameLabel renames a declared label and every reference to it: branch
// targets, switch targets, handler ranges, and variable live ranges. The
// old name must be declared and the new name must not collide with an
// existing declaration.
func (b *Body) RenameLabel(from, to string) error {
	if from == to {
		return nil
	}
	var declared, taken bool
	for _, e := range b.entries {
		if decl, ok := e.(*LabelDecl); ok {
			switch decl.Name() {
			case from:
				declared = true
			case to:
				taken = true
			}
		}
	}
	if !declared {
		return fmt.Errorf("label %%%s is not declared", from)
	}
	if taken {
		return fmt.Errorf("label %%%s is already declared", to)
	}
	for _, e := range b.entries {
		renameEntry(e, from, to)
	}
	for _, h := range b.handlers {
		h.from.rename(from, to)
		h.to.rename(from, to)
		h.handler.rename(from, to)
	}
	for _, v := range b.locals {
		v.from.rename(from, to)
		v.to.rename(from, to)
	}
	return nil
}

func renameEntry(e BodyEntry, from, to string) {
	switch n := e.(type) {
	case *LabelDecl:
		n.rename(from, to)
	case *BranchInst:
		n.target.rename(from, to)
	case *TableSwitchInst:
		for _, t := range n.targets {
			t.rename(from, to)
		}
		n.dflt.rename(from, to)
	case *LookupSwitchInst:
		for _, p := range n.pairs {
			p.Target.rename(from, to)
		}
		n.dflt.rename(from, to)
	}
}

package ast

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Unit:
		if n.def != nil {
			Walk(v, n.def)
		}
	case *FieldDef:
		if n.value != nil {
			Walk(v, n.value)
		}
	case *MethodDef:
		for _, h := range n.body.handlers {
			Walk(v, h)
		}
		for _, lv := range n.body.locals {
			Walk(v, lv)
		}
		for _, e := range n.body.entries {
			Walk(v, e)
		}
	case *CatchDirective:
		Walk(v, n.from)
		Walk(v, n.to)
		Walk(v, n.handler)
	case *VarDirective:
		Walk(v, n.from)
		Walk(v, n.to)
	case *ConstInst:
		Walk(v, n.lit)
	case *VarInst:
		Walk(v, n.local)
	case *IincInst:
		Walk(v, n.local)
	case *BranchInst:
		Walk(v, n.target)
	case *TableSwitchInst:
		for _, t := range n.targets {
			Walk(v, t)
		}
		Walk(v, n.dflt)
	case *LookupSwitchInst:
		for _, p := range n.pairs {
			Walk(v, p.Target)
		}
		Walk(v, n.dflt)
	case *TypeInst:
		Walk(v, n.typ)
	case *FieldInst:
		Walk(v, n.ref)
	case *MethodInst:
		Walk(v, n.ref)
	case *MultiArrayInst:
		Walk(v, n.typ)
	}
}

// Inspect traverses an AST in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect invokes f recursively for each of the
// non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

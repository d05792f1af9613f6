package compiler

import (
	"github.com/basm-lang/basm/errors"
	"github.com/basm-lang/basm/op"
	"github.com/basm-lang/basm/token"
)

// maxStack computes the operand stack high-water mark by propagating depths
// along every reachable path. Execution enters the first instruction at
// depth zero and every handler at depth one, the caught exception. Join
// points must agree: a forward edge arriving with a different depth than an
// earlier visit is an inconsistency. A back edge keeps the first-visit
// depth, which is what makes loop bodies converge in a single pass.
func (m *methodCompiler) maxStack() (int, error) {
	first := m.nextExec(0)
	if first < 0 {
		return 0, m.fail(errors.E3004, m.def.Pos(), "method body has no instructions")
	}

	depths := make([]int, len(m.items))
	for i := range depths {
		depths[i] = -1
	}
	max := 0
	var work []int

	merge := func(pos token.Position, from, to, depth int) error {
		if to < 0 {
			return m.fail(errors.E3004, pos, "execution falls off the end of the code")
		}
		if depths[to] < 0 {
			depths[to] = depth
			if depth > max {
				max = depth
			}
			work = append(work, to)
			return nil
		}
		if depths[to] == depth {
			return nil
		}
		if from >= 0 && to <= from {
			// Loop edge: the first visit owns the depth.
			return nil
		}
		return m.fail(errors.E3001, m.items[to].inst.Pos(),
			"stack depth at offset %d is %d along one path and %d along another",
			m.items[to].off, depths[to], depth)
	}

	if err := merge(m.def.Pos(), -1, first, 0); err != nil {
		return 0, err
	}
	for _, h := range m.def.Body().Handlers() {
		idx, ok := m.res.LabelIndex(h.Handler().Name())
		if !ok {
			return 0, m.fail(errors.E3003, h.Handler().Pos(),
				"label %%%s is not declared", h.Handler().Name())
		}
		if err := merge(h.Handler().Pos(), -1, m.nextExec(idx), 1); err != nil {
			return 0, err
		}
	}

	for len(work) > 0 {
		i := work[len(work)-1]
		work = work[:len(work)-1]
		it := m.items[i]
		d := depths[i]
		if d < it.pop {
			return 0, m.fail(errors.E3002, it.inst.Pos(),
				"%s pops %d but the stack depth is %d", it.code, it.pop, d)
		}
		after := d - it.pop + it.push
		if after > max {
			max = after
		}
		for _, name := range branchTargets(it) {
			idx, ok := m.res.LabelIndex(name)
			if !ok {
				return 0, m.fail(errors.E3003, it.inst.Pos(), "label %%%s is not declared", name)
			}
			if err := merge(it.inst.Pos(), i, m.nextExec(idx), after); err != nil {
				return 0, err
			}
		}
		if !op.EndsFlow(it.code) {
			if err := merge(it.inst.Pos(), i, m.nextExec(i+1), after); err != nil {
				return 0, err
			}
		}
	}
	return max, nil
}

// branchTargets lists the labels an item can transfer control to, not
// counting fall-through.
func branchTargets(it *item) []string {
	if it.target != "" {
		return []string{it.target}
	}
	if it.dflt != "" {
		out := make([]string, 0, len(it.targets)+1)
		out = append(out, it.targets...)
		return append(out, it.dflt)
	}
	return nil
}

// nextExec returns the index of the first instruction at or after item
// index from, or -1 when only labels and line markers remain.
func (m *methodCompiler) nextExec(from int) int {
	for i := from; i < len(m.items); i++ {
		if m.items[i].inst != nil {
			return i
		}
	}
	return -1
}

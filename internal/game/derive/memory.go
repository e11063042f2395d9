package derive

import "fmt"

// Bool evaluates an existence or status accessor against a loaded graph.
// Roots with no matching descendants answer false.
func Bool(spec Spec, root any) (bool, error) {
	if spec.Kind != KindExistence && spec.Kind != KindStatus {
		return false, fmt.Errorf("derive: %s is not a boolean accessor", spec.Name)
	}
	nodes, err := collect(spec, root)
	if err != nil {
		return false, err
	}
	return len(nodes) > 0, nil
}

// Count evaluates a count accessor against a loaded graph. Empty
// intermediate collections contribute zero.
func Count(spec Spec, root any) (int, error) {
	if spec.Kind != KindCount {
		return 0, fmt.Errorf("derive: %s is not a count accessor", spec.Name)
	}
	nodes, err := collect(spec, root)
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}

// Navigate evaluates a navigation accessor against a loaded graph. It
// returns nil when nothing matches; resolving that to a not-found error
// is the caller's call.
func Navigate(spec Spec, root any) (any, error) {
	if spec.Kind != KindNavigation {
		return nil, fmt.Errorf("derive: %s is not a navigation accessor", spec.Name)
	}
	nodes, err := collect(spec, root)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	terminal := terminalEntity(spec)
	info, ok := entities[terminal]
	if !ok {
		return nil, fmt.Errorf("derive: unknown entity %q", terminal)
	}

	switch spec.Select {
	case SelectFlagFirst:
		// Nodes are already in relationship order; duplicates resolve
		// to the first match.
		return nodes[0], nil
	case SelectLatestCreated:
		best := nodes[0]
		bestAt, ok := info.createdAt(best)
		if !ok {
			return nil, fmt.Errorf("derive: %s has no creation time", terminal)
		}
		for _, node := range nodes[1:] {
			at, ok := info.createdAt(node)
			if !ok {
				return nil, fmt.Errorf("derive: %s has no creation time", terminal)
			}
			// Strictly after, so ties keep the earliest in
			// relationship order.
			if at.After(bestAt) {
				best, bestAt = node, at
			}
		}
		return best, nil
	case SelectFirstSequence:
		if info.sequence == nil {
			return nil, fmt.Errorf("derive: %s has no sequence", terminal)
		}
		best := nodes[0]
		bestSeq, ok := info.sequence(best)
		if !ok {
			return nil, fmt.Errorf("derive: %s has no sequence", terminal)
		}
		for _, node := range nodes[1:] {
			seq, ok := info.sequence(node)
			if !ok {
				return nil, fmt.Errorf("derive: %s has no sequence", terminal)
			}
			if seq < bestSeq {
				best, bestSeq = node, seq
			}
		}
		return best, nil
	default:
		return nil, fmt.Errorf("derive: %s has no selection rule", spec.Name)
	}
}

// terminalEntity names the entity the filter and selection apply to: the
// last hop, or the root for zero-path status accessors.
func terminalEntity(spec Spec) Entity {
	if len(spec.Path) == 0 {
		return spec.Root
	}
	return spec.Path[len(spec.Path)-1].Entity
}

// collect walks the spec's path from the root and returns the terminal
// nodes that pass the filter, in relationship order.
func collect(spec Spec, root any) ([]any, error) {
	current := []any{root}
	from := spec.Root
	for _, hop := range spec.Path {
		rel, ok := relations[relKey{from, hop.Entity}]
		if !ok {
			return nil, fmt.Errorf("derive: no relation from %s to %s", from, hop.Entity)
		}
		var next []any
		for _, node := range current {
			next = append(next, rel.children(node)...)
		}
		current = next
		from = hop.Entity
	}

	if spec.Filter == nil {
		return current, nil
	}

	terminal := terminalEntity(spec)
	var matched []any
	for _, node := range current {
		ok, err := matches(terminal, node, *spec.Filter)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, node)
		}
	}
	return matched, nil
}

func matches(entity Entity, node any, cond Condition) (bool, error) {
	info, ok := entities[entity]
	if !ok {
		return false, fmt.Errorf("derive: unknown entity %q", entity)
	}
	fn, ok := info.fields[cond.Field]
	if !ok {
		return false, fmt.Errorf("derive: %s has no field %q", entity, cond.Field)
	}
	value, ok := fn(node)
	if !ok {
		return false, fmt.Errorf("derive: node is not a %s", entity)
	}

	switch cond.Op {
	case OpEq:
		return value == cond.Value, nil
	case OpNe:
		return value != cond.Value, nil
	case OpNotNull:
		return value != nil && value != "", nil
	default:
		return false, fmt.Errorf("derive: unsupported operator for %q", cond.Field)
	}
}

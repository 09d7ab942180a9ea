package model

// CollapseOverloads merges same-name method groups in which at least one
// declaration is marked @overload into a single member.
//
// Tie-break policy, pinned by tests: the concrete (non-overload)
// implementation wins when present; otherwise the first-declared stub
// signature is kept. This is a known simplification: the merged entry shows
// one call shape for a polymorphic method.
func CollapseOverloads(members []Member) []Member {
	overloaded := make(map[string]bool)
	for _, m := range members {
		if m.IsMethod && hasDecorator(m.Decorators, DecOverload) {
			overloaded[m.Name] = true
		}
	}
	if len(overloaded) == 0 {
		return members
	}

	chosen := make(map[string]int) // name -> index into out
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if !m.IsMethod || !overloaded[m.Name] {
			out = append(out, m)
			continue
		}
		idx, seen := chosen[m.Name]
		if !seen {
			chosen[m.Name] = len(out)
			out = append(out, m)
			continue
		}
		// A later concrete implementation replaces the stub that currently
		// holds the slot; later stubs are dropped.
		if !hasDecorator(m.Decorators, DecOverload) && hasDecorator(out[idx].Decorators, DecOverload) {
			out[idx] = m
		}
	}
	return out
}

package cart

import "onova-storefront/internal/domain"

// Command is a cart state transition. Apply never mutates its input and
// never fails: invalid arguments degrade to no-ops.
type Command interface {
	apply(State) State
}

// Apply runs one command against the state and returns the next state.
func Apply(s State, cmd Command) State {
	if cmd == nil {
		return s
	}
	return cmd.apply(s)
}

// AddItem merges the requested quantity into the line for the product,
// creating the line if needed. For an existing line the snapshot fields
// are not refreshed: first-seen values win until the line is removed.
type AddItem struct {
	Snapshot domain.ProductSnapshot
	Quantity int
}

func (c AddItem) apply(s State) State {
	if c.Quantity <= 0 || c.Snapshot.ProductID == "" {
		return s
	}
	lines := cloneLines(s.Lines)
	for i, line := range lines {
		if line.ProductID == c.Snapshot.ProductID {
			lines[i].Quantity = line.Quantity + c.Quantity
			return recompute(lines)
		}
	}
	return recompute(append(lines, newLine(c.Snapshot, c.Quantity)))
}

// RemoveItem deletes the line for the product; absent ids are a no-op.
type RemoveItem struct {
	ProductID string
}

func (c RemoveItem) apply(s State) State {
	lines := make([]Line, 0, len(s.Lines))
	found := false
	for _, line := range s.Lines {
		if line.ProductID == c.ProductID {
			found = true
			continue
		}
		lines = append(lines, line)
	}
	if !found {
		return s
	}
	return recompute(lines)
}

// SetQuantity replaces the quantity of an existing line. Zero or
// negative quantities remove the line; unknown ids are a no-op, the
// command never creates lines.
type SetQuantity struct {
	ProductID string
	Quantity  int
}

func (c SetQuantity) apply(s State) State {
	if c.Quantity <= 0 {
		return RemoveItem{ProductID: c.ProductID}.apply(s)
	}
	for i, line := range s.Lines {
		if line.ProductID == c.ProductID {
			lines := cloneLines(s.Lines)
			lines[i].Quantity = c.Quantity
			return recompute(lines)
		}
	}
	return s
}

// Clear resets the cart to its initial empty state.
type Clear struct{}

func (Clear) apply(State) State {
	return Empty()
}

// Load replaces the whole state from a restored snapshot. Totals are
// recomputed from the snapshot's lines; stored totals are advisory
// only. Lines that would violate the state invariants (non-positive
// quantity, duplicate product id) are dropped rather than restored.
type Load struct {
	Snapshot State
}

func (c Load) apply(State) State {
	lines := make([]Line, 0, len(c.Snapshot.Lines))
	seen := make(map[string]bool, len(c.Snapshot.Lines))
	for _, line := range c.Snapshot.Lines {
		if line.ProductID == "" || line.Quantity <= 0 || seen[line.ProductID] {
			continue
		}
		seen[line.ProductID] = true
		lines = append(lines, line)
	}
	return recompute(lines)
}

package core

// Goal holds the advisory daily and weekly spending limits. Both values
// are non-negative; they drive messaging only, never enforcement.
type Goal struct {
	Daily  float64 `json:"daily"`
	Weekly float64 `json:"weekly"`
}

// DefaultGoal is the goal applied when nothing has been persisted yet.
func DefaultGoal() Goal {
	return Goal{Daily: 100, Weekly: 700}
}

func (g Goal) Validate() error {
	if g.Daily < 0 || g.Weekly < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Budgets is a sparse mapping from category to a positive monthly limit.
// Absence of a key means no budget is configured for that category; a
// non-positive limit is never stored.
type Budgets map[Category]float64

// Set stores a limit for the category. Non-positive or non-finite limits
// and unknown categories are dropped, leaving the category unset.
func (b Budgets) Set(c Category, limit float64) bool {
	if !c.Valid() || !ValidAmount(limit) {
		return false
	}
	b[c] = limit
	return true
}

// Remove unsets the category's budget. Removing an absent key is a no-op.
func (b Budgets) Remove(c Category) {
	delete(b, c)
}

// Sanitized returns a copy with every non-positive or unknown entry
// removed. Used after decoding persisted budgets so the invariant holds
// even for hand-edited storage.
func (b Budgets) Sanitized() Budgets {
	out := make(Budgets, len(b))
	for c, limit := range b {
		if c.Valid() && ValidAmount(limit) {
			out[c] = limit
		}
	}
	return out
}

// Package insights derives presentation-ready views from a ledger
// snapshot: budget adherence for the current month, the per-day net-flow
// calendar heatmap, and the yearly monthly distribution. All builders
// recompute from the records they are given; only the selection toggles
// carry state, and that state is a UI concern.
package insights

// Selection is the single-choice toggle shared by the heatmap's day
// selection and the distribution's month selection. Toggling the
// currently selected key clears the selection; toggling any other key
// replaces it. The zero value is unselected.
type Selection[K comparable] struct {
	key    K
	active bool
}

// Toggle applies the select/reselect-clears transition and reports
// whether k is selected afterwards.
func (s *Selection[K]) Toggle(k K) bool {
	if s.active && s.key == k {
		s.active = false
		var zero K
		s.key = zero
		return false
	}
	s.key = k
	s.active = true
	return true
}

// Selected returns the current key, if any.
func (s *Selection[K]) Selected() (K, bool) {
	return s.key, s.active
}

// Clear resets the selection to unselected.
func (s *Selection[K]) Clear() {
	var zero K
	s.key = zero
	s.active = false
}

package engine

// SelectOutcome is the result of a selection mutation. Rejections are normal
// input feedback, not faults: the selection is unchanged and the UI surfaces
// a bad-combo signal.
type SelectOutcome uint8

const (
	SelectNoop SelectOutcome = iota
	// SelectReplaced: the selection was replaced by a new anchor.
	SelectReplaced
	// SelectExtended: the index was appended and the combo revalidated.
	SelectExtended
	// SelectRemoved: the index was toggled off.
	SelectRemoved
	// SelectExpanded: a bulk expansion became the new selection.
	SelectExpanded
	// SelectCleared: the selection was forced empty.
	SelectCleared
	// SelectCommit: re-selecting the sole member requested a commit.
	SelectCommit
	// SelectRejected: the input would have produced an illegal combo or an
	// uncommittable play; no state change.
	SelectRejected
)

func (o SelectOutcome) String() string {
	switch o {
	case SelectReplaced:
		return "replaced"
	case SelectExtended:
		return "extended"
	case SelectRemoved:
		return "removed"
	case SelectExpanded:
		return "expanded"
	case SelectCleared:
		return "cleared"
	case SelectCommit:
		return "commit"
	case SelectRejected:
		return "rejected"
	}
	return "noop"
}

// Selection is the ordered, duplicate-free set of hand indices the player has
// chosen, in click order. It is client-owned and ephemeral: reset on commit,
// on invalidating snapshot, or on explicit clear. Every successful mutation
// leaves the selection a valid combo shape.
type Selection struct {
	idxs []int
}

// Len returns the number of selected indices.
func (s *Selection) Len() int { return len(s.idxs) }

// IsEmpty reports whether nothing is selected.
func (s *Selection) IsEmpty() bool { return len(s.idxs) == 0 }

// Anchor returns the first-selected index, or -1 when empty.
func (s *Selection) Anchor() int {
	if len(s.idxs) == 0 {
		return -1
	}
	return s.idxs[0]
}

// Contains reports whether index i is selected.
func (s *Selection) Contains(i int) bool {
	for _, x := range s.idxs {
		if x == i {
			return true
		}
	}
	return false
}

// Indices returns a copy of the selected indices in click order.
func (s *Selection) Indices() []int {
	out := make([]int, len(s.idxs))
	copy(out, s.idxs)
	return out
}

// MaxIndex returns the largest selected index, or -1 when empty.
func (s *Selection) MaxIndex() int {
	max := -1
	for _, i := range s.idxs {
		if i > max {
			max = i
		}
	}
	return max
}

// Clear forces the selection empty unconditionally.
func (s *Selection) Clear() SelectOutcome {
	s.idxs = s.idxs[:0]
	return SelectCleared
}

// Select is the plain (non-augmenting) select: it replaces the selection with
// the singleton i, discarding any prior multi-selection. Re-selecting the sole
// selected index is a commit request, granted only when the selection
// currently passes CanCommit.
func (s *Selection) Select(r *Rules, hand Hand, mask Mask, i int) SelectOutcome {
	if i < 0 || i >= len(hand) {
		return SelectRejected
	}
	if len(s.idxs) == 1 && s.idxs[0] == i {
		if r.CanCommit(hand, s.idxs, mask) {
			return SelectCommit
		}
		return SelectRejected
	}
	s.idxs = append(s.idxs[:0], i)
	return SelectReplaced
}

// Toggle is the augmenting select: a selected index is removed (re-anchoring
// to the new first member, or shrinking to empty); an unselected index is
// tentatively appended and the whole sequence revalidated. Both directions
// keep the selection a valid combo shape: a failed append is rejected, and so
// is removing a member the remainder cannot stand without (the free-throw
// card carrying unlike ranks). A rejection leaves the selection untouched.
func (s *Selection) Toggle(r *Rules, hand Hand, i int) SelectOutcome {
	if i < 0 || i >= len(hand) {
		return SelectRejected
	}
	for pos, x := range s.idxs {
		if x == i {
			remainder := make([]int, 0, len(s.idxs)-1)
			remainder = append(remainder, s.idxs[:pos]...)
			remainder = append(remainder, s.idxs[pos+1:]...)
			if len(remainder) > 0 && !r.IsValidCombo(hand, remainder) {
				return SelectRejected
			}
			s.idxs = remainder
			return SelectRemoved
		}
	}
	candidate := append(s.Indices(), i)
	if !r.IsValidCombo(hand, candidate) {
		return SelectRejected
	}
	s.idxs = candidate
	return SelectExtended
}

// SelectRank replaces the selection with every hand index sharing i's rank,
// anchored at i.
func (s *Selection) SelectRank(r *Rules, hand Hand, i int) SelectOutcome {
	if i < 0 || i >= len(hand) {
		return SelectRejected
	}
	rank := hand[i].Rank()
	next := []int{i}
	for j, c := range hand {
		if j != i && c.Rank() == rank {
			next = append(next, j)
		}
	}
	s.idxs = next
	return SelectExpanded
}

// SelectFamily replaces the selection with every hand index whose rank belongs
// to i's combo family (same rank, or every rank sharing i's free-throw or
// penalty role), anchored at i. The expansion is a convenience, not a strict
// superset of stepwise toggling, so the result is itself validated before it
// becomes the new state.
func (s *Selection) SelectFamily(r *Rules, hand Hand, i int) SelectOutcome {
	if i < 0 || i >= len(hand) {
		return SelectRejected
	}
	family := r.FamilyRanks(hand[i].Rank())
	inFamily := func(rank uint8) bool {
		for _, f := range family {
			if f == rank {
				return true
			}
		}
		return false
	}
	next := []int{i}
	for j, c := range hand {
		if j != i && inFamily(c.Rank()) {
			next = append(next, j)
		}
	}
	if !r.IsValidCombo(hand, next) {
		return SelectRejected
	}
	s.idxs = next
	return SelectExpanded
}

// CycleNext moves a single-index cursor forward through the hand circularly,
// collapsing any multi-selection to the new singleton. No-op on an empty hand.
func (s *Selection) CycleNext(handLen int) SelectOutcome {
	return s.cycle(handLen, 1)
}

// CyclePrev moves the cursor backward. No-op on an empty hand.
func (s *Selection) CyclePrev(handLen int) SelectOutcome {
	return s.cycle(handLen, -1)
}

func (s *Selection) cycle(handLen, dir int) SelectOutcome {
	if handLen <= 0 {
		return SelectNoop
	}
	next := 0
	if dir < 0 {
		next = handLen - 1
	}
	if cur := s.Anchor(); cur >= 0 {
		next = ((cur+dir)%handLen + handLen) % handLen
	}
	s.idxs = append(s.idxs[:0], next)
	return SelectReplaced
}

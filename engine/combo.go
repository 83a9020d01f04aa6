package engine

// ComboKind classifies a set of hand indices as one of the legal combined-play
// shapes. Kinds are checked in a fixed order; the first match wins. The order
// matters: a selection mixing a free-throw card with other ranks must not be
// rejected merely because ranks differ.
type ComboKind uint8

const (
	ComboInvalid ComboKind = iota
	ComboSingle
	ComboSameRank
	ComboFreeThrow
	ComboPenaltyRun
)

func (k ComboKind) String() string {
	switch k {
	case ComboSingle:
		return "single"
	case ComboSameRank:
		return "same-rank"
	case ComboFreeThrow:
		return "free-throw"
	case ComboPenaltyRun:
		return "penalty-run"
	}
	return "invalid"
}

// ClassifyCombo decides which combo shape the indices form under this rule
// table. It is pure and deterministic: only card ranks are consulted, never
// turn state or playability. Out-of-range or duplicate indices are invalid.
func (r *Rules) ClassifyCombo(hand Hand, idxs []int) ComboKind {
	if len(idxs) == 0 || len(idxs) > len(hand) {
		return ComboInvalid
	}
	var seen Mask
	for _, i := range idxs {
		if i < 0 || i >= len(hand) || seen.Has(i) {
			return ComboInvalid
		}
		seen = seen.With(i)
	}
	if len(idxs) == 1 {
		return ComboSingle
	}

	// Same-rank stack.
	rank := hand[idxs[0]].Rank()
	same := true
	for _, i := range idxs[1:] {
		if hand[i].Rank() != rank {
			same = false
			break
		}
	}
	if same {
		return ComboSameRank
	}

	// Free-throw stack: at least one free-throw card carries the rest.
	for _, i := range idxs {
		if r.IsFreeThrow(hand[i].Rank()) {
			return ComboFreeThrow
		}
	}

	// Penalty run: exclusively stacking penalty ranks.
	for _, i := range idxs {
		if !r.IsPenalty(hand[i].Rank()) {
			return ComboInvalid
		}
	}
	return ComboPenaltyRun
}

// IsValidCombo reports whether the indices form a legal combined play.
// A single index is trivially valid.
func (r *Rules) IsValidCombo(hand Hand, idxs []int) bool {
	return r.ClassifyCombo(hand, idxs) != ComboInvalid
}

// CanCommit reports whether the selection is committable: it must be a valid
// combo AND at least one member must resolve to a card usable as the starter.
// Only the lead card of a combo is gated by the arbiter's mask; the remainder
// are validated purely by combo shape. For same-rank and penalty combos any
// member may lead; for free-throw combos the free-throw member must lead.
func (r *Rules) CanCommit(hand Hand, idxs []int, mask Mask) bool {
	return r.LeadIndex(hand, idxs, mask) >= 0
}

// LeadIndex returns the hand index the committed play should lead with, or -1
// when no member qualifies as a starter under the mask.
func (r *Rules) LeadIndex(hand Hand, idxs []int, mask Mask) int {
	switch r.ClassifyCombo(hand, idxs) {
	case ComboSingle, ComboSameRank, ComboPenaltyRun:
		for _, i := range idxs {
			if mask.Has(i) {
				return i
			}
		}
	case ComboFreeThrow:
		for _, i := range idxs {
			if r.IsFreeThrow(hand[i].Rank()) && mask.Has(i) {
				return i
			}
		}
	}
	return -1
}

// EligibleExtensions returns the set of unselected indices that would keep
// the selection a valid combo if appended. Advisory only: it drives UI
// highlighting and is recomputed on demand, never cached across hand
// mutations.
func (r *Rules) EligibleExtensions(hand Hand, selected []int) Mask {
	var out Mask
	if len(selected) == 0 {
		// Everything is a valid singleton.
		for i := range hand {
			out = out.With(i)
		}
		return out
	}
	if !r.IsValidCombo(hand, selected) {
		return 0
	}
	candidate := make([]int, len(selected)+1)
	copy(candidate, selected)
	var chosen Mask
	for _, i := range selected {
		chosen = chosen.With(i)
	}
	for i := range hand {
		if chosen.Has(i) {
			continue
		}
		candidate[len(selected)] = i
		if r.IsValidCombo(hand, candidate) {
			out = out.With(i)
		}
	}
	return out
}

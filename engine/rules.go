package engine

// Role classifies how a rank behaves when combined with other cards.
type Role uint8

const (
	// RolePlain ranks combine only with cards of the same rank.
	RolePlain Role = iota
	// RoleFreeThrow ranks are exempt from the lead-matching requirement and
	// may be combined with arbitrary other cards.
	RoleFreeThrow
	// RolePenalty ranks force the next player to draw and stack with the
	// other penalty ranks to escalate the forced-draw counter.
	RolePenalty
)

// Rules is the data-driven configuration of one house-rule variant.
// The combo validator is a single generic algorithm parameterized by this
// table; there is no per-variant branching anywhere else in the package.
type Rules struct {
	// Roles maps rank → combo role.
	Roles [NumRanks]Role
	// Wild marks ranks that require a suit override when led (any-suit cards).
	Wild [NumRanks]bool
	// PenaltyDraw is the forced-draw amount a penalty rank adds when played.
	// Zero for non-penalty ranks.
	PenaltyDraw [NumRanks]uint8
	// DeclareMin/DeclareMax bound the hand size window in which the player
	// may declare a near-empty hand.
	DeclareMin uint8
	DeclareMax uint8
}

// RoleOf returns the role of a rank; out-of-range ranks are plain.
func (r *Rules) RoleOf(rank uint8) Role {
	if rank >= NumRanks {
		return RolePlain
	}
	return r.Roles[rank]
}

// IsFreeThrow reports whether the rank is a free-throw rank.
func (r *Rules) IsFreeThrow(rank uint8) bool { return r.RoleOf(rank) == RoleFreeThrow }

// IsPenalty reports whether the rank is a stacking penalty rank.
func (r *Rules) IsPenalty(rank uint8) bool { return r.RoleOf(rank) == RolePenalty }

// IsWild reports whether the rank requires a suit override when led.
func (r *Rules) IsWild(rank uint8) bool {
	return rank < NumRanks && r.Wild[rank]
}

// FamilyRanks returns the ranks in the same combo family as rank: the rank
// alone for plain ranks, or every rank sharing the free-throw/penalty role.
func (r *Rules) FamilyRanks(rank uint8) []uint8 {
	if rank >= NumRanks {
		return nil
	}
	role := r.Roles[rank]
	if role == RolePlain {
		return []uint8{rank}
	}
	var out []uint8
	for rk := uint8(0); rk < NumRanks; rk++ {
		if r.Roles[rk] == role {
			out = append(out, rk)
		}
	}
	return out
}

// ClassicRules returns the plain eight-wild variant: every rank is plain
// (only same-rank stacking) and the Eight is the any-suit card.
func ClassicRules() Rules {
	var r Rules
	r.Wild[RankEight] = true
	r.DeclareMin = 2
	r.DeclareMax = 3
	return r
}

// ExtendedRules returns the Joker/Two/Ace variant: the Jack is a free throw,
// Twos (+2) and Jokers (+5) are stacking penalty cards, and Eights and Aces
// are any-suit cards.
func ExtendedRules() Rules {
	r := ClassicRules()
	r.Roles[RankJack] = RoleFreeThrow
	r.Roles[RankTwo] = RolePenalty
	r.Roles[RankJoker] = RolePenalty
	r.PenaltyDraw[RankTwo] = 2
	r.PenaltyDraw[RankJoker] = 5
	r.Wild[RankAce] = true
	return r
}

// RulesByName maps a variant name to its rule table.
func RulesByName(name string) (Rules, bool) {
	switch name {
	case "classic":
		return ClassicRules(), true
	case "extended":
		return ExtendedRules(), true
	}
	return Rules{}, false
}

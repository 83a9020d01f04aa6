package engine

import "testing"

// handOf builds a hand from card strings produced by Card.String, e.g. "9S".
func handOf(t *testing.T, cards ...string) Hand {
	t.Helper()
	h := make(Hand, 0, len(cards))
	for _, s := range cards {
		h = append(h, cardOf(t, s))
	}
	return h
}

func cardOf(t *testing.T, s string) Card {
	t.Helper()
	if len(s) != 2 {
		t.Fatalf("bad card literal %q", s)
	}
	rank, suit := uint8(0xFF), uint8(0xFF)
	for r := uint8(0); r < NumRanks; r++ {
		if rankNames[r] == s[:1] {
			rank = r
		}
	}
	for su := uint8(0); su < uint8(len(suitNames)); su++ {
		if suitNames[su] == s[1:] {
			suit = su
		}
	}
	if rank == 0xFF || suit == 0xFF {
		t.Fatalf("bad card literal %q", s)
	}
	return NewCard(suit, rank)
}

// ---------------------------------------------------------------------------
// ClassifyCombo / IsValidCombo
// ---------------------------------------------------------------------------

func TestSingleAlwaysValid(t *testing.T) {
	rules := []Rules{ClassicRules(), ExtendedRules()}
	hand := handOf(t, "3H", "8C", "JD", "OR", "2S")
	for _, r := range rules {
		for i := range hand {
			if got := r.ClassifyCombo(hand, []int{i}); got != ComboSingle {
				t.Errorf("index %d: expected single, got %s", i, got)
			}
		}
	}
}

func TestSameRankStackAnySize(t *testing.T) {
	r := ClassicRules()
	hand := handOf(t, "9S", "9H", "9D", "9C", "4H")
	cases := [][]int{{0, 1}, {0, 1, 2}, {3, 0, 2, 1}}
	for _, idxs := range cases {
		if got := r.ClassifyCombo(hand, idxs); got != ComboSameRank {
			t.Errorf("indices %v: expected same-rank, got %s", idxs, got)
		}
	}
	if r.IsValidCombo(hand, []int{0, 4}) {
		t.Error("mixed ranks without free-throw must be invalid under classic rules")
	}
}

func TestFreeThrowTakesPrecedenceOverRankMatching(t *testing.T) {
	r := ExtendedRules()
	hand := handOf(t, "JD", "4H", "9S")
	if got := r.ClassifyCombo(hand, []int{0, 1}); got != ComboFreeThrow {
		t.Errorf("jack+other: expected free-throw, got %s", got)
	}
	if got := r.ClassifyCombo(hand, []int{1, 0, 2}); got != ComboFreeThrow {
		t.Errorf("jack anywhere in the set: expected free-throw, got %s", got)
	}
}

func TestTwoJacksClassifyAsSameRank(t *testing.T) {
	// Same-rank is checked before free-throw; for an all-jack stack the
	// classification is same-rank, which widens the starter choice.
	r := ExtendedRules()
	hand := handOf(t, "JD", "JH")
	if got := r.ClassifyCombo(hand, []int{0, 1}); got != ComboSameRank {
		t.Errorf("expected same-rank, got %s", got)
	}
}

func TestPenaltyRun(t *testing.T) {
	r := ExtendedRules()
	hand := handOf(t, "OR", "2S", "2H", "OB", "7C")

	if got := r.ClassifyCombo(hand, []int{0, 1, 2, 3}); got != ComboPenaltyRun {
		t.Errorf("joker/two chain: expected penalty-run, got %s", got)
	}
	// Penalty rank mixed with a plain, non-matching, non-free-throw rank.
	if r.IsValidCombo(hand, []int{0, 4}) {
		t.Error("joker+seven must be invalid")
	}
	// Classic rules have no penalty roles at all.
	c := ClassicRules()
	if c.IsValidCombo(hand, []int{0, 1}) {
		t.Error("joker+two must be invalid under classic rules")
	}
}

func TestClassifyRejectsBadIndexSets(t *testing.T) {
	r := ExtendedRules()
	hand := handOf(t, "9S", "9H")
	cases := [][]int{
		nil,
		{},
		{-1},
		{2},
		{0, 0},
		{0, 1, 1},
	}
	for _, idxs := range cases {
		if r.IsValidCombo(hand, idxs) {
			t.Errorf("indices %v must be invalid", idxs)
		}
	}
}

// ---------------------------------------------------------------------------
// CanCommit / LeadIndex
// ---------------------------------------------------------------------------

func TestCanCommitRequiresStarterInMask(t *testing.T) {
	r := ExtendedRules()
	hand := handOf(t, "9S", "9H", "9D")

	if r.CanCommit(hand, []int{0, 1}, 0) {
		t.Error("valid combo with empty mask must not be committable")
	}
	if !r.CanCommit(hand, []int{0, 1}, MaskOf(1)) {
		t.Error("same-rank stack with any member masked must be committable")
	}
	if got := r.LeadIndex(hand, []int{0, 1}, MaskOf(1)); got != 1 {
		t.Errorf("expected lead 1, got %d", got)
	}
}

func TestCanCommitFreeThrowNeedsFreeThrowStarter(t *testing.T) {
	r := ExtendedRules()
	hand := handOf(t, "JD", "4H")

	// The plain member being masked is not enough: only the free-throw card
	// is exempt from the lead-matching rule.
	if r.CanCommit(hand, []int{0, 1}, MaskOf(1)) {
		t.Error("free-throw combo must lead with the free-throw card")
	}
	if !r.CanCommit(hand, []int{1, 0}, MaskOf(0)) {
		t.Error("masked jack must make the combo committable regardless of click order")
	}
	if got := r.LeadIndex(hand, []int{1, 0}, MaskOf(0, 1)); got != 0 {
		t.Errorf("expected the jack (0) to lead, got %d", got)
	}
}

func TestCanCommitPenaltyRunAnyMemberLeads(t *testing.T) {
	r := ExtendedRules()
	hand := handOf(t, "OR", "2S")
	if !r.CanCommit(hand, []int{0, 1}, MaskOf(1)) {
		t.Error("penalty run with a masked member must be committable")
	}
	if got := r.LeadIndex(hand, []int{0, 1}, MaskOf(1)); got != 1 {
		t.Errorf("expected lead 1, got %d", got)
	}
}

func TestCanCommitSingle(t *testing.T) {
	r := ClassicRules()
	hand := handOf(t, "8H", "3C")
	if !r.CanCommit(hand, []int{0}, MaskOf(0)) {
		t.Error("masked single must be committable")
	}
	if r.CanCommit(hand, []int{1}, MaskOf(0)) {
		t.Error("unmasked single must not be committable")
	}
}

// ---------------------------------------------------------------------------
// EligibleExtensions
// ---------------------------------------------------------------------------

func TestEligibleExtensionsEmptySelection(t *testing.T) {
	r := ClassicRules()
	hand := handOf(t, "9S", "4H", "JD")
	got := r.EligibleExtensions(hand, nil)
	if got != MaskOf(0, 1, 2) {
		t.Errorf("every card extends an empty selection, got %v", got.Indices())
	}
}

func TestEligibleExtensionsSameRank(t *testing.T) {
	r := ClassicRules()
	hand := handOf(t, "9S", "9H", "4D", "9C")
	got := r.EligibleExtensions(hand, []int{0})
	if got != MaskOf(1, 3) {
		t.Errorf("expected {1,3}, got %v", got.Indices())
	}
}

func TestEligibleExtensionsFreeThrowOpensHand(t *testing.T) {
	r := ExtendedRules()
	hand := handOf(t, "JD", "4H", "9S", "2C")
	got := r.EligibleExtensions(hand, []int{0})
	if got != MaskOf(1, 2, 3) {
		t.Errorf("a selected jack admits every other card, got %v", got.Indices())
	}
}

func TestEligibleExtensionsInvalidBaseIsEmpty(t *testing.T) {
	r := ClassicRules()
	hand := handOf(t, "9S", "4H", "7D")
	if got := r.EligibleExtensions(hand, []int{0, 1}); got != 0 {
		t.Errorf("invalid selection has no extensions, got %v", got.Indices())
	}
}

// ---------------------------------------------------------------------------
// Rule table
// ---------------------------------------------------------------------------

func TestFamilyRanks(t *testing.T) {
	r := ExtendedRules()

	fam := r.FamilyRanks(RankNine)
	if len(fam) != 1 || fam[0] != RankNine {
		t.Errorf("plain family is the rank itself, got %v", fam)
	}
	fam = r.FamilyRanks(RankTwo)
	if len(fam) != 2 || fam[0] != RankTwo || fam[1] != RankJoker {
		t.Errorf("penalty family is {2, joker}, got %v", fam)
	}
	fam = r.FamilyRanks(RankJack)
	if len(fam) != 1 || fam[0] != RankJack {
		t.Errorf("free-throw family under extended rules is the jack alone, got %v", fam)
	}
}

func TestRulesByName(t *testing.T) {
	if _, ok := RulesByName("classic"); !ok {
		t.Error("classic variant must resolve")
	}
	if _, ok := RulesByName("extended"); !ok {
		t.Error("extended variant must resolve")
	}
	if _, ok := RulesByName("tournament"); ok {
		t.Error("unknown variant must not resolve")
	}
}

func TestPenaltyDrawAmounts(t *testing.T) {
	r := ExtendedRules()
	if r.PenaltyDraw[RankTwo] != 2 || r.PenaltyDraw[RankJoker] != 5 {
		t.Errorf("unexpected penalty draw table: 2→%d joker→%d",
			r.PenaltyDraw[RankTwo], r.PenaltyDraw[RankJoker])
	}
	if r.PenaltyDraw[RankNine] != 0 {
		t.Error("plain ranks carry no penalty draw")
	}
}

// Package engine implements the client-side legality and selection engine
// for the Last-Card shedding game.
//
// The package is pure: it predicts which cards and card groups are legal to
// play under a configured rule variant, and manages an evolving multi-card
// selection. It never adjudicates a play; the remote arbiter re-derives
// legality for every committed intent regardless of local prediction.
package engine

// Suit constants packed into upper 4 bits of Card.
const (
	SuitHearts     uint8 = 0
	SuitDiamonds   uint8 = 1
	SuitClubs      uint8 = 2
	SuitSpades     uint8 = 3
	SuitRedJoker   uint8 = 4
	SuitBlackJoker uint8 = 5

	// SuitNone marks the absence of a suit (no active override, unresolved wild).
	SuitNone uint8 = 0x0F
)

// Rank constants packed into lower 4 bits of Card.
const (
	RankAce   uint8 = 0
	RankTwo   uint8 = 1
	RankThree uint8 = 2
	RankFour  uint8 = 3
	RankFive  uint8 = 4
	RankSix   uint8 = 5
	RankSeven uint8 = 6
	RankEight uint8 = 7
	RankNine  uint8 = 8
	RankTen   uint8 = 9
	RankJack  uint8 = 10
	RankQueen uint8 = 11
	RankKing  uint8 = 12
	RankJoker uint8 = 13

	NumRanks = 14
)

// Card is a packed uint8: upper 4 bits = suit, lower 4 bits = rank.
// A Joker carries one of the joker pseudo-suits (red/black); every other
// rank carries a natural suit.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NewCard constructs a Card from suit and rank.
func NewCard(suit, rank uint8) Card {
	return Card((suit << 4) | (rank & 0x0F))
}

// Suit returns the suit bits (upper 4).
func (c Card) Suit() uint8 { return uint8(c) >> 4 }

// Rank returns the rank bits (lower 4).
func (c Card) Rank() uint8 { return uint8(c) & 0x0F }

// IsJoker reports whether the card is a joker of either color.
func (c Card) IsJoker() bool { return c.Rank() == RankJoker }

var rankNames = [NumRanks]string{
	"A", "2", "3", "4", "5", "6", "7", "8", "9", "T", "J", "Q", "K", "O",
}

var suitNames = [6]string{"H", "D", "C", "S", "R", "B"}

// String renders the card as rank+suit, e.g. "9S", "JH", "OR" (red joker).
func (c Card) String() string {
	if c == EmptyCard {
		return "--"
	}
	r, s := c.Rank(), c.Suit()
	if r >= NumRanks || s >= uint8(len(suitNames)) {
		return "??"
	}
	return rankNames[r] + suitNames[s]
}

// Hand is the client's read-only mirror of the local player's cards.
// Order is assigned by the arbiter; indices are positional and NOT stable
// across snapshots. The mirror is replaced wholesale on every snapshot.
type Hand []Card

// MaxHandSize bounds the mirror so hand indices fit a Mask.
const MaxHandSize = 64

// Mask is a set of hand indices, one bit per index. The arbiter issues a mask
// of indices legal as combo starters; it is valid only against the hand
// revision it was issued with.
type Mask uint64

// Has reports whether index i is in the mask.
func (m Mask) Has(i int) bool {
	if i < 0 || i >= MaxHandSize {
		return false
	}
	return m&(1<<uint(i)) != 0
}

// With returns the mask with index i added.
func (m Mask) With(i int) Mask {
	if i < 0 || i >= MaxHandSize {
		return m
	}
	return m | 1<<uint(i)
}

// Count returns the number of indices in the mask.
func (m Mask) Count() int {
	n := 0
	for m != 0 {
		m &= m - 1
		n++
	}
	return n
}

// Indices returns the mask's indices in ascending order (allocates).
func (m Mask) Indices() []int {
	var out []int
	for i := 0; i < MaxHandSize && m != 0; i++ {
		if m&1 != 0 {
			out = append(out, i)
		}
		m >>= 1
	}
	return out
}

// MaskOf builds a mask from explicit indices. Out-of-range indices are dropped.
func MaskOf(idxs ...int) Mask {
	var m Mask
	for _, i := range idxs {
		m = m.With(i)
	}
	return m
}

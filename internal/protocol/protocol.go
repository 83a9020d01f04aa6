// Package protocol defines the wire types exchanged with the remote arbiter.
//
// The arbiter pushes whole-state snapshots, never diffs; the client answers
// with play intents. Rejections carry only a human-readable reason; there is
// no structured error code, and every rejection is treated identically.
package protocol

import (
	"fmt"

	"lastcard/engine"
)

// EventType identifies a server-pushed event.
type EventType string

const (
	// EventSnapshot carries a full authoritative state snapshot.
	EventSnapshot EventType = "snapshot"
	// EventRejected reports that a previously committed intent was refused.
	EventRejected EventType = "play_rejected"
	// EventGameOver announces the end of the round.
	EventGameOver EventType = "game_over"
)

// ServerEvent is the envelope for everything the arbiter pushes.
type ServerEvent struct {
	Type     EventType `json:"type"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	// Reason is the verbatim human-readable rejection reason.
	Reason string `json:"reason,omitempty"`
	// IntentID echoes the rejected intent's correlation ID when known.
	IntentID string `json:"intentId,omitempty"`
	// Winner names the winning player on game over.
	Winner string `json:"winner,omitempty"`
}

// WireCard is a card in transit. Suit is omitted for unresolved jokers.
type WireCard struct {
	Rank string `json:"rank"`
	Suit string `json:"suit,omitempty"`
}

// PlayerState is one player's public state. Hand, Playable and Declared are
// populated only for the receiving player; everyone else is a count.
type PlayerState struct {
	ID       string     `json:"id"`
	Name     string     `json:"name,omitempty"`
	HandSize int        `json:"handSize"`
	Declared bool       `json:"declared,omitempty"`
	Hand     []WireCard `json:"hand,omitempty"`
	Playable []int      `json:"playable,omitempty"`
}

// Snapshot is the whole-state push the arbiter sends after every action.
type Snapshot struct {
	Revision      uint64        `json:"revision"`
	CurrentPlayer string        `json:"currentPlayer"`
	PendingDraw   int           `json:"pendingDraw"`
	DiscardTop    *WireCard     `json:"discardTop,omitempty"`
	ActiveSuit    string        `json:"activeSuit,omitempty"`
	Players       []PlayerState `json:"players"`
}

// Self returns the receiving player's entry, or nil when absent.
func (s *Snapshot) Self(playerID string) *PlayerState {
	for i := range s.Players {
		if s.Players[i].ID == playerID {
			return &s.Players[i]
		}
	}
	return nil
}

// IntentType identifies a client intent.
type IntentType string

const (
	// IntentPlay commits a single-card play.
	IntentPlay IntentType = "play"
	// IntentPlayCombo commits a multi-card combined play, lead card first.
	IntentPlayCombo IntentType = "play_combo"
	// IntentDraw draws from the stock; it also settles any pending forced
	// draw. The fallback action when nothing in hand is playable.
	IntentDraw IntentType = "draw_card"
	// IntentDeclare declares a near-empty hand.
	IntentDeclare IntentType = "declare_last_cards"
)

// Intent is a petition to the arbiter. It is purely advisory: the arbiter
// re-derives legality and may reject any intent.
type Intent struct {
	ID      string     `json:"id"`
	Type    IntentType `json:"type"`
	Index   *int       `json:"index,omitempty"`
	Indices []int      `json:"indices,omitempty"`
	// Suit is the suit override, present exactly when the lead card's rank
	// is an arbiter-designated any-suit rank.
	Suit string `json:"suit,omitempty"`
}

// ---------------------------------------------------------------------------
// Card codec
// ---------------------------------------------------------------------------

var rankCodes = map[string]uint8{
	"A": engine.RankAce, "2": engine.RankTwo, "3": engine.RankThree,
	"4": engine.RankFour, "5": engine.RankFive, "6": engine.RankSix,
	"7": engine.RankSeven, "8": engine.RankEight, "9": engine.RankNine,
	"T": engine.RankTen, "J": engine.RankJack, "Q": engine.RankQueen,
	"K": engine.RankKing, "O": engine.RankJoker,
}

var suitCodes = map[string]uint8{
	"H": engine.SuitHearts, "D": engine.SuitDiamonds,
	"C": engine.SuitClubs, "S": engine.SuitSpades,
	"R": engine.SuitRedJoker, "B": engine.SuitBlackJoker,
}

var rankStrings = map[uint8]string{}
var suitStrings = map[uint8]string{}

func init() {
	for s, r := range rankCodes {
		rankStrings[r] = s
	}
	for s, su := range suitCodes {
		suitStrings[su] = s
	}
}

// ParseSuit converts a wire suit code to an engine suit.
func ParseSuit(s string) (uint8, error) {
	if su, ok := suitCodes[s]; ok {
		return su, nil
	}
	return engine.SuitNone, fmt.Errorf("unknown suit %q", s)
}

// SuitString converts an engine suit to its wire code, empty for SuitNone.
func SuitString(suit uint8) string {
	return suitStrings[suit]
}

// Card converts the wire form to an engine card.
func (w WireCard) Card() (engine.Card, error) {
	rank, ok := rankCodes[w.Rank]
	if !ok {
		return engine.EmptyCard, fmt.Errorf("unknown rank %q", w.Rank)
	}
	if w.Suit == "" {
		if rank == engine.RankJoker {
			// Unresolved joker: default to the red joker pseudo-suit.
			return engine.NewCard(engine.SuitRedJoker, rank), nil
		}
		return engine.EmptyCard, fmt.Errorf("missing suit for rank %q", w.Rank)
	}
	suit, err := ParseSuit(w.Suit)
	if err != nil {
		return engine.EmptyCard, err
	}
	return engine.NewCard(suit, rank), nil
}

// CardToWire converts an engine card to its wire form.
func CardToWire(c engine.Card) WireCard {
	return WireCard{Rank: rankStrings[c.Rank()], Suit: suitStrings[c.Suit()]}
}

// DecodeHand converts a wire hand to an engine hand, rejecting oversize or
// malformed hands outright.
func DecodeHand(cards []WireCard) (engine.Hand, error) {
	if len(cards) > engine.MaxHandSize {
		return nil, fmt.Errorf("hand size %d exceeds limit %d", len(cards), engine.MaxHandSize)
	}
	hand := make(engine.Hand, 0, len(cards))
	for i, w := range cards {
		c, err := w.Card()
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
		hand = append(hand, c)
	}
	return hand, nil
}

// DecodeMask converts playable starter indices to an engine mask. Indices
// outside the hand are rejected: the mask is only meaningful against the hand
// revision it shipped with.
func DecodeMask(playable []int, handLen int) (engine.Mask, error) {
	var m engine.Mask
	for _, i := range playable {
		if i < 0 || i >= handLen {
			return 0, fmt.Errorf("playable index %d out of range for hand of %d", i, handLen)
		}
		m = m.With(i)
	}
	return m, nil
}

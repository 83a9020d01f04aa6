// Package session owns the client's mutable game state: the hand mirror, the
// playability mask, the turn state, and the in-progress selection. It
// reconciles all of it against every authoritative snapshot.
//
// There are no ambient globals: a Session is an explicit context created by
// the top-level client process and threaded through the validator, the
// selection machine, and the synchronizer. All mutation happens on the
// single goroutine running Loop.Run.
package session

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lastcard/engine"
	"lastcard/internal/protocol"
)

// Local pre-validation sentinel errors. These never reach the network: the
// causing input is refused immediately and the session state is unchanged.
// They are recoverable feedback, not faults.
var (
	ErrNotYourTurn     = errors.New("not your turn")
	ErrEmptySelection  = errors.New("nothing selected")
	ErrBadCombo        = errors.New("selected cards do not form a playable combo")
	ErrNoStarter       = errors.New("no selected card may start a play right now")
	ErrSuitRequired    = errors.New("a suit must be chosen for this play")
	ErrSuitNotAllowed  = errors.New("this play does not take a suit override")
	ErrDeclareWindow   = errors.New("hand size is outside the declare window")
	ErrAlreadyDeclared = errors.New("near-empty hand already declared")
	ErrGameOver        = errors.New("the round is over")
)

// FeedbackKind classifies advisory feedback surfaced to the UI layer.
type FeedbackKind uint8

const (
	// FeedbackBadCombo: a selection input was refused locally.
	FeedbackBadCombo FeedbackKind = iota
	// FeedbackLocalReject: a commit or declare failed local pre-validation.
	FeedbackLocalReject
	// FeedbackArbiterReject: the arbiter refused a committed intent.
	FeedbackArbiterReject
	// FeedbackState: the authoritative state changed.
	FeedbackState
	// FeedbackGameOver: the round ended.
	FeedbackGameOver
)

// Feedback is a UI-facing notification. Arbiter rejection reasons are carried
// verbatim.
type Feedback struct {
	Kind    FeedbackKind
	Message string
}

// TurnState mirrors the arbiter's turn bookkeeping.
type TurnState struct {
	CurrentPlayer string
	PendingDraw   int
}

// Session is the per-client game context. It is not safe for concurrent use;
// Loop serializes access.
type Session struct {
	log   logrus.FieldLogger
	rules engine.Rules

	selfID string

	hand       engine.Hand
	mask       engine.Mask
	turn       TurnState
	discardTop engine.Card
	activeSuit uint8
	revision   uint64
	gameOver   bool

	sel engine.Selection
	// selHandSize is the hand length the current selection was formed
	// against; a snapshot reporting a different size invalidates every
	// selected index (position is not a stable identity across revisions).
	selHandSize int

	declared bool

	// Send hands a locally validated intent to the transport. A send error
	// aborts the commit and the selection survives.
	Send func(protocol.Intent) error
	// Notify surfaces advisory feedback; nil-safe.
	Notify func(Feedback)
}

// New creates a session for the given local player identity and rule variant.
func New(log logrus.FieldLogger, rules engine.Rules, selfID string) *Session {
	return &Session{
		log:        log.WithField("component", "session"),
		rules:      rules,
		selfID:     selfID,
		discardTop: engine.EmptyCard,
		activeSuit: engine.SuitNone,
	}
}

// SelfID returns the local player identity.
func (s *Session) SelfID() string { return s.selfID }

// Hand returns the current hand mirror. The slice is owned by the session.
func (s *Session) Hand() engine.Hand { return s.hand }

// Mask returns the current arbiter-issued starter mask.
func (s *Session) Mask() engine.Mask { return s.mask }

// Turn returns the mirrored turn state.
func (s *Session) Turn() TurnState { return s.turn }

// Revision returns the count of applied snapshots.
func (s *Session) Revision() uint64 { return s.revision }

// Declared reports whether a near-empty declaration is in effect for the
// current hand revision.
func (s *Session) Declared() bool { return s.declared }

// DiscardTop returns the mirrored discard summary.
func (s *Session) DiscardTop() engine.Card { return s.discardTop }

// ActiveSuit returns the suit override in effect, or engine.SuitNone.
func (s *Session) ActiveSuit() uint8 { return s.activeSuit }

// Selection returns the selected indices in click order.
func (s *Session) Selection() []int { return s.sel.Indices() }

// IsMyTurn reports whether commit affordances are enabled. Regaining the turn
// does not re-validate the surviving selection; the arbiter remains the
// final check.
func (s *Session) IsMyTurn() bool {
	return !s.gameOver && s.turn.CurrentPlayer == s.selfID
}

// EligibleExtensions returns the advisory extension set for the current
// selection against the current hand. Computed on demand, never cached.
func (s *Session) EligibleExtensions() engine.Mask {
	return s.rules.EligibleExtensions(s.hand, s.sel.Indices())
}

func (s *Session) notify(kind FeedbackKind, msg string) {
	if s.Notify != nil {
		s.Notify(Feedback{Kind: kind, Message: msg})
	}
}

// ---------------------------------------------------------------------------
// Synchronizer: authoritative events
// ---------------------------------------------------------------------------

// ApplySnapshot replaces the hand mirror, mask, turn state and discard
// summary wholesale, then reconciles the selection: stale indices are unsafe
// to reinterpret against a new hand, so a changed hand size or an
// out-of-range reference clears the selection unconditionally. A same-size
// hand re-validates the surviving selection as a whole. Turn loss leaves the
// selection intact; only commit affordances are gated.
func (s *Session) ApplySnapshot(snap *protocol.Snapshot) {
	self := snap.Self(s.selfID)
	if self == nil {
		s.log.WithField("revision", snap.Revision).Warn("snapshot omits local player; ignored")
		return
	}
	hand, err := protocol.DecodeHand(self.Hand)
	if err != nil {
		s.log.WithError(err).Warn("undecodable snapshot hand; ignored")
		return
	}
	mask, err := protocol.DecodeMask(self.Playable, len(hand))
	if err != nil {
		s.log.WithError(err).Warn("snapshot mask does not fit hand; ignored")
		return
	}

	s.hand = hand
	s.mask = mask
	s.turn = TurnState{CurrentPlayer: snap.CurrentPlayer, PendingDraw: snap.PendingDraw}
	s.declared = self.Declared
	s.revision++

	s.discardTop = engine.EmptyCard
	if snap.DiscardTop != nil {
		if top, err := snap.DiscardTop.Card(); err == nil {
			s.discardTop = top
		}
	}
	s.activeSuit = engine.SuitNone
	if snap.ActiveSuit != "" {
		if suit, err := protocol.ParseSuit(snap.ActiveSuit); err == nil {
			s.activeSuit = suit
		}
	}

	s.reconcileSelection()
	s.notify(FeedbackState, "")
}

// reconcileSelection trims or discards a selection invalidated by the new
// hand revision. Expected churn under concurrent play, never surfaced as an
// error.
func (s *Session) reconcileSelection() {
	if s.sel.IsEmpty() {
		return
	}
	if len(s.hand) != s.selHandSize || s.sel.MaxIndex() >= len(s.hand) {
		s.sel.Clear()
		s.log.WithField("revision", s.revision).Debug("selection cleared: hand revision changed")
		return
	}
	if !s.rules.IsValidCombo(s.hand, s.sel.Indices()) {
		s.sel.Clear()
		s.log.WithField("revision", s.revision).Debug("selection cleared: combo invalid against new hand")
	}
}

// ApplyRejection handles an arbiter-side rejection of a committed intent:
// clear the selection, surface the reason verbatim, never retry.
func (s *Session) ApplyRejection(reason string) {
	s.sel.Clear()
	s.log.WithField("reason", reason).Info("arbiter rejected intent")
	s.notify(FeedbackArbiterReject, reason)
}

// ApplyGameOver marks the round finished; no further intents are accepted.
func (s *Session) ApplyGameOver(winner string) {
	s.gameOver = true
	s.sel.Clear()
	s.notify(FeedbackGameOver, winner)
}

// ---------------------------------------------------------------------------
// Selection inputs
// ---------------------------------------------------------------------------

// markFormed records the hand size the selection now refers to.
func (s *Session) markFormed() {
	s.selHandSize = len(s.hand)
}

// HandleSelect processes the plain select. A commit request from re-clicking
// the sole member is forwarded to Commit with no suit override; wild leads
// report ErrSuitRequired and the UI retries via an explicit Commit input.
func (s *Session) HandleSelect(i int) {
	switch s.sel.Select(&s.rules, s.hand, s.mask, i) {
	case engine.SelectCommit:
		if err := s.Commit(""); err != nil {
			s.notify(FeedbackLocalReject, err.Error())
		}
	case engine.SelectRejected:
		s.notify(FeedbackBadCombo, ErrBadCombo.Error())
	default:
		s.markFormed()
	}
}

// HandleToggle processes the augmenting select.
func (s *Session) HandleToggle(i int) {
	if s.sel.Toggle(&s.rules, s.hand, i) == engine.SelectRejected {
		s.notify(FeedbackBadCombo, ErrBadCombo.Error())
		return
	}
	s.markFormed()
}

// HandleSelectRank processes the bulk same-rank select.
func (s *Session) HandleSelectRank(i int) {
	if s.sel.SelectRank(&s.rules, s.hand, i) == engine.SelectRejected {
		s.notify(FeedbackBadCombo, ErrBadCombo.Error())
		return
	}
	s.markFormed()
}

// HandleSelectFamily processes the bulk themed-combo select.
func (s *Session) HandleSelectFamily(i int) {
	if s.sel.SelectFamily(&s.rules, s.hand, i) == engine.SelectRejected {
		s.notify(FeedbackBadCombo, ErrBadCombo.Error())
		return
	}
	s.markFormed()
}

// HandleCycle moves the selection cursor through the hand.
func (s *Session) HandleCycle(forward bool) {
	if forward {
		s.sel.CycleNext(len(s.hand))
	} else {
		s.sel.CyclePrev(len(s.hand))
	}
	s.markFormed()
}

// HandleClear empties the selection.
func (s *Session) HandleClear() {
	s.sel.Clear()
}

// ---------------------------------------------------------------------------
// Commit / declare
// ---------------------------------------------------------------------------

// Commit validates the selection one last time and hands the intent to the
// transport. The commit is optimistic: the arbiter re-derives legality and a
// later authoritative correction always wins over this prediction. The
// selection is destroyed only after a successful handoff.
func (s *Session) Commit(suit string) error {
	if s.gameOver {
		return ErrGameOver
	}
	if !s.IsMyTurn() {
		return ErrNotYourTurn
	}
	idxs := s.sel.Indices()
	if len(idxs) == 0 {
		return ErrEmptySelection
	}
	if !s.rules.IsValidCombo(s.hand, idxs) {
		return ErrBadCombo
	}
	lead := s.rules.LeadIndex(s.hand, idxs, s.mask)
	if lead < 0 {
		return ErrNoStarter
	}

	wild := s.rules.IsWild(s.hand[lead].Rank())
	if wild && suit == "" {
		return ErrSuitRequired
	}
	if !wild && suit != "" {
		return ErrSuitNotAllowed
	}
	if suit != "" {
		if _, err := protocol.ParseSuit(suit); err != nil {
			return err
		}
	}

	intent := protocol.Intent{ID: uuid.NewString(), Suit: suit}
	if len(idxs) == 1 {
		intent.Type = protocol.IntentPlay
		intent.Index = &idxs[0]
	} else {
		intent.Type = protocol.IntentPlayCombo
		intent.Indices = orderLeadFirst(idxs, lead)
	}

	if err := s.Send(intent); err != nil {
		// No commit happened; keep the selection for a manual retry.
		s.log.WithError(err).Warn("intent send failed")
		return err
	}
	s.log.WithFields(logrus.Fields{
		"intent": intent.Type,
		"lead":   lead,
		"cards":  len(idxs),
	}).Info("committed play")
	s.sel.Clear()
	return nil
}

// orderLeadFirst returns idxs with lead moved to the front, preserving the
// click order of the remainder.
func orderLeadFirst(idxs []int, lead int) []int {
	out := make([]int, 0, len(idxs))
	out = append(out, lead)
	for _, i := range idxs {
		if i != lead {
			out = append(out, i)
		}
	}
	return out
}

// Draw asks the arbiter for a card from the stock. Always available on the
// player's turn, whether or not anything in hand is playable; a pending
// forced draw is settled by the same intent. The selection is left alone:
// the grown hand on the next snapshot invalidates it anyway.
func (s *Session) Draw() error {
	if s.gameOver {
		return ErrGameOver
	}
	if !s.IsMyTurn() {
		return ErrNotYourTurn
	}
	intent := protocol.Intent{ID: uuid.NewString(), Type: protocol.IntentDraw}
	if err := s.Send(intent); err != nil {
		s.log.WithError(err).Warn("draw send failed")
		return err
	}
	s.log.WithField("pendingDraw", s.turn.PendingDraw).Info("requested draw")
	return nil
}

// Declare sends the near-empty-hand declaration. Gated locally on the hand
// size window and the not-already-declared flag; a repeat attempt on the same
// hand revision is refused without any network traffic. The flag follows the
// arbiter's snapshot on the next revision.
func (s *Session) Declare() error {
	if s.gameOver {
		return ErrGameOver
	}
	if s.declared {
		return ErrAlreadyDeclared
	}
	n := uint8(len(s.hand))
	if n < s.rules.DeclareMin || n > s.rules.DeclareMax {
		return ErrDeclareWindow
	}
	intent := protocol.Intent{ID: uuid.NewString(), Type: protocol.IntentDeclare}
	if err := s.Send(intent); err != nil {
		s.log.WithError(err).Warn("declare send failed")
		return err
	}
	// Optimistic: refuse repeats until the arbiter confirms or the hand
	// revision changes.
	s.declared = true
	s.log.WithField("handSize", n).Info("declared near-empty hand")
	return nil
}

package session

import (
	"context"

	"github.com/sirupsen/logrus"

	"lastcard/internal/protocol"
)

// Input is a UI-originated message for the session loop. One concrete type
// per affordance; the loop is the only goroutine that touches the Session.
type Input interface{ isInput() }

// SelectInput is the plain select on hand index I.
type SelectInput struct{ I int }

// ToggleInput is the augmenting select on hand index I.
type ToggleInput struct{ I int }

// RankInput is the bulk same-rank select anchored at hand index I.
type RankInput struct{ I int }

// FamilyInput is the bulk themed-combo select anchored at hand index I.
type FamilyInput struct{ I int }

// CycleInput moves the selection cursor; Forward false cycles backwards.
type CycleInput struct{ Forward bool }

// ClearInput empties the selection.
type ClearInput struct{}

// CommitInput requests a play of the current selection. Suit carries the
// wild-card suit override and is empty otherwise.
type CommitInput struct{ Suit string }

// DrawInput requests a card from the stock.
type DrawInput struct{}

// DeclareInput requests the near-empty-hand declaration.
type DeclareInput struct{}

func (SelectInput) isInput()  {}
func (ToggleInput) isInput()  {}
func (RankInput) isInput()    {}
func (FamilyInput) isInput()  {}
func (CycleInput) isInput()   {}
func (ClearInput) isInput()   {}
func (CommitInput) isInput()  {}
func (DrawInput) isInput()    {}
func (DeclareInput) isInput() {}

// Loop serializes arbiter events and UI inputs onto the session. Events and
// inputs arrive on separate channels; each message is processed to completion
// before the next is taken, so the Session needs no locking.
type Loop struct {
	log     logrus.FieldLogger
	session *Session

	Events chan protocol.ServerEvent
	Inputs chan Input
}

// NewLoop wires a loop around an existing session.
func NewLoop(log logrus.FieldLogger, s *Session) *Loop {
	return &Loop{
		log:     log.WithField("component", "loop"),
		session: s,
		Events:  make(chan protocol.ServerEvent, 16),
		Inputs:  make(chan Input, 16),
	}
}

// Run drains both channels until ctx is cancelled or the events channel
// closes (transport gone).
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-l.Events:
			if !ok {
				l.log.Info("event stream closed")
				return nil
			}
			l.handleEvent(ev)
		case in := <-l.Inputs:
			l.handleInput(in)
		}
	}
}

func (l *Loop) handleEvent(ev protocol.ServerEvent) {
	switch ev.Type {
	case protocol.EventSnapshot:
		if ev.Snapshot == nil {
			l.log.Warn("snapshot event without payload")
			return
		}
		l.session.ApplySnapshot(ev.Snapshot)
	case protocol.EventRejected:
		l.session.ApplyRejection(ev.Reason)
	case protocol.EventGameOver:
		l.session.ApplyGameOver(ev.Winner)
	default:
		l.log.WithField("type", ev.Type).Warn("unknown server event")
	}
}

func (l *Loop) handleInput(in Input) {
	s := l.session
	switch in := in.(type) {
	case SelectInput:
		s.HandleSelect(in.I)
	case ToggleInput:
		s.HandleToggle(in.I)
	case RankInput:
		s.HandleSelectRank(in.I)
	case FamilyInput:
		s.HandleSelectFamily(in.I)
	case CycleInput:
		s.HandleCycle(in.Forward)
	case ClearInput:
		s.HandleClear()
	case CommitInput:
		if err := s.Commit(in.Suit); err != nil {
			s.notify(FeedbackLocalReject, err.Error())
		}
	case DrawInput:
		if err := s.Draw(); err != nil {
			s.notify(FeedbackLocalReject, err.Error())
		}
	case DeclareInput:
		if err := s.Declare(); err != nil {
			s.notify(FeedbackLocalReject, err.Error())
		}
	default:
		l.log.Warn("unknown input type")
	}
}

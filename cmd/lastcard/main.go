// Command lastcard is a terminal client for a Last-Card table. It connects
// to the arbiter over websocket, mirrors the authoritative state, and turns
// line commands into selection inputs and play intents.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"lastcard/engine"
	"lastcard/internal/client"
	"lastcard/internal/config"
	"lastcard/internal/protocol"
	"lastcard/internal/session"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetLevel(cfg.Level())
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("client exited")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	if cfg.AuthToken == "" {
		return fmt.Errorf("LASTCARD_AUTH_TOKEN is required")
	}
	selfID, err := client.PlayerIDFromToken(cfg.AuthToken)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := client.Dial(ctx, log, cfg.ArbiterURL, cfg.AuthToken)
	if err != nil {
		return err
	}
	defer conn.Close()

	sess := session.New(log, rules, selfID)
	sess.Send = func(in protocol.Intent) error { return conn.Send(ctx, in) }
	sess.Notify = func(f session.Feedback) { printFeedback(sess, f) }

	loop := session.NewLoop(log, sess)

	readErr := make(chan error, 1)
	go func() { readErr <- conn.ReadLoop(ctx, loop.Events) }()
	go readCommands(ctx, log, loop.Inputs)

	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	select {
	case err := <-readErr:
		if err != nil && ctx.Err() == nil {
			return err
		}
	default:
	}
	return nil
}

// readCommands turns stdin lines into loop inputs. Unknown commands print
// usage and are otherwise ignored.
func readCommands(ctx context.Context, log logrus.FieldLogger, inputs chan<- session.Input) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		in, err := parseCommand(sc.Text())
		if err != nil {
			fmt.Println(err)
			continue
		}
		if in == nil {
			continue
		}
		select {
		case inputs <- in:
		case <-ctx.Done():
			return
		}
	}
	if err := sc.Err(); err != nil {
		log.WithError(err).Warn("stdin closed")
	}
}

func parseCommand(line string) (session.Input, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil, nil
	}
	atIndex := func() (int, error) {
		if len(fields) < 2 {
			return 0, fmt.Errorf("usage: %s <index>", fields[0])
		}
		return strconv.Atoi(fields[1])
	}
	switch fields[0] {
	case "select", "s":
		i, err := atIndex()
		if err != nil {
			return nil, err
		}
		return session.SelectInput{I: i}, nil
	case "toggle", "t":
		i, err := atIndex()
		if err != nil {
			return nil, err
		}
		return session.ToggleInput{I: i}, nil
	case "rank":
		i, err := atIndex()
		if err != nil {
			return nil, err
		}
		return session.RankInput{I: i}, nil
	case "family":
		i, err := atIndex()
		if err != nil {
			return nil, err
		}
		return session.FamilyInput{I: i}, nil
	case "next":
		return session.CycleInput{Forward: true}, nil
	case "prev":
		return session.CycleInput{Forward: false}, nil
	case "clear":
		return session.ClearInput{}, nil
	case "play":
		suit := ""
		if len(fields) > 1 {
			suit = strings.ToUpper(fields[1])
		}
		return session.CommitInput{Suit: suit}, nil
	case "draw", "d":
		return session.DrawInput{}, nil
	case "declare":
		return session.DeclareInput{}, nil
	case "help":
		return nil, fmt.Errorf("commands: select|toggle|rank|family <index>, next, prev, clear, play [suit], draw, declare")
	default:
		return nil, fmt.Errorf("unknown command %q (try: help)", fields[0])
	}
}

// printFeedback renders session feedback and, on state changes, the hand
// with selection and playability markers.
func printFeedback(s *session.Session, f session.Feedback) {
	switch f.Kind {
	case session.FeedbackState:
		printHand(s)
	case session.FeedbackGameOver:
		if f.Message == s.SelfID() {
			fmt.Println("you win!")
		} else {
			fmt.Printf("game over, winner: %s\n", f.Message)
		}
	default:
		fmt.Printf("! %s\n", f.Message)
	}
}

func printHand(s *session.Session) {
	selected := map[int]bool{}
	for _, i := range s.Selection() {
		selected[i] = true
	}
	ext := s.EligibleExtensions()

	var b strings.Builder
	if s.IsMyTurn() {
		b.WriteString("your turn")
	} else {
		b.WriteString("waiting on " + s.Turn().CurrentPlayer)
	}
	if top := s.DiscardTop(); top != engine.EmptyCard {
		b.WriteString("  top:" + top.String())
	}
	if pd := s.Turn().PendingDraw; pd > 0 {
		fmt.Fprintf(&b, "  pending-draw:%d", pd)
	}
	b.WriteString("\n")
	for i, c := range s.Hand() {
		mark := " "
		switch {
		case selected[i]:
			mark = "*"
		case ext.Has(i):
			mark = "+"
		}
		fmt.Fprintf(&b, " [%d]%s%s", i, mark, c)
	}
	fmt.Println(b.String())
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/atlanticdynamic/parklynx/internal/fancy"
	"github.com/atlanticdynamic/parklynx/internal/lot"
	"github.com/atlanticdynamic/parklynx/internal/parking"
	"github.com/urfave/cli/v3"
)

// Simulation modes
const (
	modeDemo   = "demo"
	modeRandom = "random"
)

var simulateCmd = &cli.Command{
	Name:  "simulate",
	Usage: "Run an entry and exit scenario against an in-memory facility",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "mode",
			Aliases: []string{"m"},
			Usage:   "Scenario to run: demo or random",
			Value:   modeDemo,
		},
		&cli.IntFlag{
			Name:  "capacity",
			Usage: "Number of parking slots",
			Value: 3,
		},
		&cli.IntFlag{
			Name:  "steps",
			Usage: "Number of random requests (random mode)",
			Value: 20,
		},
		&cli.IntFlag{
			Name:  "seed",
			Usage: "Random seed (random mode); 0 picks one",
		},
		&cli.DurationFlag{
			Name:  "pace",
			Usage: "Delay after each state transition",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		sim, err := newSimulation(cmd.Root().Writer, simulationConfig{
			capacity: cmd.Int("capacity"),
			pace:     cmd.Duration("pace"),
			seed:     uint64(cmd.Int("seed")),
			handler:  slog.Default().Handler(),
		})
		if err != nil {
			return cli.Exit(err, 1)
		}

		switch mode := cmd.String("mode"); mode {
		case modeDemo:
			err = sim.demo(ctx)
		case modeRandom:
			err = sim.random(ctx, cmd.Int("steps"))
		default:
			err = fmt.Errorf("unknown mode %q (use demo or random)", mode)
		}
		if err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	},
}

type simulationConfig struct {
	capacity int
	pace     time.Duration
	seed     uint64
	handler  slog.Handler
}

type simulation struct {
	out       io.Writer
	sys       *parking.System
	attendant *lot.Attendant
	rng       *rand.Rand
	pace      time.Duration
}

func newSimulation(out io.Writer, cfg simulationConfig) (*simulation, error) {
	sys, err := parking.New(cfg.capacity, parking.WithLogHandler(cfg.handler))
	if err != nil {
		return nil, err
	}

	seed := cfg.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	attendant, err := lot.New(sys, lot.WithLogHandler(cfg.handler), lot.WithRand(rng))
	if err != nil {
		return nil, fmt.Errorf("failed to create attendant: %w", err)
	}

	return &simulation{
		out:       out,
		sys:       sys,
		attendant: attendant,
		rng:       rng,
		pace:      cfg.pace,
	}, nil
}

// demo replays the reference scenario: fill the facility, get refused, let
// a visitor out and admit one more.
func (s *simulation) demo(ctx context.Context) error {
	steps := []struct {
		title string
		run   func() error
	}{
		{"Visitor entry", func() error { return s.enter(false) }},
		{"Subscriber entry", func() error { return s.enter(true) }},
		{"Visitor entry, facility becomes full", func() error { return s.enter(false) }},
		{"Entry attempt while full", func() error { return s.enter(false) }},
		{"Visitor exit", func() error { return s.exit(ctx, 0) }},
		{"New entry", func() error { return s.enter(false) }},
	}

	for i, step := range steps {
		fmt.Fprintf(s.out, "\n%s\n", fancy.HeaderStyle.Render(fmt.Sprintf("Case %d: %s", i+1, step.title)))
		if err := s.report(step.run()); err != nil {
			return err
		}
	}
	return s.summary()
}

// random fires steps entries and exits, weighted by how full the facility is.
func (s *simulation) random(ctx context.Context, steps int) error {
	for i := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		st := s.sys.Status()
		enter := s.rng.IntN(st.TotalSlots+1) >= st.Occupied()
		var err error
		if enter {
			subscriber := s.rng.IntN(3) == 0
			fmt.Fprintf(s.out, "\n%s\n", fancy.HeaderStyle.Render(fmt.Sprintf("Step %d: %s entry", i+1, lot.KindOf(subscriber))))
			err = s.enter(subscriber)
		} else {
			fmt.Fprintf(s.out, "\n%s\n", fancy.HeaderStyle.Render(fmt.Sprintf("Step %d: exit", i+1)))
			err = s.exitRandom(ctx)
		}
		if err := s.report(err); err != nil {
			return err
		}
	}
	return s.summary()
}

func (s *simulation) enter(subscriber bool) error {
	slot, err := s.attendant.Admit(subscriber, s.pacer())
	if err == nil {
		fmt.Fprintf(s.out, "  %s parked on slot %d\n", lot.KindOf(subscriber), slot)
	}
	return err
}

func (s *simulation) exit(ctx context.Context, slot int) error {
	receipt, err := s.attendant.Release(ctx, slot, s.pacer())
	if err == nil {
		s.printReceipt(receipt)
	}
	return err
}

func (s *simulation) exitRandom(ctx context.Context) error {
	receipt, err := s.attendant.ReleaseRandom(ctx, s.pacer())
	if err == nil {
		s.printReceipt(receipt)
	}
	return err
}

func (s *simulation) printReceipt(r lot.Receipt) {
	fmt.Fprintf(s.out, "  %s left slot %d after %s, paid %s\n",
		r.Slot.Kind, r.Slot.Index, r.Duration.Round(time.Millisecond),
		fancy.MoneyText(fmt.Sprintf("%.2f", r.Fee)))
}

// report prints refusals and keeps going; any other error ends the run.
func (s *simulation) report(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, parking.ErrFull), errors.Is(err, parking.ErrEmpty):
		fmt.Fprintf(s.out, "  %s\n", fancy.ErrorText("Refused: "+err.Error()))
		return nil
	default:
		return err
	}
}

func (s *simulation) summary() error {
	_, err := fmt.Fprintf(s.out, "\n%s\n", s.sys.Status())
	return err
}

// pacer prints each state the automaton passes through.
func (s *simulation) pacer() parking.PaceFunc {
	return func() {
		if cur := s.sys.Automaton().Current(); cur != nil {
			fmt.Fprintf(s.out, "  -> %s\n", fancy.StateText(cur.Label))
		}
		if s.pace > 0 {
			time.Sleep(s.pace)
		}
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AntonStoeckl/lending-ledger-go/circulation/shell"
	"github.com/AntonStoeckl/lending-ledger-go/ledger"
)

var errInvalidSimulation = errors.New("invalid simulation settings")

type simulationConfig struct {
	desks    int
	rate     int
	duration time.Duration
	items    int
	members  int
	seed     uint64
}

func (c simulationConfig) validate() error {
	switch {
	case c.desks < 1:
		return fmt.Errorf("%w: at least one desk is required", errInvalidSimulation)
	case c.rate < 1:
		return fmt.Errorf("%w: rate must be positive", errInvalidSimulation)
	case c.duration <= 0:
		return fmt.Errorf("%w: duration must be positive", errInvalidSimulation)
	case c.items < 1 || c.members < 1:
		return fmt.Errorf("%w: items and members must be positive", errInvalidSimulation)
	default:
		return nil
	}
}

// simulationResult counts the outcomes of all requests across all desks.
type simulationResult struct {
	accepted  atomic.Int64
	rejected  atomic.Int64
	failed    atomic.Int64
	converged bool
	elapsed   time.Duration
}

// loadGenerator drives several desks on one journal at a fixed request rate, so that
// their appends race and get resolved by the desks' conflict handling.
type loadGenerator struct {
	config simulationConfig
	desks  []*shell.Desk
	result simulationResult
}

func newLoadGenerator(config simulationConfig, desks []*shell.Desk) *loadGenerator {
	return &loadGenerator{config: config, desks: desks}
}

// seed fills catalog and roster through the first desk.
func (lg *loadGenerator) seed(ctx context.Context) error {
	desk := lg.desks[0]

	for i := range lg.config.items {
		if err := desk.AddItem(ctx, fmt.Sprintf("Title %d", i), "Simulated Author", simItemID(i)); err != nil {
			return err
		}
	}

	for i := range lg.config.members {
		if err := desk.RegisterMember(ctx, fmt.Sprintf("Member %d", i), simMemberID(i)); err != nil {
			return err
		}
	}

	return nil
}

// run sends requests until the duration is over, then brings every desk up to date and
// checks that they all agree on the ledger.
func (lg *loadGenerator) run(ctx context.Context) error {
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, lg.config.duration)
	defer cancel()

	interval := time.Second * time.Duration(len(lg.desks)) / time.Duration(lg.config.rate)
	group, groupCtx := errgroup.WithContext(runCtx)

	for worker, desk := range lg.desks {
		rng := rand.New(rand.NewPCG(lg.config.seed, uint64(worker)))

		group.Go(func() error {
			return lg.work(groupCtx, desk, rng, interval)
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	lg.result.elapsed = time.Since(start)

	for _, desk := range lg.desks {
		if err := desk.Refresh(ctx); err != nil {
			return err
		}
	}

	lg.result.converged = lg.converged()

	return nil
}

func (lg *loadGenerator) work(ctx context.Context, desk *shell.Desk, rng *rand.Rand, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			err := lg.request(ctx, desk, rng)

			switch {
			case err == nil:
				lg.result.accepted.Add(1)
			case isRejection(err):
				lg.result.rejected.Add(1)
			case ctx.Err() != nil:
				return nil
			default:
				lg.result.failed.Add(1)
			}
		}
	}
}

// request picks a member and does what a patron at the desk would do next.
func (lg *loadGenerator) request(ctx context.Context, desk *shell.Desk, rng *rand.Rand) error {
	memberID := simMemberID(rng.IntN(lg.config.members))

	member, found := desk.FindMember(memberID)
	if !found {
		return fmt.Errorf("%w: %s", ledger.ErrMemberNotFound, memberID)
	}

	switch roll := rng.IntN(100); {
	case member.OutstandingFees > 0 && roll < 60:
		_, err := desk.PayFees(ctx, memberID, member.OutstandingFees)
		return err

	case len(member.HeldItemIDs) > 0 && roll < 50:
		_, err := desk.ReturnItem(ctx, member.HeldItemIDs[rng.IntN(len(member.HeldItemIDs))], memberID)
		return err

	default:
		_, err := desk.Issue(ctx, simItemID(rng.IntN(lg.config.items)), memberID)
		return err
	}
}

func (lg *loadGenerator) converged() bool {
	reference := lg.desks[0].Snapshot()

	for _, desk := range lg.desks[1:] {
		if !equalSnapshots(reference, desk.Snapshot()) {
			return false
		}
	}

	return true
}

func (lg *loadGenerator) report(out io.Writer) {
	accepted := lg.result.accepted.Load()
	rejected := lg.result.rejected.Load()
	failed := lg.result.failed.Load()
	total := accepted + rejected + failed

	fmt.Fprintln(out, "\n=== SIMULATION ===")
	fmt.Fprintf(out, "Desks: %d\n", len(lg.desks))
	fmt.Fprintf(out, "Elapsed: %s\n", lg.result.elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "Requests: %d\n", total)
	fmt.Fprintf(out, "Accepted: %d\n", accepted)
	fmt.Fprintf(out, "Rejected: %d\n", rejected)
	fmt.Fprintf(out, "Failed: %d\n", failed)

	if lg.result.converged {
		fmt.Fprintln(out, "Desks converged: yes")
	} else {
		fmt.Fprintln(out, "Desks converged: no")
	}
}

func isRejection(err error) bool {
	for _, rejection := range []error{
		ledger.ErrDuplicateIdentifier,
		ledger.ErrNotFound,
		ledger.ErrItemOnLoan,
		ledger.ErrItemUnavailable,
		ledger.ErrBorrowLimitReached,
		ledger.ErrFeesOwed,
		ledger.ErrNotBorrowedByMember,
		ledger.ErrNonPositiveAmount,
	} {
		if errors.Is(err, rejection) {
			return true
		}
	}

	return false
}

func equalSnapshots(a, b ledger.Snapshot) bool {
	if a.LifetimeFeesCollected != b.LifetimeFeesCollected ||
		len(a.Items) != len(b.Items) || len(a.Members) != len(b.Members) {
		return false
	}

	for i := range a.Items {
		if a.Items[i] != b.Items[i] {
			return false
		}
	}

	for i := range a.Members {
		x, y := a.Members[i], b.Members[i]
		if x.ID != y.ID || x.Name != y.Name || x.OutstandingFees != y.OutstandingFees ||
			len(x.HeldItemIDs) != len(y.HeldItemIDs) {
			return false
		}

		for j := range x.HeldItemIDs {
			if x.HeldItemIDs[j] != y.HeldItemIDs[j] {
				return false
			}
		}
	}

	return true
}

func simItemID(i int) ledger.ItemID {
	return fmt.Sprintf("SIM-%04d", i)
}

func simMemberID(i int) ledger.MemberID {
	return fmt.Sprintf("M%04d", i)
}

func newSimulateCmd(a *app) *cobra.Command {
	config := simulationConfig{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Drive several desks concurrently against one journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.validate(); err != nil {
				return err
			}

			ctx := cmd.Context()

			_, j, err := a.openJournal(ctx)
			if err != nil {
				return err
			}

			desks := make([]*shell.Desk, 0, config.desks)

			for range config.desks {
				desk, err := a.openDeskOn(ctx, j)
				if err != nil {
					return err
				}

				desks = append(desks, desk)
			}

			lg := newLoadGenerator(config, desks)

			if err := lg.seed(ctx); err != nil {
				return err
			}

			if err := lg.run(ctx); err != nil {
				return err
			}

			lg.report(a.stdout)
			renderStats(a.stdout, desks[0].Statistics())

			return nil
		},
	}

	cmd.Flags().IntVar(&config.desks, "desks", 4, "number of desks sharing the journal")
	cmd.Flags().IntVar(&config.rate, "rate", 200, "requests per second across all desks")
	cmd.Flags().DurationVar(&config.duration, "duration", 2*time.Second, "how long to send requests")
	cmd.Flags().IntVar(&config.items, "items", 20, "number of items in the catalog")
	cmd.Flags().IntVar(&config.members, "members", 8, "number of registered members")
	cmd.Flags().Uint64Var(&config.seed, "seed", 1, "seed of the request mix")

	return cmd
}

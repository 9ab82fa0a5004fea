package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/lending-ledger-go/circulation/core"
	"github.com/AntonStoeckl/lending-ledger-go/ledger"
)

const (
	reportAvailable = "available"
	reportBorrowed  = "borrowed"
	reportMembers   = "members"
)

var errHistoryTarget = errors.New("exactly one of --member and --item is required")

func newAddItemCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add-item <isbn> <title> <author>",
		Short: "Add a book to the catalog",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			desk, err := a.openDesk(cmd.Context())
			if err != nil {
				return err
			}

			if err := desk.AddItem(cmd.Context(), args[1], args[2], args[0]); err != nil {
				return err
			}

			renderItemAdded(a.stdout, args[1])

			return nil
		},
	}
}

func newRemoveItemCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-item <isbn>",
		Short: "Remove an available book from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desk, err := a.openDesk(cmd.Context())
			if err != nil {
				return err
			}

			if err := desk.RemoveItem(cmd.Context(), args[0]); err != nil {
				return err
			}

			renderItemRemoved(a.stdout)

			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register <member-id> <name>",
		Short: "Register a patron",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			desk, err := a.openDesk(cmd.Context())
			if err != nil {
				return err
			}

			if err := desk.RegisterMember(cmd.Context(), args[1], args[0]); err != nil {
				return err
			}

			renderMemberRegistered(a.stdout, args[1])

			return nil
		},
	}
}

func newIssueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "issue <isbn> <member-id>",
		Short: "Lend a book to a patron",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			desk, err := a.openDesk(cmd.Context())
			if err != nil {
				return err
			}

			receipt, err := desk.Issue(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			renderIssued(a.stdout, receipt)

			return nil
		},
	}
}

func newReturnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "return <isbn> <member-id>",
		Short: "Take a book back from a patron",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			desk, err := a.openDesk(cmd.Context())
			if err != nil {
				return err
			}

			receipt, err := desk.ReturnItem(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			renderReturned(a.stdout, receipt)

			return nil
		},
	}
}

func newPayCmd(a *app) *cobra.Command {
	var amount float64

	cmd := &cobra.Command{
		Use:   "pay <member-id>",
		Short: "Pay outstanding fees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desk, err := a.openDesk(cmd.Context())
			if err != nil {
				return err
			}

			receipt, err := desk.PayFees(cmd.Context(), args[0], amount)
			if err != nil {
				return err
			}

			renderPaid(a.stdout, receipt)

			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Amount to pay")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "report <available|borrowed|members>",
		Short:     "List available books, borrowed books or patrons",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{reportAvailable, reportBorrowed, reportMembers},
		RunE: func(cmd *cobra.Command, args []string) error {
			desk, err := a.openDesk(cmd.Context())
			if err != nil {
				return err
			}

			switch args[0] {
			case reportAvailable:
				renderAvailable(a.stdout, desk.ListAvailable())
			case reportBorrowed:
				renderBorrowed(a.stdout, desk.ListBorrowed())
			case reportMembers:
				renderMembers(a.stdout, desk.ListMembers())
			}

			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show library statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			desk, err := a.openDesk(cmd.Context())
			if err != nil {
				return err
			}

			renderStats(a.stdout, desk.Statistics())

			return nil
		},
	}
}

func newCheckpointCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "checkpoint",
		Short: "Store a ledger snapshot so later runs replay fewer events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			desk, err := a.openDesk(cmd.Context())
			if err != nil {
				return err
			}

			position, err := desk.Checkpoint(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "✓ Checkpoint saved at position %d\n", position)

			return nil
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	var memberID, itemID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the journal entries of a patron or a book, refused requests included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (memberID == "") == (itemID == "") {
				return errHistoryTarget
			}

			desk, err := a.openDesk(cmd.Context())
			if err != nil {
				return err
			}

			var events core.DomainEvents
			if memberID != "" {
				events, err = desk.MemberHistory(cmd.Context(), memberID)
			} else {
				events, err = desk.ItemHistory(cmd.Context(), itemID)
			}

			if err != nil {
				return err
			}

			renderHistory(a.stdout, events)

			return nil
		},
	}

	cmd.Flags().StringVar(&memberID, "member", "", "Member ID")
	cmd.Flags().StringVar(&itemID, "item", "", "ISBN")

	return cmd
}

func newInitDBCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the journal tables in Postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pgJournal, _, err := a.openJournal(cmd.Context())
			if err != nil {
				return err
			}

			if pgJournal == nil {
				return fmt.Errorf("init-db needs a Postgres adapter, not %q", a.settings.adapter)
			}

			if err := pgJournal.CreateSchema(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(a.stdout, "✓ Journal tables created")

			return nil
		},
	}
}

// sampleItem and sampleMember seed the demo session.
type sampleItem struct{ title, author, isbn string }

type sampleMember struct{ name, id string }

var (
	sampleItems = []sampleItem{
		{"The Great Gatsby", "F. Scott Fitzgerald", "978-0743273565"},
		{"To Kill a Mockingbird", "Harper Lee", "978-0061120084"},
		{"1984", "George Orwell", "978-0451524935"},
		{"Pride and Prejudice", "Jane Austen", "978-0141439518"},
	}

	sampleMembers = []sampleMember{
		{"Ali Khan", "P001"},
		{"Sara Ahmed", "P002"},
		{"Usman Malik", "P003"},
	}
)

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a seeded session on an in-memory journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.settings.adapter = adapterMemory

			desk, err := a.openDesk(cmd.Context())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := a.stdout

			fmt.Fprintln(out, "Welcome to the lending desk demo!")

			for _, item := range sampleItems {
				if err := desk.AddItem(ctx, item.title, item.author, item.isbn); err != nil {
					return err
				}

				renderItemAdded(out, item.title)
			}

			for _, member := range sampleMembers {
				if err := desk.RegisterMember(ctx, member.name, member.id); err != nil {
					return err
				}

				renderMemberRegistered(out, member.name)
			}

			// a refused request is reported and journaled, the session goes on
			tryIssue := func(isbn string, memberID ledger.MemberID) {
				receipt, err := desk.Issue(ctx, isbn, memberID)
				if err != nil {
					fmt.Fprintf(out, "Error: %s\n", describeError(err))
					return
				}

				renderIssued(out, receipt)
			}

			tryIssue("978-0743273565", "P001")
			tryIssue("978-0451524935", "P001")
			tryIssue("978-0743273565", "P002")
			tryIssue("978-0061120084", "P003")

			returned, err := desk.ReturnItem(ctx, "978-0743273565", "P001")
			if err != nil {
				return err
			}

			renderReturned(out, returned)

			if returned.LateFee > 0 {
				paid, err := desk.PayFees(ctx, "P001", returned.LateFee+5)
				if err != nil {
					return err
				}

				renderPaid(out, paid)
			}

			renderAvailable(out, desk.ListAvailable())
			renderBorrowed(out, desk.ListBorrowed())
			renderMembers(out, desk.ListMembers())
			renderStats(out, desk.Statistics())

			history, err := desk.ItemHistory(ctx, "978-0743273565")
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "\n=== HISTORY OF 978-0743273565 ===")
			renderHistory(out, history)

			return nil
		},
	}
}

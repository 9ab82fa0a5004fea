package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AntonStoeckl/lending-ledger-go/circulation/core"
	"github.com/AntonStoeckl/lending-ledger-go/ledger"
)

const currency = "Rs"

func renderItemAdded(out io.Writer, title string) {
	fmt.Fprintf(out, "✓ Book added successfully: %s\n", title)
}

func renderItemRemoved(out io.Writer) {
	fmt.Fprintln(out, "✓ Book removed successfully.")
}

func renderMemberRegistered(out io.Writer, name string) {
	fmt.Fprintf(out, "✓ Patron registered successfully: %s\n", name)
}

func renderIssued(out io.Writer, receipt ledger.IssuedReceipt) {
	fmt.Fprintf(out, "✓ Book '%s' issued to %s\n", receipt.Item.Title, receipt.Member.Name)
}

func renderReturned(out io.Writer, receipt ledger.ReturnReceipt) {
	if receipt.LateFee > 0 {
		fmt.Fprintf(out, "Late fee applied: %s %.2f\n", currency, receipt.LateFee)
	}

	fmt.Fprintf(out, "✓ Book '%s' returned successfully\n", receipt.Item.Title)
}

func renderPaid(out io.Writer, receipt ledger.PaymentReceipt) {
	fmt.Fprintf(out, "✓ Paid %s %.2f. Remaining fees: %s %.2f\n", currency, receipt.Applied, currency, receipt.Remaining)
}

func renderAvailable(out io.Writer, items []ledger.ItemView) {
	fmt.Fprintln(out, "\n=== AVAILABLE BOOKS ===")

	if len(items) == 0 {
		fmt.Fprintln(out, "No books available")
		return
	}

	for _, item := range items {
		fmt.Fprintf(out, "• %s by %s (ISBN: %s)\n", item.Title, item.Author, item.ID)
	}
}

func renderBorrowed(out io.Writer, loans []ledger.LoanView) {
	fmt.Fprintln(out, "\n=== BORROWED BOOKS ===")

	if len(loans) == 0 {
		fmt.Fprintln(out, "No books currently borrowed")
		return
	}

	for _, loan := range loans {
		borrower := loan.BorrowerName
		if borrower == ledger.UnknownBorrower {
			borrower = "Unknown"
		}

		fmt.Fprintf(out, "• %s  Borrowed by: %s\n", loan.Item.Title, borrower)
	}
}

func renderMembers(out io.Writer, members []ledger.MemberView) {
	fmt.Fprintln(out, "\n=== PATRONS REPORT ===")

	if len(members) == 0 {
		fmt.Fprintln(out, "No patrons registered")
		return
	}

	for _, member := range members {
		fmt.Fprintf(out, "• %s\n", member)
	}
}

func renderStats(out io.Writer, stats ledger.Stats) {
	fmt.Fprintln(out, "\n=== LIBRARY STATISTICS ===")
	fmt.Fprintf(out, "Total Books: %d\n", stats.TotalItems)
	fmt.Fprintf(out, "Total Patrons: %d\n", stats.TotalMembers)
	fmt.Fprintf(out, "Available Books: %d\n", stats.AvailableItems)
	fmt.Fprintf(out, "Borrowed Books: %d\n", stats.BorrowedItems)
	fmt.Fprintf(out, "Total Fees Collected: %s %.2f\n", currency, stats.LifetimeFeesCollected)
	fmt.Fprintf(out, "Current Outstanding Fees: %s %.2f\n", currency, stats.CurrentOutstanding)
}

func renderHistory(out io.Writer, events core.DomainEvents) {
	if len(events) == 0 {
		fmt.Fprintln(out, "No journal entries")
		return
	}

	for _, event := range events {
		fmt.Fprintf(out, "%s  %s\n", event.HasOccurredAt().Format("2006-01-02 15:04:05"), describeEvent(event))
	}
}

func describeEvent(event core.DomainEvent) string {
	switch e := event.(type) {
	case core.ItemAddedToCatalog:
		return fmt.Sprintf("book %s added: %s by %s", e.ItemID, e.Title, e.Author)
	case core.ItemRemovedFromCatalog:
		return fmt.Sprintf("book %s removed", e.ItemID)
	case core.MemberRegistered:
		return fmt.Sprintf("patron %s registered: %s", e.MemberID, e.Name)
	case core.ItemIssuedToMember:
		return fmt.Sprintf("book %s issued to %s", e.ItemID, e.MemberID)
	case core.ItemReturnedByMember:
		return fmt.Sprintf("book %s returned by %s, late fee %s %.2f", e.ItemID, e.MemberID, currency, e.LateFee)
	case core.FeesPaid:
		return fmt.Sprintf("patron %s paid %s %.2f of %s %.2f", e.MemberID, currency, e.Applied, currency, e.Requested)
	case core.IssuingItemFailed:
		return fmt.Sprintf("issuing book %s to %s refused: %s", e.ItemID, e.MemberID, e.FailureInfo)
	case core.ReturningItemFailed:
		return fmt.Sprintf("return of book %s by %s refused: %s", e.ItemID, e.MemberID, e.FailureInfo)
	case core.PayingFeesFailed:
		return fmt.Sprintf("payment of %s %.2f by %s refused: %s", currency, e.Amount, e.MemberID, e.FailureInfo)
	default:
		return event.IsEventType()
	}
}

// describeError maps ledger error kinds to the texts the desk shows patrons.
// Anything else is infrastructure and shown as is.
func describeError(err error) string {
	var feesOwed *ledger.FeesOwedError

	switch {
	case errors.As(err, &feesOwed):
		return fmt.Sprintf("Patron has outstanding fees of %s %.2f", currency, feesOwed.Amount)
	case errors.Is(err, ledger.ErrDuplicateIdentifier):
		return "Identifier already exists (" + err.Error() + ")"
	case errors.Is(err, ledger.ErrItemNotFound):
		return "Book not found!"
	case errors.Is(err, ledger.ErrMemberNotFound):
		return "Patron not found!"
	case errors.Is(err, ledger.ErrItemOnLoan):
		return "Cannot remove book. It is currently borrowed."
	case errors.Is(err, ledger.ErrItemUnavailable):
		return "Book is already borrowed!"
	case errors.Is(err, ledger.ErrBorrowLimitReached):
		return fmt.Sprintf("Patron has reached borrowing limit (%d books)!", ledger.MaxHeldItems)
	case errors.Is(err, ledger.ErrNotBorrowedByMember):
		return "This patron didn't borrow this book!"
	case errors.Is(err, ledger.ErrNonPositiveAmount):
		return "Amount must be positive!"
	default:
		return err.Error()
	}
}

// printMetrics writes one line per gathered series: counters and gauges with their value,
// histograms with count and sum.
func printMetrics(out io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\n=== METRICS ===")

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, label := range metric.GetLabel() {
				labels = append(labels, label.GetName()+"="+label.GetValue())
			}

			slices.Sort(labels)
			series := family.GetName() + "{" + strings.Join(labels, ",") + "}"

			switch {
			case metric.GetCounter() != nil:
				fmt.Fprintf(out, "%s %g\n", series, metric.GetCounter().GetValue())
			case metric.GetGauge() != nil:
				fmt.Fprintf(out, "%s %g\n", series, metric.GetGauge().GetValue())
			case metric.GetHistogram() != nil:
				fmt.Fprintf(out, "%s count=%d sum=%g\n", series, metric.GetHistogram().GetSampleCount(), metric.GetHistogram().GetSampleSum())
			}
		}
	}

	return nil
}

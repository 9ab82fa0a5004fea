package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/lending-ledger-go/circulation/core"
)

func Test_Events_ReportTypeTimeAndErrorFlag(t *testing.T) {
	occurredAt := time.Date(2026, 4, 5, 6, 7, 8, 123456789, time.FixedZone("CET", 3600))
	normalized := time.Date(2026, 4, 5, 5, 7, 8, 123456000, time.UTC)

	testCases := []struct {
		event        core.DomainEvent
		expectedType string
		isError      bool
	}{
		{core.BuildItemAddedToCatalog("X1", "Title", "Author", occurredAt), core.ItemAddedToCatalogEventType, false},
		{core.BuildItemRemovedFromCatalog("X1", occurredAt), core.ItemRemovedFromCatalogEventType, false},
		{core.BuildMemberRegistered("P1", "Name", occurredAt), core.MemberRegisteredEventType, false},
		{core.BuildItemIssuedToMember("X1", "P1", occurredAt), core.ItemIssuedToMemberEventType, false},
		{core.BuildItemReturnedByMember("X1", "P1", 10, occurredAt), core.ItemReturnedByMemberEventType, false},
		{core.BuildFeesPaid("P1", 20, 10, occurredAt), core.FeesPaidEventType, false},
		{core.BuildIssuingItemFailed("X1", "P1", "item is unavailable", occurredAt), core.IssuingItemFailedEventType, true},
		{core.BuildReturningItemFailed("X1", "P1", "not borrowed", occurredAt), core.ReturningItemFailedEventType, true},
		{core.BuildPayingFeesFailed("P1", -1, "amount must be positive", occurredAt), core.PayingFeesFailedEventType, true},
	}

	assert.Len(t, core.AllEventTypes(), len(testCases))

	for _, tc := range testCases {
		t.Run(tc.expectedType, func(t *testing.T) {
			assert.Equal(t, tc.expectedType, tc.event.IsEventType())
			assert.Equal(t, normalized, tc.event.HasOccurredAt())
			assert.Equal(t, tc.isError, tc.event.IsErrorEvent())
			assert.Contains(t, core.AllEventTypes(), tc.event.IsEventType())
		})
	}
}

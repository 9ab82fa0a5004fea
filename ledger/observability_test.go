package ledger_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-ledger-go/ledger"
	"github.com/AntonStoeckl/lending-ledger-go/testutil/helper"
)

func Test_Engine_LogsSuccessfulOperationsAtInfoLevel(t *testing.T) {
	// arrange
	logHandlerSpy := helper.NewLogHandlerSpy(false)
	engine := givenEngine(t,
		ledger.WithLateFeePolicy(ledger.FixedLateFeePolicy(10)),
		ledger.WithLogger(slog.New(logHandlerSpy)),
	)
	givenItems(t, engine, "X1")
	givenMembers(t, engine, "P001")
	givenIssued(t, engine, "X1", "P001")

	// act
	_, err := engine.ReturnItem("X1", "P001")

	// assert
	require.NoError(t, err)
	assert.True(t, logHandlerSpy.HasInfoLogWithMessage("ledger operation: return").
		WithAttrValue("item_id", "X1").
		WithAttrValue("member_id", "P001").
		WithAttr("late_fee").
		Assert())
}

func Test_Engine_LogsRejectionsAtDebugLevel(t *testing.T) {
	// arrange
	logHandlerSpy := helper.NewLogHandlerSpy(false)
	engine := givenEngine(t, ledger.WithLogger(slog.New(logHandlerSpy)))
	givenMembers(t, engine, "P001")

	// act
	_, err := engine.PayFees("P001", -5)

	// assert
	assert.ErrorIs(t, err, ledger.ErrNonPositiveAmount)
	assert.True(t, logHandlerSpy.HasDebugLogWithMessage("ledger operation rejected: pay_fees").
		WithAttrValue("reason", ledger.ErrNonPositiveAmount.Error()).
		WithAttrValue("member_id", "P001").
		Assert())
	assert.False(t, logHandlerSpy.HasInfoLogWithMessage("ledger operation: pay_fees").Assert())
}

func Test_Engine_RecordsMetrics(t *testing.T) {
	// arrange
	metricsSpy := helper.NewMetricsCollectorSpy()
	engine := givenEngine(t,
		ledger.WithLateFeePolicy(ledger.FixedLateFeePolicy(10)),
		ledger.WithMetrics(metricsSpy),
	)
	givenItems(t, engine, "X1", "X2")
	givenMembers(t, engine, "P001")
	givenMemberOwes(t, engine, "P001", "X1")

	// act
	_, issueErr := engine.Issue("X2", "P001")
	_, payErr := engine.PayFees("P001", 25)

	// assert
	assert.ErrorIs(t, issueErr, ledger.ErrFeesOwed)
	require.NoError(t, payErr)

	assert.Equal(t, 2, metricsSpy.CounterCount("ledger_operations_total", map[string]string{
		"operation": "add_item",
		"status":    "success",
	}))
	assert.Equal(t, 1, metricsSpy.CounterCount("ledger_operation_rejections_total", map[string]string{
		"operation": "issue",
		"reason":    "fees_owed",
	}))
	assert.Equal(t, []float64{10}, metricsSpy.Values("ledger_late_fee_assessed"))
	assert.Equal(t, []float64{10}, metricsSpy.Values("ledger_payment_applied"))
}

func Test_Engine_WithoutObservability_DoesNotPanic(t *testing.T) {
	engine := givenEngine(t)

	assert.NotPanics(t, func() {
		_ = engine.AddItem("1984", "Orwell", "X1")
		_ = engine.AddItem("1984", "Orwell", "X1")
		_, _ = engine.Issue("X1", "P404")
	})
}

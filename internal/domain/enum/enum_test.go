package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentType(t *testing.T) {
	assert.True(t, PaymentTypeMixed.IsValid())
	assert.False(t, PaymentType("cheque").IsValid())

	assert.False(t, PaymentTypeCash.UsesCredit())
	assert.True(t, PaymentTypeCredit.UsesCredit())
	assert.True(t, PaymentTypeMixed.UsesCredit())

	var got PaymentType
	require.NoError(t, json.Unmarshal([]byte(`"credit"`), &got))
	assert.Equal(t, PaymentTypeCredit, got)

	require.NoError(t, got.Scan([]byte("mixed")))
	assert.Equal(t, PaymentTypeMixed, got)
	assert.Error(t, got.Scan(42))
}

func TestCashBookEntryTypeOpposite(t *testing.T) {
	assert.Equal(t, CashBookExpense, CashBookIncome.Opposite())
	assert.Equal(t, CashBookIncome, CashBookExpense.Opposite())
}

func TestMovementValidation(t *testing.T) {
	assert.True(t, MovementAdjust.IsValid())
	assert.False(t, MovementType("MOVE").IsValid())
	assert.True(t, ReasonSpoilage.IsValid())
	assert.False(t, MovementReason("").IsValid())
	assert.True(t, VendorDebit.IsValid())
	assert.False(t, VendorTransactionType("REFUND").IsValid())
}

package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sangkips/canteen-api/internal/application/service"
	"github.com/sangkips/canteen-api/internal/domain/entity"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/sangkips/canteen-api/internal/infrastructure/repository"
	"github.com/sangkips/canteen-api/pkg/apperror"
	"github.com/sangkips/canteen-api/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPrinter struct {
	jobs [][]byte
	err  error
}

func (p *recordingPrinter) Print(ctx context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *recordingPrinter) IsConnected(ctx context.Context) bool { return p.err == nil }

func newPrinterService(env *testEnv, p printer.Printer) *service.PrinterService {
	return service.NewPrinterService(p,
		repository.NewTransactionRepository(env.db),
		repository.NewReceiptRepository(env.db),
		printer.TypeNetwork, 32)
}

func TestFormatReceipt(t *testing.T) {
	payload := &entity.ReceiptPayload{
		Institution: entity.ReceiptInstitution{Name: "EECOHM School", Address: "Main Road"},
		Token:       "EECOHM-2025-000042",
		Date:        "2025-03-01T12:30:00Z",
		Cashier:     entity.ReceiptCashier{Username: "cashier1"},
		Items: []entity.ReceiptItem{
			{Name: "Chapati", Portion: "half", Quantity: 2, UnitPrice: decimal.NewFromInt(10), LineTotal: decimal.NewFromInt(20)},
		},
		Payment: entity.ReceiptPayment{
			Type:         "mixed",
			TotalAmount:  decimal.NewFromInt(20),
			PaidAmount:   decimal.NewFromInt(5),
			CreditAmount: decimal.NewFromInt(15),
			Account:      &entity.ReceiptAccount{Name: "Asha", AccountID: "S100"},
		},
		Footer: service.ReceiptFooter,
	}

	out := string(service.FormatReceipt(payload, 32, false))
	assert.Contains(t, out, "EECOHM-2025-000042")
	assert.Contains(t, out, "2025-03-01 12:30")
	assert.Contains(t, out, "2x Chapati (half)")
	assert.Contains(t, out, "@ 10.00 each")
	assert.Contains(t, out, "Credit:")
	assert.Contains(t, out, "Asha (S100)")
	assert.Contains(t, out, service.ReceiptFooter)
	assert.NotContains(t, out, "CANCELED")

	canceled := string(service.FormatReceipt(payload, 32, true))
	assert.Contains(t, canceled, "*** CANCELED ***")
}

func TestPrintReceipt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tea := env.seedPreMadeItem(t, "Tea", "15", 10)

	tx, err := env.sell(ctx, tea, 2, enum.PaymentTypeCash)
	require.NoError(t, err)

	rp := &recordingPrinter{}
	svc := newPrinterService(env, rp)

	payload, err := svc.PrintReceipt(ctx, tx.ID)
	require.NoError(t, err)
	require.Len(t, rp.jobs, 1)
	assert.True(t, strings.Contains(string(rp.jobs[0]), payload.Token))

	_, err = svc.PrintReceipt(ctx, 999)
	assert.True(t, apperror.IsNotFound(err))

	// A dead printer still hands back the receipt for on-screen display.
	broken := newPrinterService(env, &recordingPrinter{err: errors.New("paper out")})
	payload, err = broken.PrintReceipt(ctx, tx.ID)
	require.Error(t, err)
	require.NotNil(t, payload)
	assert.Equal(t, tx.ID, payload.TransactionID)

	status := broken.GetStatus(ctx)
	assert.True(t, status.Configured)
	assert.False(t, status.Connected)
}

package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sangkips/canteen-api/internal/domain/entity"
	"github.com/sangkips/canteen-api/internal/domain/repository"
	"github.com/sangkips/canteen-api/pkg/apperror"
	"github.com/sangkips/canteen-api/pkg/printer"
	"github.com/shopspring/decimal"
)

// PrinterService prints stored receipts on the till's thermal printer.
type PrinterService struct {
	printer     printer.Printer
	txRepo      repository.TransactionRepository
	receiptRepo repository.ReceiptRepository
	printerType string
	width       int
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	txRepo repository.TransactionRepository,
	receiptRepo repository.ReceiptRepository,
	printerType string,
	width int,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		txRepo:      txRepo,
		receiptRepo: receiptRepo,
		printerType: printerType,
		width:       width,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != printer.TypeNone && s.printerType != "",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printerType,
	}
}

// PrintReceipt prints the frozen receipt of a sale. On a printer failure the
// payload is still returned so the caller can show it on screen.
func (s *PrinterService) PrintReceipt(ctx context.Context, transactionID uint) (*entity.ReceiptPayload, error) {
	tx, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}

	receipt, err := s.receiptRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}

	payload := receipt.Payload.Data()
	data := FormatReceipt(&payload, s.width, tx.IsCanceled)
	if err := s.printer.Print(ctx, data); err != nil {
		log.Printf("Printer error (transaction %d): %v", transactionID, err)
		return &payload, fmt.Errorf("failed to print receipt: %w", err)
	}

	return &payload, nil
}

// TestPrint sends a sample receipt to the printer.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.ReceiptPayload, error) {
	price := decimal.NewFromInt(10)
	payload := &entity.ReceiptPayload{
		Institution: entity.ReceiptInstitution{Name: "PRINTER TEST"},
		Token:       "TEST-000000",
		Date:        time.Now().Format(time.RFC3339),
		Cashier:     entity.ReceiptCashier{Username: "system"},
		Items: []entity.ReceiptItem{
			{Name: "Test Item", Portion: "full", Quantity: 2, UnitPrice: price, LineTotal: price.Mul(decimal.NewFromInt(2))},
		},
		Payment: entity.ReceiptPayment{
			Type:        "cash",
			TotalAmount: decimal.NewFromInt(20),
			PaidAmount:  decimal.NewFromInt(20),
		},
		Footer: ReceiptFooter,
	}

	if err := s.printer.Print(ctx, FormatReceipt(payload, s.width, false)); err != nil {
		return payload, fmt.Errorf("test print failed: %w", err)
	}
	return payload, nil
}

// FormatReceipt converts a receipt payload into ESC/POS bytes.
func FormatReceipt(r *entity.ReceiptPayload, width int, canceled bool) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(printer.Truncate(r.Institution.Name, doc.Width()/2)).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	if r.Institution.Address != "" {
		doc.Text(r.Institution.Address)
	}
	if canceled {
		doc.SetBold(true).Text("*** CANCELED ***").SetBold(false)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Receipt:", r.Token).
		KeyValue("Date:", receiptDate(r.Date))
	if r.Cashier.Username != "" {
		cashier := r.Cashier.FullName
		if cashier == "" {
			cashier = r.Cashier.Username
		}
		doc.KeyValue("Cashier:", cashier)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		name := item.Name
		if item.Portion == "half" {
			name += " (half)"
		}
		doc.ItemLine(item.Quantity, name, item.LineTotal.StringFixed(2))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", item.UnitPrice.StringFixed(2))
		}
	}

	doc.Separator('-')

	if r.Tax.IsPositive() {
		doc.KeyValue("Tax:", r.Tax.StringFixed(2))
	}
	if r.Discount.IsPositive() {
		doc.KeyValue("Discount:", "-"+r.Discount.StringFixed(2))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", r.Payment.TotalAmount.StringFixed(2)).
		SetBold(false).
		KeyValue("Payment:", r.Payment.Type)
	if r.Payment.PaidAmount.IsPositive() {
		doc.KeyValue("Cash:", r.Payment.PaidAmount.StringFixed(2))
	}
	if r.Payment.CreditAmount.IsPositive() {
		doc.KeyValue("Credit:", r.Payment.CreditAmount.StringFixed(2))
	}
	if acc := r.Payment.Account; acc != nil {
		doc.KeyValue("Account:", fmt.Sprintf("%s (%s)", acc.Name, acc.AccountID))
	}
	if r.Notes != "" {
		doc.Separator('-').Text(r.Notes)
	}

	doc.Separator('-').
		SetAlign(printer.AlignCenter).
		LineFeed().
		Text(r.Footer).
		LineFeed().
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

func receiptDate(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02 15:04")
}

package enum

// CashBookEntryType is the side of the cash drawer an entry lands on
type CashBookEntryType string

const (
	CashBookIncome  CashBookEntryType = "income"
	CashBookExpense CashBookEntryType = "expense"
)

// Opposite returns the entry type that offsets t
func (t CashBookEntryType) Opposite() CashBookEntryType {
	if t == CashBookIncome {
		return CashBookExpense
	}
	return CashBookIncome
}

// AccountType is the holder category of a credit account
type AccountType string

const (
	AccountTypeStudent AccountType = "student"
	AccountTypeTeacher AccountType = "teacher"
)

// VendorTransactionType is CREDIT for purchases on account and DEBIT for payments
type VendorTransactionType string

const (
	VendorCredit VendorTransactionType = "CREDIT"
	VendorDebit  VendorTransactionType = "DEBIT"
)

func (t VendorTransactionType) IsValid() bool {
	return t == VendorCredit || t == VendorDebit
}

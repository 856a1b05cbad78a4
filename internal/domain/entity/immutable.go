package entity

import "errors"

// ErrImmutableRecord is returned by model hooks of append-only records
// (receipts, stock movements, cash book entries, transaction lines).
var ErrImmutableRecord = errors.New("record is immutable once written")

package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentType represents how a sale was settled
type PaymentType string

const (
	PaymentTypeCash   PaymentType = "cash"
	PaymentTypeCredit PaymentType = "credit"
	PaymentTypeMixed  PaymentType = "mixed"
)

func (t PaymentType) String() string {
	return string(t)
}

// IsValid reports whether t is one of the known payment types
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeCash, PaymentTypeCredit, PaymentTypeMixed:
		return true
	}
	return false
}

// UsesCredit reports whether some part of the sale was charged to an account
func (t PaymentType) UsesCredit() bool {
	return t == PaymentTypeCredit || t == PaymentTypeMixed
}

func (t PaymentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *PaymentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = PaymentType(str)
	return nil
}

func (t PaymentType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *PaymentType) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*t = PaymentType(v)
	case []byte:
		*t = PaymentType(string(v))
	case nil:
		*t = ""
	default:
		return fmt.Errorf("enum: cannot scan %T into PaymentType", value)
	}
	return nil
}

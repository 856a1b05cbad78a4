package entity

import (
	"time"

	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreditAccount is a student or teacher tab. A positive balance is money
// owed to the canteen.
type CreditAccount struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	AccountID         string           `gorm:"size:50;not null;uniqueIndex" json:"account_id"`
	Name              string           `gorm:"size:255;not null" json:"name"`
	AccountType       enum.AccountType `gorm:"size:20;not null" json:"account_type"`
	ClassOrDepartment string           `gorm:"size:100" json:"class_or_department"`
	ContactInfo       string           `gorm:"size:255" json:"contact_info"`
	RollNo            string           `gorm:"size:50" json:"roll_no"`
	Balance           decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"balance"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName returns the table name for the CreditAccount model
func (CreditAccount) TableName() string {
	return "credit_accounts"
}

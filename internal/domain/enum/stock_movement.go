package enum

// MovementType is the direction of a stock movement
type MovementType string

const (
	MovementIn     MovementType = "IN"
	MovementOut    MovementType = "OUT"
	MovementAdjust MovementType = "ADJUST"
)

func (t MovementType) IsValid() bool {
	return t == MovementIn || t == MovementOut || t == MovementAdjust
}

// MovementReason explains why stock moved
type MovementReason string

const (
	ReasonPurchase    MovementReason = "PURCHASE"
	ReasonConsumption MovementReason = "CONSUMPTION"
	ReasonWastage     MovementReason = "WASTAGE"
	ReasonSpoilage    MovementReason = "SPOILAGE"
	ReasonAudit       MovementReason = "AUDIT"
	ReasonOther       MovementReason = "OTHER"
)

func (r MovementReason) IsValid() bool {
	switch r {
	case ReasonPurchase, ReasonConsumption, ReasonWastage, ReasonSpoilage, ReasonAudit, ReasonOther:
		return true
	}
	return false
}

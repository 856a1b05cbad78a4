package enum

// PortionType is a sellable size of a menu item
type PortionType string

const (
	PortionFull PortionType = "full"
	PortionHalf PortionType = "half"
)

// Role is a staff role
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

func (p PortionType) IsValid() bool {
	return p == PortionFull || p == PortionHalf
}

// Unit is the measuring unit of an ingredient
type Unit string

const (
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitLitre      Unit = "l"
	UnitMillilitre Unit = "ml"
	UnitPiece      Unit = "pc"
	UnitBag        Unit = "bag"
	UnitBox        Unit = "box"
	UnitPacket     Unit = "pkt"
)

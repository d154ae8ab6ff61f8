package domain

import dErrors "campuscoffee/pkg/domain-errors"

// PosType classifies the kind of outlet.
// Invariant: the value must be one of the supported types.
//
// Usage: construct via ParsePosType at trust boundaries; direct casting
// bypasses validation.
type PosType string

const (
	PosTypeCoffeeShop     PosType = "COFFEE_SHOP"
	PosTypeCafe           PosType = "CAFE"
	PosTypeBakery         PosType = "BAKERY"
	PosTypeCafeteria      PosType = "CAFETERIA"
	PosTypeVendingMachine PosType = "VENDING_MACHINE"
)

var validPosTypes = map[PosType]bool{
	PosTypeCoffeeShop:     true,
	PosTypeCafe:           true,
	PosTypeBakery:         true,
	PosTypeCafeteria:      true,
	PosTypeVendingMachine: true,
}

// ParsePosType constructs a PosType from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParsePosType(s string) (PosType, error) {
	if s == "" {
		return "", dErrors.NewFields(dErrors.CodeInvalidInput, "type cannot be empty", "type")
	}
	t := PosType(s)
	if !t.IsValid() {
		return "", dErrors.NewFields(dErrors.CodeInvalidInput, "unknown pos type "+s, "type")
	}
	return t, nil
}

func (t PosType) IsValid() bool {
	return validPosTypes[t]
}

func (t PosType) String() string {
	return string(t)
}

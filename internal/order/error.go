package order

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrForbidden         = errors.New("role not permitted for this action")
	ErrNoMaterials       = errors.New("order needs at least one material")
	ErrInvalidQuantity   = errors.New("material quantity must be greater than zero")
)

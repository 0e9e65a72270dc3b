package variants

import "errors"

var (
	ErrIndexOutOfRange    = errors.New("variant index out of range")
	ErrSectionOutOfRange  = errors.New("option section out of range")
	ErrOptionOutOfRange   = errors.New("option row out of range")
	ErrInvalidStockStatus = errors.New("invalid stock status")
	ErrUnknownGroupBy     = errors.New("group-by axis is not a variant option")
)

package company

import "errors"

var (
	ErrCompanyNotFound    = errors.New("company not found")
	ErrShortNameTaken     = errors.New("company short name is already taken")
	ErrShortNameExhausted = errors.New("could not generate a unique company short name")
)

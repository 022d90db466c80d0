package user

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email is already registered")
	ErrNotInCompany     = errors.New("user does not belong to this company")
	ErrCannotDemoteSelf = errors.New("cannot change your own role or permission level")
	ErrPermissionDenied = errors.New("permission denied")
)

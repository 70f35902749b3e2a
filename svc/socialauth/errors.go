package socialauth

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserRejected = errors.New("user rejected")
	ErrMissingCode  = errors.New("authorization code is missing")
	ErrMissingToken = errors.New("access token is missing")
	ErrStoreFailure = errors.New("user store failure")
	ErrNoIdentity   = errors.New("identity is missing")
)

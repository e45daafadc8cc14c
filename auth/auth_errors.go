package auth

import "errors"

var (
	ErrNoRefreshToken     = errors.New("no refresh token")
	ErrEmptyTokenResponse = errors.New("token response has no access token")
	ErrPasswordsDontMatch = errors.New("passwords do not match")
	ErrSamePassword       = errors.New("new password must differ from the old one")
	ErrNothingToUpdate    = errors.New("no profile fields to update")
)

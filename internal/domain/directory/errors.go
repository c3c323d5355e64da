package directory

import "errors"

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrIdentityNotFound = errors.New("identity not found")
)

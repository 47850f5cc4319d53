// Package common defines shared constants and sentinel errors used across
// the duabook client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Remote-call outcomes. ErrUnavailable covers transport failures and
	// timeouts (the server was never reached, or never answered);
	// ErrRejected means the server answered and refused the operation.
	ErrUnavailable = errors.New("server unavailable")
	ErrRejected    = errors.New("rejected by server")

	// Validation errors.
	ErrEmptyCollectionName = errors.New("collection name is empty")
	ErrDuplicateDua        = errors.New("dua already in collection")
)

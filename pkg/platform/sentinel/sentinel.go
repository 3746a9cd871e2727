package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, configuration sources and
// storage adapters return these (optionally wrapped) so services can translate
// them into domain errors or degrade.
//
// - ErrNotFound: record, document or object does not exist
// - ErrUnavailable: backing store could not be reached or read
// - ErrMalformed: a stored document exists but cannot be decoded
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrMalformed   = errors.New("malformed")
)

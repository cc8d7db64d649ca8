package ordersync

import "errors"

var (
	// ErrMappingNotFound is returned when a counterparty mapping does not exist
	ErrMappingNotFound = errors.New("counterparty mapping not found")

	// ErrMappingExists is returned when a mapping for the source counterparty already exists
	ErrMappingExists = errors.New("counterparty mapping already exists for this source counterparty")

	// ErrRecordNotFound is returned when a sync record does not exist
	ErrRecordNotFound = errors.New("sync record not found")

	// ErrRecordExists is returned when a sync record for the source order already exists
	ErrRecordExists = errors.New("sync record already exists for this source order")

	// ErrRemoteUnavailable is returned when the remote system cannot be reached
	ErrRemoteUnavailable = errors.New("remote system unavailable")

	// ErrRemoteRequestFailed is returned when the remote system rejects a request
	ErrRemoteRequestFailed = errors.New("remote system request failed")

	// ErrRemoteInvalidResponse is returned when a remote response cannot be decoded
	ErrRemoteInvalidResponse = errors.New("invalid response from remote system")
)

package handlers

import "errors"

// sentinel errors shared by the HTTP handlers; they only ever reach the
// client through config.ErrorStatus
var (
	errInvalidSlot    = errors.New("invalid appointment slot")
	errNotFound       = errors.New("not found")
	errNotOwner       = errors.New("caller does not own this resource")
	errNotParticipant = errors.New("caller is not a participant of this chat")
	errUnauthorized   = errors.New("unauthorized")
)

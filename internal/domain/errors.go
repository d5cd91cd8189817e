package domain

import "errors"

var (
	// ErrItemNotFound signals a missing catalog item.
	ErrItemNotFound = errors.New("item not found")
	// ErrDecode signals that a store row could not be decoded into a domain object.
	ErrDecode = errors.New("decode store row")
	// ErrInvalidRequest signals a malformed request value.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotImplemented signals an unimplemented recommendation strategy.
	ErrNotImplemented = errors.New("not implemented")
)

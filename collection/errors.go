package collection

import "errors"

var (
	ErrClosed          = errors.New("collection: closed")
	ErrNotFound        = errors.New("collection: not found")
	ErrKeyConflict     = errors.New("collection: key already exists")
	ErrKeyChanged      = errors.New("collection: key field cannot change")
	ErrInvalidKey      = errors.New("collection: invalid key")
	ErrInvalidDocument = errors.New("collection: document must be an object")
	ErrIndexExists     = errors.New("collection: index already exists")
	ErrIndexNotFound   = errors.New("collection: index not found")
)

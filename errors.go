package hotel

import "errors"

// ErrNotFound is returned by [Hotel.Remove] when the index is out of range
// or its slot is already free.
var ErrNotFound = errors.New("hotel: not found")

// Package storage provides key-value persistence slots: a local,
// string-keyed store in the spirit of browser local storage. Values are
// opaque strings; callers own their encoding.
package storage

import "errors"

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("not found")

// Package kvstore holds single-blob stores used to persist a serialized
// habit collection.
package kvstore

import "errors"

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("no stored data")

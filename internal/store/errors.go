package store

import "errors"

// ErrStorageUnavailable reports that the backing database could not be opened or created.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrStorageRead reports an I/O failure while reading notes.
var ErrStorageRead = errors.New("storage read")

// ErrStorageWrite reports an I/O failure while inserting, updating or deleting notes.
var ErrStorageWrite = errors.New("storage write")

// ErrIdentifierSpaceExhausted reports that the next auto-assigned number would exceed [MaxNumber].
var ErrIdentifierSpaceExhausted = errors.New("identifier space exhausted")

// ErrInvalidNumber reports a requested number outside 1..[MaxNumber].
var ErrInvalidNumber = errors.New("invalid note number")

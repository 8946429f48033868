package store

import "errors"

var (
	// ErrDocumentExists is returned when adding a document whose id is
	// already registered.
	ErrDocumentExists = errors.New("document already exists")

	// ErrNoChunks is returned when adding a document with no chunks.
	ErrNoChunks = errors.New("document has no chunks")

	// ErrEmptyDocumentID is returned when a document id is blank.
	ErrEmptyDocumentID = errors.New("document id is empty")
)

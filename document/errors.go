package document

import "errors"

var (
	// ErrNotPDF indicates the submitted bytes are not a PDF document.
	ErrNotPDF = errors.New("not a PDF document")

	// ErrUnparseable indicates the document bytes could not be parsed.
	ErrUnparseable = errors.New("document is not parseable")

	// ErrEmptyDocument indicates a zero-length document was submitted.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrStorageRootRequired is returned when a store is created without a root.
	ErrStorageRootRequired = errors.New("storage root required")
)

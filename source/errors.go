package source

// fetch errors wrap one of these so callers can decide whether to try again

import "errors"

var (
	// retrying later could work
	ErrTemporaryNetworkFailure = errors.New("network failure")

	// the server answered but not with a document, retrying will not help
	ErrBadResponse = errors.New("unexpected response")

	ErrDocumentTooLarge = errors.New("document too large")

	// an html document without a <table> to read
	ErrNoTable = errors.New("no table in html document")
)

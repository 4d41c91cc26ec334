package manifest

import "errors"

// Fatal conditions. Anything else that goes wrong while processing a single
// project page is recorded as a Skip or a fallback thumbnail instead.
var (
	ErrSourceDirMissing    = errors.New("projects directory not found")
	ErrSourceDirUnreadable = errors.New("cannot list projects directory")
	ErrWriteManifest       = errors.New("cannot write manifest")
	ErrContractViolation   = errors.New("manifest does not match the page contract")
)

// ErrInvalidEncoding is returned by Extract for content that is not UTF-8.
var ErrInvalidEncoding = errors.New("content is not valid UTF-8")

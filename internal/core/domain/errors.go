package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrReferenceResolution indicates a commit reference could not be
	// resolved. This is fatal for the run: no plan is produced.
	ErrReferenceResolution = errors.New("reference resolution failed")

	// ErrStoreUnavailable indicates the documentation store could not be
	// reached. Non-fatal for scanning: the scanner degrades to an empty
	// inventory.
	ErrStoreUnavailable = errors.New("documentation store unavailable")

	// ErrJudgmentParse indicates the judgment capability returned a
	// response that failed schema validation after the retry budget.
	ErrJudgmentParse = errors.New("judgment response unparseable")

	// ErrJudgeUnavailable indicates no judgment service is configured.
	ErrJudgeUnavailable = errors.New("judgment service unavailable")

	// ErrStaleWrite indicates the page changed between inventory time and
	// write time. The entry fails rather than blindly overwriting.
	ErrStaleWrite = errors.New("stale write conflict")

	// ErrSynthesisFailed indicates content synthesis failed for an entry.
	// The entry is reported as failed at execution, never silently dropped.
	ErrSynthesisFailed = errors.New("content synthesis failed")

	// ErrRateLimited indicates an upstream API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

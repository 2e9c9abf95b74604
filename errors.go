package quorum

import (
	"fmt"
)

// ErrorCategory groups protocol errors by the stage that produced them.
type ErrorCategory string

const (
	ErrorCategoryKeys        ErrorCategory = "keys"
	ErrorCategoryThreshold   ErrorCategory = "threshold"
	ErrorCategoryParticipant ErrorCategory = "participant"
	ErrorCategorySigning     ErrorCategory = "signing"
	ErrorCategoryEncoding    ErrorCategory = "encoding"
	ErrorCategoryKeygen      ErrorCategory = "keygen"
)

// ProtocolError is a structured error carrying a stable machine-readable
// code. Every failure the signing core can produce maps to a distinct code so
// callers never have to string-match messages.
type ProtocolError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Cause    error
}

func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

func (e *ProtocolError) Unwrap() error {
	return e.Cause
}

// Is matches on category and code, so wrapped copies of a sentinel still
// compare equal to it under errors.Is.
func (e *ProtocolError) Is(target error) bool {
	other, ok := target.(*ProtocolError)
	if !ok {
		return false
	}
	return e.Category == other.Category && e.Code == other.Code
}

// WithCause returns a copy of the error with an underlying cause attached.
func (e *ProtocolError) WithCause(cause error) *ProtocolError {
	return &ProtocolError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Cause:    cause,
	}
}

func newProtocolError(category ErrorCategory, code, message string) *ProtocolError {
	return &ProtocolError{Category: category, Code: code, Message: message}
}

var (
	// ErrEmptyKeySet is returned when key aggregation is attempted over zero
	// participant keys.
	ErrEmptyKeySet = newProtocolError(
		ErrorCategoryKeys, "EMPTY_KEY_SET",
		"key aggregation requires at least one participant key")

	// ErrInvalidKeyEncoding is returned when key or address material fails to
	// decode to a valid curve point.
	ErrInvalidKeyEncoding = newProtocolError(
		ErrorCategoryEncoding, "INVALID_KEY_ENCODING",
		"supplied bytes do not decode to a valid public key")

	// ErrMalformedNonce is returned when a public nonce has the wrong length
	// or is not a valid curve point.
	ErrMalformedNonce = newProtocolError(
		ErrorCategorySigning, "MALFORMED_NONCE",
		"public nonce is malformed")

	// ErrMalformedSignature is returned when a partial signature has the
	// wrong length or an invalid component.
	ErrMalformedSignature = newProtocolError(
		ErrorCategorySigning, "MALFORMED_SIGNATURE",
		"partial signature is malformed")

	// ErrContextMismatch is returned when round inputs were produced against
	// diverging transaction contexts. Partial signatures from different
	// contexts are never combinable.
	ErrContextMismatch = newProtocolError(
		ErrorCategorySigning, "CONTEXT_MISMATCH",
		"transaction context diverges across participants")

	// ErrInvalidThreshold is returned when a threshold is outside [1, n].
	ErrInvalidThreshold = newProtocolError(
		ErrorCategoryThreshold, "INVALID_THRESHOLD",
		"threshold must be between 1 and the participant count")

	// ErrDuplicateParticipant is returned when the same participant appears
	// twice in a key set, commitment set, or partial signature set.
	ErrDuplicateParticipant = newProtocolError(
		ErrorCategoryParticipant, "DUPLICATE_PARTICIPANT",
		"duplicate participant")

	// ErrUnknownParticipant is returned when round data arrives from a
	// participant that is not a member of the group wallet.
	ErrUnknownParticipant = newProtocolError(
		ErrorCategoryParticipant, "UNKNOWN_PARTICIPANT",
		"participant is not a member of the group")

	// ErrNonceReuse is returned when a secret nonce is presented for signing
	// a second time. A nonce is burned by its first use or by abandoning the
	// session it was created for.
	ErrNonceReuse = newProtocolError(
		ErrorCategorySigning, "NONCE_REUSE",
		"secret nonce has already been used")

	// ErrPartialVerifyFailed is returned when a participant's response does
	// not verify against its commitment and verification key.
	ErrPartialVerifyFailed = newProtocolError(
		ErrorCategorySigning, "PARTIAL_VERIFY_FAILED",
		"partial signature failed verification")

	// ErrSignatureVerifyFailed is returned when the combined signature does
	// not verify against the aggregated group key. Aggregation never returns
	// an unverified signature.
	ErrSignatureVerifyFailed = newProtocolError(
		ErrorCategorySigning, "SIGNATURE_VERIFY_FAILED",
		"aggregated signature failed verification against the group key")
)

// InsufficientSignaturesError is returned when fewer partial signatures than
// the group threshold are supplied to aggregation. This is the hard gate the
// protocol exists to enforce; it is checked before any combination work.
type InsufficientSignaturesError struct {
	Have int
	Need int
}

func (e *InsufficientSignaturesError) Error() string {
	return fmt.Sprintf("[threshold:INSUFFICIENT_SIGNATURES] have %d partial signatures, need %d", e.Have, e.Need)
}

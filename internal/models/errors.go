// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so transports can map them to a status code
// or a negative acknowledgment without inspecting messages.
type ErrorKind int

const (
	// KindUnknown is reported for errors outside the taxonomy.
	KindUnknown ErrorKind = iota
	// KindValidation covers missing or malformed input the caller can fix.
	KindValidation
	// KindAuth covers missing, invalid, expired or revoked credentials.
	KindAuth
	// KindConflict covers duplicate unique keys.
	KindConflict
	// KindNotFound covers lookups of entities that do not exist.
	KindNotFound
	// KindStorage covers persistence failures, transient or permanent.
	KindStorage
	// KindReferential covers writes that reference an unknown entity.
	KindReferential
)

// String returns the human-readable kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	case KindReferential:
		return "referential"
	default:
		return "unknown"
	}
}

// Reasons refine a kind.
const (
	ReasonIncompleteData     = "IncompleteData"
	ReasonInvalidPoint       = "InvalidPoint"
	ReasonMalformed          = "Malformed"
	ReasonUnauthorized       = "Unauthorized"
	ReasonIdentityMismatch   = "IdentityMismatch"
	ReasonEmailTaken         = "EmailTaken"
	ReasonNotFound           = "NotFound"
	ReasonUnknownTourist     = "UnknownTourist"
	ReasonStorageFailure     = "StorageFailure"
	ReasonStorageTimeout     = "StorageTimeout"
	ReasonStorageUnavailable = "StorageUnavailable"
)

// Error is a classified failure. Two *Error values match under errors.Is when
// their kinds are equal and the target's reason is empty or equal.
type Error struct {
	Kind      ErrorKind
	Reason    string
	Message   string
	Retryable bool
	Cause     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Reason == "" || t.Reason == e.Reason)
}

// Sentinel errors. Use Wrap or WithMessage to attach detail without losing
// errors.Is matching.
var (
	ErrValidation       = &Error{Kind: KindValidation, Message: "invalid request"}
	ErrIncompleteData   = &Error{Kind: KindValidation, Reason: ReasonIncompleteData, Message: "missing required fields"}
	ErrInvalidPoint     = &Error{Kind: KindValidation, Reason: ReasonInvalidPoint, Message: "coordinates out of range"}
	ErrMalformed        = &Error{Kind: KindValidation, Reason: ReasonMalformed, Message: "malformed payload"}
	ErrUnauthorized     = &Error{Kind: KindAuth, Reason: ReasonUnauthorized, Message: "unauthorized"}
	ErrIdentityMismatch = &Error{Kind: KindAuth, Reason: ReasonIdentityMismatch, Message: "credential does not match touristId"}
	ErrEmailTaken       = &Error{Kind: KindConflict, Reason: ReasonEmailTaken, Message: "email already registered"}
	ErrNotFound         = &Error{Kind: KindNotFound, Reason: ReasonNotFound, Message: "not found"}
	ErrUnknownTourist   = &Error{Kind: KindReferential, Reason: ReasonUnknownTourist, Message: "unknown tourist"}

	ErrStorage            = &Error{Kind: KindStorage, Reason: ReasonStorageFailure, Message: "storage failure", Retryable: true}
	ErrStorageTimeout     = &Error{Kind: KindStorage, Reason: ReasonStorageTimeout, Message: "storage timeout", Retryable: true}
	ErrStorageUnavailable = &Error{
		Kind:      KindStorage,
		Reason:    ReasonStorageUnavailable,
		Message:   "storage temporarily unavailable",
		Retryable: true,
	}
)

// Wrap returns a copy of base with cause attached.
func Wrap(base *Error, cause error) error {
	e := *base
	e.Cause = cause
	return &e
}

// WithMessage returns a copy of base with a more specific message.
func WithMessage(base *Error, msg string) error {
	e := *base
	e.Message = msg
	return &e
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ReasonOf returns the reason of the first *Error in err's chain.
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// IsRetryable reports whether the client may retry the failed operation.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// MessageOf returns the taxonomy message without the cause chain, or "".
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// Package apperr defines the closed set of error kinds the API can surface
// and translates persistence-layer failures into them. Every error reaching
// a handler boundary is shaped into a single {"message": ...} body with the
// status code owned by its kind.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidationFailed
	KindUnauthenticated
	KindForbidden
	KindDuplicateEmail
	KindDuplicatePlaceTitle
	KindCreatorNotFound
	KindPlaceNotFound
	KindNoPlacesFound
	KindInvalidCredentials
	KindGeocodingFailed
	KindBadID
	KindDocumentNotFound
	KindDuplicateKey
)

// Error is the tagged error type carried from workflows to the HTTP boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind with a client-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap is New with an underlying cause kept for diagnostics.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Status maps an error kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidationFailed, KindDuplicateEmail, KindGeocodingFailed:
		return http.StatusUnprocessableEntity
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden, KindInvalidCredentials:
		return http.StatusForbidden
	case KindDuplicatePlaceTitle, KindBadID, KindDuplicateKey:
		return http.StatusBadRequest
	case KindCreatorNotFound, KindPlaceNotFound, KindNoPlacesFound, KindDocumentNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Translate classifies an arbitrary error into an *Error. Recognized
// persistence-layer failures (missing document, duplicate key, malformed
// object id) get their own kinds; anything already an *Error passes
// through; the rest default to an unknown 500.
func Translate(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return Wrap(KindDocumentNotFound, "Document not found", err)
	}
	if mongo.IsDuplicateKeyError(err) {
		return Wrap(KindDuplicateKey, "Duplicate field value. Please use another value.", err)
	}
	if errors.Is(err, primitive.ErrInvalidHex) {
		return Wrap(KindBadID, "Invalid id.", err)
	}

	return Wrap(KindUnknown, "An unknown error ocurred", err)
}

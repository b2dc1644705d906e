// Package apperr classifies errors by what the shopper should see.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	Invalid      Kind = "invalid"
	NotFound     Kind = "not_found"
	Unauthorized Kind = "unauthorized"
	Forbidden    Kind = "forbidden"
	Unavailable  Kind = "unavailable"
	BadGateway   Kind = "bad_gateway"
	Internal     Kind = "internal"
)

const defaultMessage = "Something went wrong."

// AppError carries a kind, a message safe to show, and the internal cause
type AppError struct {
	Kind      Kind
	PublicMsg string
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.PublicMsg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.PublicMsg)
	}
	return string(e.Kind)
}

func (e *AppError) Unwrap() error { return e.Err }

func New(kind Kind, publicMsg string, err error) *AppError {
	return &AppError{Kind: kind, PublicMsg: publicMsg, Err: err}
}

func InvalidErr(publicMsg string) *AppError {
	return &AppError{Kind: Invalid, PublicMsg: publicMsg}
}

func NotFoundErr(publicMsg string) *AppError {
	return &AppError{Kind: NotFound, PublicMsg: publicMsg}
}

func UnauthorizedErr(publicMsg string) *AppError {
	return &AppError{Kind: Unauthorized, PublicMsg: publicMsg}
}

func ForbiddenErr(publicMsg string) *AppError {
	return &AppError{Kind: Forbidden, PublicMsg: publicMsg}
}

// Wrap marks an internal error with no public message (500)
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Kind: Internal, Err: err}
}

func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func Is(err error, kind Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == kind
}

func HTTPStatus(err error) int {
	if ae, ok := As(err); ok {
		switch ae.Kind {
		case Invalid:
			return http.StatusUnprocessableEntity
		case Unauthorized:
			return http.StatusUnauthorized
		case Forbidden:
			return http.StatusForbidden
		case NotFound:
			return http.StatusNotFound
		case Unavailable:
			return http.StatusServiceUnavailable
		case BadGateway:
			return http.StatusBadGateway
		}
	}
	return http.StatusInternalServerError
}

func PublicMessage(err error) string {
	if ae, ok := As(err); ok && ae.PublicMsg != "" {
		return ae.PublicMsg
	}
	return defaultMessage
}

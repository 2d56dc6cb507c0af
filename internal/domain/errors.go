package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfirmationRequired is returned when a destructive admin action is
// attempted without the operator confirming it.
var ErrConfirmationRequired = errors.New("confirmation required")

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// MissingFieldsError is the validation failure of a draft whose required
// text fields are blank.
type MissingFieldsError struct {
	Fields []string
}

func (e MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// ServiceUnavailableError reports that no drivers are expected at Hour.
type ServiceUnavailableError struct {
	Hour int
}

func (e ServiceUnavailableError) Error() string {
	return fmt.Sprintf("service unavailable at hour %02d", e.Hour)
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

type ConflictError struct {
	Resource string
	Msg      string
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

// NotificationDeliveryError wraps a failure to compose or send a driver
// notification. It is logged and recovered, never shown as a booking failure.
type NotificationDeliveryError struct {
	Channel string
	Err     error
}

func (e NotificationDeliveryError) Error() string {
	return fmt.Sprintf("notification via %s failed: %v", e.Channel, e.Err)
}

func (e NotificationDeliveryError) Unwrap() error { return e.Err }

// PersistenceError is a failure of the collection store underneath a
// repository. There is no retry or queue behind it.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s %q: %v", e.Op, e.Key, e.Err)
}

func (e PersistenceError) Unwrap() error { return e.Err }

// IsValidation matches both ValidationError and MissingFieldsError.
func IsValidation(err error) bool {
	var v ValidationError
	if errors.As(err, &v) {
		return true
	}
	var m MissingFieldsError
	return errors.As(err, &m)
}

func IsMissingFields(err error) bool {
	var target MissingFieldsError
	return errors.As(err, &target)
}

func IsServiceUnavailable(err error) bool {
	var target ServiceUnavailableError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsPersistence(err error) bool {
	var target PersistenceError
	return errors.As(err, &target)
}

func IsNotificationDelivery(err error) bool {
	var target NotificationDeliveryError
	return errors.As(err, &target)
}

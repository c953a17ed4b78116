package model

import "errors"

// The error kinds returned by the contact book. Every failing operation wraps exactly one of them,
// so callers can classify a failure with errors.Is.
var (
	ErrInvalidName         = errors.New("invalid name")
	ErrInvalidPhone        = errors.New("invalid phone number")
	ErrInvalidDate         = errors.New("invalid date")
	ErrPhoneNotFound       = errors.New("phone not found")
	ErrContactNotFound     = errors.New("contact not found")
	ErrEmptyBook           = errors.New("no contacts in phonebook")
	ErrNoUpcomingBirthdays = errors.New("no birthdays in the next 7 days")
	ErrNoBirthday          = errors.New("no birthday for this contact")
)

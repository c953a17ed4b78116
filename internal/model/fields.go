package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// BirthdayLayout is the only textual format accepted for birthdays (DD.MM.YYYY).
const BirthdayLayout = "02.01.2006"

// birthdayDisplayLayout renders a birthday with the full month name, e.g. "29 November, 1974".
const birthdayDisplayLayout = "02 January, 2006"

// validate checks raw field values before they are turned into value objects.
var validate = validator.New()

// MaxNameLength is the maximum number of letters in a name. It matches the name column of the SQL
// backends.
const MaxNameLength = 255

// Name is the name of a contact. It consists of letters only and never changes once created.
type Name struct {
	value string
}

// NewName validates the raw string and returns it as a Name. Empty strings, names longer than
// MaxNameLength letters and strings containing anything other than letters are rejected with
// ErrInvalidName.
func NewName(raw string) (Name, error) {
	if err := validate.Var(raw, fmt.Sprintf("required,alphaunicode,max=%d", MaxNameLength)); err != nil {
		return Name{}, fmt.Errorf("%w: %q", ErrInvalidName, raw)
	}
	return Name{value: raw}, nil
}

// String returns the name as entered.
func (n Name) String() string {
	return n.value
}

// Phone is a phone number of exactly ten decimal digits.
type Phone struct {
	value string
}

// NewPhone validates the raw string and returns it as a Phone. Anything that is not exactly ten
// digits is rejected with ErrInvalidPhone.
func NewPhone(raw string) (Phone, error) {
	if err := validate.Var(raw, "len=10,number"); err != nil {
		return Phone{}, fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
	return Phone{value: raw}, nil
}

// String returns the ten digits of the phone number.
func (p Phone) String() string {
	return p.value
}

// Birthday is a calendar date without a time of day.
type Birthday struct {
	value time.Time
}

// NewBirthday parses a date in the strict DD.MM.YYYY format. The input must be ten characters
// long, contain exactly two dots with digits in between, and denote a real calendar date, so
// "31.04.2021" and "29.02.2019" are rejected with ErrInvalidDate.
func NewBirthday(raw string) (Birthday, error) {
	if err := validate.Var(raw, "len=10,datetime="+BirthdayLayout); err != nil {
		return Birthday{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	if strings.Count(raw, ".") != 2 || !isDigits(strings.ReplaceAll(raw, ".", "")) {
		return Birthday{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	date, err := time.Parse(BirthdayLayout, raw)
	if err != nil || date.Year() < 1 {
		return Birthday{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return Birthday{value: date}, nil
}

// Time returns the birthday as midnight UTC of that date.
func (b Birthday) Time() time.Time {
	return b.value
}

// Format renders the birthday in the DD.MM.YYYY input format.
func (b Birthday) Format() string {
	return b.value.Format(BirthdayLayout)
}

// String renders the birthday for display, e.g. "02 March, 1969".
func (b Birthday) String() string {
	return b.value.Format(birthdayDisplayLayout)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

package shell

import (
	"errors"

	"gitlab.com/dirk.krummacker/contacts-book/internal/model"
)

const messageSomethingWrong = "Something went wrong."

// messages translates the error kinds of the address book into replies for the user.
var messages = []struct {
	kind error
	text string
}{
	{model.ErrInvalidPhone, "Phone number should contain only 10 digits."},
	{model.ErrInvalidName, "Name should contain only letters."},
	{model.ErrInvalidDate, "Date should be in format DD.MM.YYYY"},
	{model.ErrPhoneNotFound, "Phone not found."},
	{model.ErrContactNotFound, "Contact not found."},
	{model.ErrEmptyBook, "No contacts in phonebook."},
	{model.ErrNoUpcomingBirthdays, "No birthdays in the next 7 days."},
	{model.ErrNoBirthday, "No birthday for this contact."},
}

// message returns the reply for a failed command. Errors of unknown kind get a generic reply.
func message(err error) string {
	var usage usageError
	if errors.As(err, &usage) {
		return string(usage)
	}
	for _, m := range messages {
		if errors.Is(err, m.kind) {
			return m.text
		}
	}
	return messageSomethingWrong
}

package shell

import (
	"fmt"
	"strings"

	"gitlab.com/dirk.krummacker/contacts-book/internal/model"
)

// command is an entry of the command table. args is the exact number of arguments the command
// takes, or -1 if it ignores its arguments.
type command struct {
	args  int
	usage error
	run   func(s *Shell, args []string) (string, error)
}

// usageError reports a command that was called with the wrong number of arguments.
type usageError string

func (e usageError) Error() string {
	return string(e)
}

const (
	usageNameAndPhone    usageError = "Give me name and phone please."
	usageName            usageError = "Give me name please."
	usageNameAndBirthday usageError = "Give me name and birthday please."
)

// commands maps the lower case command names to their implementation. close and exit are handled
// by Execute itself.
var commands = map[string]command{
	"hello":         {args: -1, run: (*Shell).hello},
	"add":           {args: 2, usage: usageNameAndPhone, run: (*Shell).addContact},
	"change":        {args: 2, usage: usageNameAndPhone, run: (*Shell).changeContact},
	"phone":         {args: 1, usage: usageName, run: (*Shell).showContact},
	"all":           {args: -1, run: (*Shell).showAll},
	"birthdays":     {args: -1, run: (*Shell).birthdays},
	"add-birthday":  {args: 2, usage: usageNameAndBirthday, run: (*Shell).addBirthday},
	"show-birthday": {args: 1, usage: usageName, run: (*Shell).showBirthday},
	"delete":        {args: 1, usage: usageName, run: (*Shell).deleteContact},
	"remove-phone":  {args: 2, usage: usageNameAndPhone, run: (*Shell).removePhone},
}

func (s *Shell) hello(_ []string) (string, error) {
	return "How can I help you?", nil
}

// addContact creates a contact with one phone, replacing any contact of the same name. The phone
// is checked before the name.
func (s *Shell) addContact(args []string) (string, error) {
	if _, err := model.NewPhone(args[1]); err != nil {
		return "", err
	}
	name, err := model.NewName(args[0])
	if err != nil {
		return "", err
	}
	contact := model.NewContact(name)
	if err := contact.AddPhone(args[1]); err != nil {
		return "", err
	}
	s.book.Add(contact)
	return "Contact added.", nil
}

// changeContact replaces the first phone of an existing contact.
func (s *Shell) changeContact(args []string) (string, error) {
	contact, err := s.book.Find(args[0])
	if err != nil {
		return "", err
	}
	phones := contact.Phones()
	if len(phones) == 0 {
		return "", fmt.Errorf("%w: %s has no phone to change", model.ErrPhoneNotFound, args[0])
	}
	if err := contact.EditPhone(phones[0].String(), args[1]); err != nil {
		return "", err
	}
	return "Contact phone changed.", nil
}

// findContact validates the name before looking it up.
func (s *Shell) findContact(raw string) (*model.Contact, error) {
	name, err := model.NewName(raw)
	if err != nil {
		return nil, err
	}
	return s.book.Find(name.String())
}

func (s *Shell) showContact(args []string) (string, error) {
	contact, err := s.findContact(args[0])
	if err != nil {
		return "", err
	}
	return contact.String(), nil
}

func (s *Shell) showAll(_ []string) (string, error) {
	lines, err := s.book.ListAll()
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// birthdays prints one line per weekday, e.g. "Monday: Erika, Rudi".
func (s *Shell) birthdays(_ []string) (string, error) {
	upcoming, err := s.book.BirthdaysInNextWeek(s.now())
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(upcoming))
	for _, bucket := range upcoming {
		lines = append(lines, fmt.Sprintf("%s: %s", bucket.Weekday, strings.Join(bucket.Names, ", ")))
	}
	return strings.Join(lines, "\n"), nil
}

func (s *Shell) addBirthday(args []string) (string, error) {
	contact, err := s.findContact(args[0])
	if err != nil {
		return "", err
	}
	if err := contact.SetBirthday(args[1]); err != nil {
		return "", err
	}
	return "Birthday added.", nil
}

func (s *Shell) showBirthday(args []string) (string, error) {
	contact, err := s.findContact(args[0])
	if err != nil {
		return "", err
	}
	birthday, ok := contact.Birthday()
	if !ok {
		return "", model.ErrNoBirthday
	}
	return birthday.String(), nil
}

func (s *Shell) deleteContact(args []string) (string, error) {
	name, err := model.NewName(args[0])
	if err != nil {
		return "", err
	}
	if _, err := s.book.Delete(name.String()); err != nil {
		return "", err
	}
	return "Contact deleted.", nil
}

func (s *Shell) removePhone(args []string) (string, error) {
	contact, err := s.findContact(args[0])
	if err != nil {
		return "", err
	}
	if err := contact.RemovePhone(args[1]); err != nil {
		return "", err
	}
	return "Phone removed.", nil
}

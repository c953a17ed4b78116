package model

import (
	"fmt"
	"slices"
	"strings"
)

// Contact is the data structure for a person that we know. It has exactly one name, any number of
// phones in the order they were added, and an optional birthday.
type Contact struct {
	name     Name
	phones   []Phone
	birthday *Birthday
}

// NewContact creates a contact without phones and without a birthday.
func NewContact(name Name) *Contact {
	return &Contact{name: name}
}

// Name returns the name of the contact.
func (c *Contact) Name() Name {
	return c.name
}

// Phones returns a copy of the contact's phones in insertion order.
func (c *Contact) Phones() []Phone {
	return slices.Clone(c.phones)
}

// Birthday returns the contact's birthday. The second return value is false if no birthday has
// been set yet.
func (c *Contact) Birthday() (Birthday, bool) {
	if c.birthday == nil {
		return Birthday{}, false
	}
	return *c.birthday, true
}

// AddPhone validates the raw phone number and appends it. Duplicates are allowed.
func (c *Contact) AddPhone(raw string) error {
	phone, err := NewPhone(raw)
	if err != nil {
		return err
	}
	c.phones = append(c.phones, phone)
	return nil
}

// RemovePhone removes the first phone that equals raw.
func (c *Contact) RemovePhone(raw string) error {
	idx, err := c.indexOf(raw)
	if err != nil {
		return err
	}
	c.phones = slices.Delete(c.phones, idx, idx+1)
	return nil
}

// EditPhone replaces the first phone that equals oldRaw with newRaw, keeping its position. The
// contact is left untouched if oldRaw is not present or newRaw is not a valid phone.
func (c *Contact) EditPhone(oldRaw, newRaw string) error {
	idx, err := c.indexOf(oldRaw)
	if err != nil {
		return err
	}
	phone, err := NewPhone(newRaw)
	if err != nil {
		return err
	}
	c.phones[idx] = phone
	return nil
}

// FindPhone returns the first phone that equals raw.
func (c *Contact) FindPhone(raw string) (Phone, error) {
	idx, err := c.indexOf(raw)
	if err != nil {
		return Phone{}, err
	}
	return c.phones[idx], nil
}

// SetBirthday parses the raw date and replaces any birthday set before.
func (c *Contact) SetBirthday(raw string) error {
	birthday, err := NewBirthday(raw)
	if err != nil {
		return err
	}
	c.birthday = &birthday
	return nil
}

// indexOf scans the phones in insertion order and returns the position of the first match.
func (c *Contact) indexOf(raw string) (int, error) {
	idx := slices.IndexFunc(c.phones, func(p Phone) bool { return p.value == raw })
	if idx < 0 {
		return -1, fmt.Errorf("%w: %q", ErrPhoneNotFound, raw)
	}
	return idx, nil
}

// String renders the contact as a single line, for example:
//
//	Contact name: Erika, phones: 0815471100; 0123456789, birthday: 02 March, 1969
func (c *Contact) String() string {
	var sb strings.Builder
	sb.WriteString("Contact name: ")
	sb.WriteString(c.name.value)
	sb.WriteString(", phones: ")
	for i, p := range c.phones {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(p.value)
	}
	if c.birthday != nil {
		sb.WriteString(", birthday: ")
		sb.WriteString(c.birthday.String())
	}
	return sb.String()
}

package model

import (
	"fmt"
	"slices"
)

// AddressBook holds all contacts, keyed by name. Contacts are iterated in the order their name was
// first added.
type AddressBook struct {
	contacts map[string]*Contact
	order    []string
}

// NewAddressBook creates an empty address book.
func NewAddressBook() *AddressBook {
	return &AddressBook{contacts: make(map[string]*Contact)}
}

// Add stores the contact under its name. An existing contact with the same name is replaced
// without warning and keeps its position in the iteration order.
func (b *AddressBook) Add(contact *Contact) {
	key := contact.name.value
	if _, exists := b.contacts[key]; !exists {
		b.order = append(b.order, key)
	}
	b.contacts[key] = contact
}

// Find returns the contact stored under the exact name.
func (b *AddressBook) Find(name string) (*Contact, error) {
	contact, ok := b.contacts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrContactNotFound, name)
	}
	return contact, nil
}

// Delete removes the contact stored under the name and returns it.
func (b *AddressBook) Delete(name string) (*Contact, error) {
	contact, ok := b.contacts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrContactNotFound, name)
	}
	delete(b.contacts, name)
	if idx := slices.Index(b.order, name); idx >= 0 {
		b.order = slices.Delete(b.order, idx, idx+1)
	}
	return contact, nil
}

// Len returns the number of contacts in the book.
func (b *AddressBook) Len() int {
	return len(b.order)
}

// Contacts returns all contacts in iteration order. The slice is a copy; the contacts are not.
func (b *AddressBook) Contacts() []*Contact {
	contacts := make([]*Contact, 0, len(b.order))
	for _, name := range b.order {
		contacts = append(contacts, b.contacts[name])
	}
	return contacts
}

// ListAll renders every contact on its own line. It fails with ErrEmptyBook if there is nothing
// to list.
func (b *AddressBook) ListAll() ([]string, error) {
	if b.Len() == 0 {
		return nil, ErrEmptyBook
	}
	lines := make([]string, 0, b.Len())
	for _, contact := range b.Contacts() {
		lines = append(lines, contact.String())
	}
	return lines, nil
}

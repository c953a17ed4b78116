// Package storage persists an address book. All gateways write a complete snapshot of the book on
// save and rebuild it, re-validating every field, on load.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitlab.com/dirk.krummacker/contacts-book/internal/config"
	"gitlab.com/dirk.krummacker/contacts-book/internal/model"
)

// ErrNoData is returned by Load if nothing has been saved yet.
var ErrNoData = errors.New("storage: no saved address book")

// Gateway loads and saves a whole address book.
type Gateway interface {
	Load(ctx context.Context) (*model.AddressBook, error)
	Save(ctx context.Context, book *model.AddressBook) error
	Close() error
}

// Open creates the gateway for the configured backend. SQL backends get their schema applied.
func Open(ctx context.Context, cfg config.StorageConfig) (Gateway, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return NewFileGateway(cfg.File), nil
	case config.BackendMySQL, config.BackendPostgres, config.BackendSQLite:
		gateway, err := OpenSQL(cfg.Backend, cfg.DataSourceName())
		if err != nil {
			return nil, err
		}
		if err := gateway.Migrate(ctx); err != nil {
			gateway.Close()
			return nil, err
		}
		return gateway, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// contactRecord is the stored form of one contact.
type contactRecord struct {
	Name     string
	Phones   []string
	Birthday *time.Time
}

// bookSnapshot is the stored form of a whole address book, contacts in iteration order.
type bookSnapshot struct {
	Contacts []contactRecord
}

// snapshotOf copies the book into its stored form.
func snapshotOf(book *model.AddressBook) bookSnapshot {
	var snapshot bookSnapshot
	for _, contact := range book.Contacts() {
		record := contactRecord{Name: contact.Name().String()}
		for _, phone := range contact.Phones() {
			record.Phones = append(record.Phones, phone.String())
		}
		if birthday, ok := contact.Birthday(); ok {
			t := birthday.Time()
			record.Birthday = &t
		}
		snapshot.Contacts = append(snapshot.Contacts, record)
	}
	return snapshot
}

// restore rebuilds an address book from its stored form. Stored values go through the same
// validation as user input, so a tampered or outdated snapshot is rejected as a whole.
func restore(snapshot bookSnapshot) (*model.AddressBook, error) {
	book := model.NewAddressBook()
	for _, record := range snapshot.Contacts {
		name, err := model.NewName(record.Name)
		if err != nil {
			return nil, fmt.Errorf("invalid stored contact: %w", err)
		}
		contact := model.NewContact(name)
		for _, phone := range record.Phones {
			if err := contact.AddPhone(phone); err != nil {
				return nil, fmt.Errorf("invalid stored contact %q: %w", record.Name, err)
			}
		}
		if record.Birthday != nil {
			if err := contact.SetBirthday(record.Birthday.Format(model.BirthdayLayout)); err != nil {
				return nil, fmt.Errorf("invalid stored contact %q: %w", record.Name, err)
			}
		}
		book.Add(contact)
	}
	return book, nil
}

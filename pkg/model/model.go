package model

import "time"

// Contact is the JSON representation of a person in the contact book. The birthday is omitted if
// it has not been set.
type Contact struct {
	Name     string     `json:"name"`
	Phones   []string   `json:"phones"`
	Birthday *time.Time `json:"birthday,omitempty"`
}

// BirthdayBucket is the JSON representation of the contacts to congratulate on one weekday.
type BirthdayBucket struct {
	Weekday string   `json:"weekday"`
	Names   []string `json:"names"`
}

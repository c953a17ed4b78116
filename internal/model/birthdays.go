package model

import (
	"slices"
	"time"
)

// windowDays is the length of the birthday window, counted from today inclusive.
const windowDays = 7

// BirthdayBucket lists the contacts to congratulate on one weekday.
type BirthdayBucket struct {
	Weekday string
	Names   []string
}

// UpcomingBirthdays is the result of a window query. Buckets appear in the order in which they were
// first filled.
type UpcomingBirthdays []BirthdayBucket

// Names returns the names in the bucket for the weekday, or nil if there is no such bucket.
func (u UpcomingBirthdays) Names(weekday string) []string {
	for _, bucket := range u {
		if bucket.Weekday == weekday {
			return bucket.Names
		}
	}
	return nil
}

func (u *UpcomingBirthdays) add(weekday string, name string) {
	for i := range *u {
		if (*u)[i].Weekday == weekday {
			(*u)[i].Names = append((*u)[i].Names, name)
			return
		}
	}
	*u = append(*u, BirthdayBucket{Weekday: weekday, Names: []string{name}})
}

type birthdayCandidate struct {
	name     string
	birthday time.Time
}

// BirthdaysInNextWeek returns the contacts whose next birthday falls within seven days starting
// with today. Contacts are grouped by the weekday of that birthday. A birthday on a Saturday or
// Sunday is listed under Monday, but only when today is a Tuesday, Wednesday, Thursday or Friday;
// otherwise it is dropped. Within a bucket, contacts are ordered by their full date of birth.
//
// Only the calendar date of today is used. The query fails with ErrNoUpcomingBirthdays if no
// birthday falls within the window.
func (b *AddressBook) BirthdaysInNextWeek(today time.Time) (UpcomingBirthdays, error) {
	today = dateOf(today)

	var candidates []birthdayCandidate
	for _, contact := range b.Contacts() {
		if birthday, ok := contact.Birthday(); ok {
			candidates = append(candidates, birthdayCandidate{
				name:     contact.name.value,
				birthday: birthday.Time(),
			})
		}
	}
	slices.SortStableFunc(candidates, func(x, y birthdayCandidate) int {
		return x.birthday.Compare(y.birthday)
	})

	var upcoming UpcomingBirthdays
	for _, candidate := range candidates {
		next := anniversary(candidate.birthday, today.Year())
		if next.Before(today) {
			next = anniversary(candidate.birthday, today.Year()+1)
		}
		if daysBetween(today, next) >= windowDays {
			continue
		}
		switch next.Weekday() {
		case time.Saturday, time.Sunday:
			if movesWeekendToMonday(today) {
				upcoming.add(time.Monday.String(), candidate.name)
			}
		default:
			upcoming.add(next.Weekday().String(), candidate.name)
		}
	}
	if len(upcoming) == 0 {
		return nil, ErrNoUpcomingBirthdays
	}
	return upcoming, nil
}

// movesWeekendToMonday reports whether weekend birthdays are listed under Monday when the query
// runs on the given day. This is the case from Tuesday to Friday only.
func movesWeekendToMonday(today time.Time) bool {
	switch today.Weekday() {
	case time.Monday, time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// anniversary returns the birthday's month and day in the given year. February 29 becomes March 1
// in years without a leap day.
func anniversary(birthday time.Time, year int) time.Time {
	return time.Date(year, birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
}

// dateOf strips the time of day and the location, keeping the calendar date as seen by t.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// Package shell implements the interactive command loop of the contact book. It reads one command
// per line, runs it against the address book and prints the reply. The address book is loaded
// when the loop starts and saved when it ends.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contacts-book/internal/model"
	"gitlab.com/dirk.krummacker/contacts-book/internal/storage"
)

const (
	greeting = "Welcome to the assistant bot!"
	prompt   = "Enter a command: "
	goodbye  = "Good bye!"
)

// Shell runs commands against one address book.
type Shell struct {
	gateway storage.Gateway
	log     *zap.Logger
	now     func() time.Time
	book    *model.AddressBook
}

// Option configures a Shell.
type Option func(*Shell)

// WithClock sets the clock used to determine "today" for the birthdays command.
func WithClock(now func() time.Time) Option {
	return func(s *Shell) {
		s.now = now
	}
}

// WithLogger sets the diagnostic logger. Without it, nothing is logged.
func WithLogger(log *zap.Logger) Option {
	return func(s *Shell) {
		s.log = log
	}
}

// New creates a shell with an empty address book that is persisted through the gateway.
func New(gateway storage.Gateway, opts ...Option) *Shell {
	s := &Shell{
		gateway: gateway,
		log:     zap.NewNop(),
		now:     time.Now,
		book:    model.NewAddressBook(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Book returns the address book the shell works on.
func (s *Shell) Book() *model.AddressBook {
	return s.book
}

// Load replaces the address book with the one from the gateway. If nothing can be loaded, the
// shell starts with an empty book; the reason is only logged.
func (s *Shell) Load(ctx context.Context) {
	book, err := s.gateway.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNoData):
		s.log.Info("no saved address book, starting empty")
		book = model.NewAddressBook()
	case err != nil:
		s.log.Warn("could not load address book, starting empty", zap.Error(err))
		book = model.NewAddressBook()
	default:
		s.log.Info("address book loaded", zap.Int("contacts", book.Len()))
	}
	s.book = book
}

// Save persists the address book through the gateway.
func (s *Shell) Save(ctx context.Context) error {
	if err := s.gateway.Save(ctx, s.book); err != nil {
		s.log.Error("could not save address book", zap.Error(err))
		return err
	}
	s.log.Info("address book saved", zap.Int("contacts", s.book.Len()))
	return nil
}

// Run loads the address book, then reads and executes commands from in until a close or exit
// command or the end of the input, and finally saves the book. Replies are written to out.
func (s *Shell) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	s.Load(ctx)
	fmt.Fprintln(out, greeting)

	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				s.log.Error("could not read input", zap.Error(err))
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, goodbye)
			break
		}
		reply, exit := s.Execute(scanner.Text())
		if reply != "" {
			fmt.Fprintln(out, reply)
		}
		if exit {
			break
		}
	}
	return s.Save(ctx)
}

// Execute runs a single line of input and returns the text to print. exit is true if the line
// asked to end the session. A failing or even panicking command never ends the session; its error
// is turned into a message.
func (s *Shell) Execute(line string) (reply string, exit bool) {
	name, args := parseInput(line)
	if name == "" {
		return "", false
	}
	if name == "close" || name == "exit" {
		return goodbye, true
	}
	cmd, ok := commands[name]
	if !ok {
		return "Invalid command.", false
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("command failed unexpectedly",
				zap.String("command", name), zap.Any("panic", r), zap.Stack("stack"))
			reply, exit = messageSomethingWrong, false
		}
	}()

	if cmd.args >= 0 && len(args) != cmd.args {
		return message(cmd.usage), false
	}
	reply, err := cmd.run(s, args)
	if err != nil {
		s.log.Debug("command rejected", zap.String("command", name), zap.Error(err))
		return message(err), false
	}
	return reply, false
}

// parseInput splits a line at white space. The command name is returned in lower case.
func parseInput(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

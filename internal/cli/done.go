package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/calvinalkan/noe/internal/store"

	flag "github.com/spf13/pflag"
)

var (
	errNumberRequired = errors.New("note number is required")
	errInvalidNumber  = errors.New("invalid note number")
)

// DoneCmd returns the done command.
func DoneCmd(sess *Session) *Command {
	return markCmd(sess, "done", true)
}

// UndoneCmd returns the undone command.
func UndoneCmd(sess *Session) *Command {
	return markCmd(sess, "undone", false)
}

func markCmd(sess *Session, name string, done bool) *Command {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	return &Command{
		Flags: fs,
		Usage: name + " <number>",
		Short: "Mark note " + name,
		Long: "Mark a note " + name + `.

A number without a note is accepted and changes nothing.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			number, err := parseNumberArg(args)
			if err != nil {
				return err
			}

			err = sess.Write(ctx, func(s *store.Store) error {
				return s.SetDone(ctx, number, done)
			})
			if err != nil {
				return err
			}

			io.Printf("Marked note #%d %s\n", number, name)

			return nil
		},
	}
}

// parseNumberArg reads the single positional note number.
func parseNumberArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, errNumberRequired
	}

	if len(args) > 1 {
		return 0, fmt.Errorf("%w: unexpected argument %q", errInvalidNumber, args[1])
	}

	number, err := strconv.Atoi(args[0])
	if err != nil || number < 1 || number > store.MaxNumber {
		return 0, fmt.Errorf("%w: %s (must be 1-%d)", errInvalidNumber, args[0], store.MaxNumber)
	}

	return number, nil
}

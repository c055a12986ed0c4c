package cli

import (
	"context"

	"github.com/calvinalkan/noe/internal/store"

	flag "github.com/spf13/pflag"
)

// RemoveCmd returns the remove command.
func RemoveCmd(sess *Session) *Command {
	fs := flag.NewFlagSet("remove", flag.ContinueOnError)

	return &Command{
		Flags: fs,
		Usage: "remove <number>",
		Short: "Remove note",
		Long: `Remove a note. Its number can be requested again with new --number.

A number without a note is accepted and changes nothing.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			number, err := parseNumberArg(args)
			if err != nil {
				return err
			}

			err = sess.Write(ctx, func(s *store.Store) error {
				return s.Remove(ctx, number)
			})
			if err != nil {
				return err
			}

			io.Printf("Removed note #%d\n", number)

			return nil
		},
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/calvinalkan/noe/internal/store"

	flag "github.com/spf13/pflag"
)

var (
	errTextRequired = errors.New("note text is required")
	errTooManyArgs  = errors.New("too many arguments (quote the note text)")
	errNumberTooLow = errors.New("--number must be at least 1")
)

// NewCmd returns the new command.
func NewCmd(sess *Session) *Command {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	fs.IntP("number", "n", 0, fmt.Sprintf("Use this number if it is free (1-%d)", store.MaxNumber))

	return &Command{
		Flags: fs,
		Usage: "new <text> [flags]",
		Short: "Create a note, prints its number",
		Long: `Create a note. Prints the assigned number on success.

Notes are numbered one above the highest existing number. With --number the
given number is used when it is free; a taken number silently falls back to
the next one. Write \n in the text for a line break.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execNew(ctx, io, sess, fs, args)
		},
	}
}

func execNew(ctx context.Context, io *IO, sess *Session, fs *flag.FlagSet, args []string) error {
	if len(args) == 0 || args[0] == "" {
		return errTextRequired
	}

	if len(args) > 1 {
		return errTooManyArgs
	}

	requested, _ := fs.GetInt("number")
	if fs.Changed("number") && requested < 1 {
		return errNumberTooLow
	}

	var number int

	err := sess.Write(ctx, func(s *store.Store) error {
		var createErr error

		number, createErr = s.Create(ctx, args[0], requested)

		return createErr
	})
	if err != nil {
		return err
	}

	io.Printf("Added note #%d\n", number)

	return nil
}

package cli

import (
	"context"

	"github.com/calvinalkan/noe/internal/notebook"

	flag "github.com/spf13/pflag"
)

// ExplodeCmd returns the explode command.
func ExplodeCmd(sess *Session) *Command {
	return &Command{
		Flags: flag.NewFlagSet("explode", flag.ContinueOnError),
		Usage: "explode",
		Short: "Delete all notes",
		Long:  "Delete the notes file and every note in it. There is no undo.",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			err := sess.Reset(ctx, notebook.Explode)
			if err != nil {
				return err
			}

			io.Println("Notes exploded")

			return nil
		},
	}
}

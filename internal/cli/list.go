package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/calvinalkan/noe/internal/store"

	flag "github.com/spf13/pflag"
)

// ListCmd returns the list command.
func ListCmd(sess *Session) *Command {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.BoolP("all", "a", false, "List all notes")
	fs.BoolP("done", "d", false, "List only done notes")

	return &Command{
		Flags: fs,
		Usage: "list [flags]",
		Short: "List notes",
		Long: `List notes that are not done yet.

--done lists only done notes, --all lists every note (and wins over --done).
A literal \n in a note is shown as a line break.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execList(ctx, io, sess, fs)
		},
	}
}

func execList(ctx context.Context, io *IO, sess *Session, fs *flag.FlagSet) error {
	all, _ := fs.GetBool("all")
	onlyDone, _ := fs.GetBool("done")

	filter := filterFromFlags(all, onlyDone)

	var notes []store.Note

	err := sess.Read(ctx, func(s *store.Store) error {
		var listErr error

		notes, listErr = s.List(ctx)

		return listErr
	})
	if err != nil {
		return err
	}

	for _, note := range notes {
		if filter.keep(note) {
			io.Println(formatNote(note))
		}
	}

	return nil
}

// listFilter selects which notes list shows. The store always returns every note.
type listFilter int

const (
	filterIncomplete listFilter = iota
	filterComplete
	filterAll
)

func filterFromFlags(all, onlyDone bool) listFilter {
	switch {
	case all:
		return filterAll
	case onlyDone:
		return filterComplete
	default:
		return filterIncomplete
	}
}

func (f listFilter) keep(note store.Note) bool {
	switch f {
	case filterAll:
		return true
	case filterComplete:
		return note.Done
	default:
		return !note.Done
	}
}

// formatNote renders a note header line followed by its text with literal
// \n sequences expanded. The result has no trailing newline.
func formatNote(note store.Note) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "  #%d:", note.Number)

	if note.Done {
		builder.WriteString(" done!")
	}

	builder.WriteString("\n")
	builder.WriteString(strings.ReplaceAll(note.Text, `\n`, "\n"))

	return builder.String()
}

package cli

import (
	"context"
	"path/filepath"

	"github.com/calvinalkan/noe/internal/notebook"
	"github.com/calvinalkan/noe/internal/store"

	flag "github.com/spf13/pflag"
)

// ExportCmd returns the export command.
func ExportCmd(sess *Session) *Command {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.String("format", notebook.FormatJSON, "Output format: json|yaml")
	fs.StringP("output", "o", "", "Write to file instead of stdout (replaced atomically)")

	return &Command{
		Flags: fs,
		Usage: "export [flags]",
		Short: "Dump all notes as JSON or YAML",
		Long:  "Dump every note, sorted by number, as JSON or YAML. Text is written as stored.",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execExport(ctx, io, sess, fs)
		},
	}
}

func execExport(ctx context.Context, io *IO, sess *Session, fs *flag.FlagSet) error {
	format, _ := fs.GetString("format")
	output, _ := fs.GetString("output")

	var notes []store.Note

	err := sess.Read(ctx, func(s *store.Store) error {
		var listErr error

		notes, listErr = s.List(ctx)

		return listErr
	})
	if err != nil {
		return err
	}

	if output == "" {
		return notebook.Export(io.out, notes, format)
	}

	cfg, err := sess.Config()
	if err != nil {
		return err
	}

	path := output
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.EffectiveCwd, path)
	}

	err = notebook.ExportFile(path, notes, format)
	if err != nil {
		return err
	}

	io.Printf("Exported %d notes to %s\n", len(notes), path)

	return nil
}

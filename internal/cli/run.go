// Package cli implements the noe command line: global flags, command
// dispatch and output.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/calvinalkan/noe/internal/notebook"

	flag "github.com/spf13/pflag"
)

// debugEnv enables debug logging when set to a non-empty value other than "0".
const debugEnv = "NOE_DEBUG"

type globalFlags struct {
	workDir    string
	configPath string
	file       string
	driver     string
	debug      bool
	help       bool
	remaining  []string
}

// Run is the main entry point. Returns exit code.
// sigCh may be nil; a signal on it cancels the running command.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	o := NewIO(stdin, out, errOut)

	fs := newGlobalFlagSet()

	if len(args) < 2 {
		printUsage(o.ErrPrintln, fs, nil)

		return 1
	}

	flags, err := parseGlobalFlags(fs, args[1:])
	if err != nil {
		o.ErrPrintln("error:", err)
		printUsage(o.ErrPrintln, fs, nil)

		return 1
	}

	log := newLogger(errOut, flags.debug || debugEnabled(env))

	sess := NewSession(notebook.LoadConfigInput{
		WorkDirOverride: flags.workDir,
		ConfigPath:      flags.configPath,
		FileOverride:    flags.file,
		DriverOverride:  flags.driver,
		Env:             env,
	}, &log)

	commands := commandSet(sess, env)

	if flags.help {
		printUsage(o.Println, fs, commands)

		return 0
	}

	if len(flags.remaining) == 0 {
		printUsage(o.ErrPrintln, fs, commands)

		return 1
	}

	cmd, err := findCommand(commands, flags.remaining[0])
	if err != nil {
		o.ErrPrintln("error:", err)
		printUsage(o.ErrPrintln, fs, commands)

		return 1
	}

	return cmd.Run(ctx, o, flags.remaining[1:])
}

// commandSet lists every command in help order. The shell gets its own
// builder without itself so it cannot be nested.
func commandSet(sess *Session, env map[string]string) []*Command {
	base := func() []*Command {
		return []*Command{
			ListCmd(sess),
			NewCmd(sess),
			DoneCmd(sess),
			UndoneCmd(sess),
			RemoveCmd(sess),
			ExplodeCmd(sess),
			ExportCmd(sess),
			PrintConfigCmd(sess),
		}
	}

	return append(base(), ShellCmd(sess, env, base))
}

func newGlobalFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("noe", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(false)

	fs.StringP("cwd", "C", "", "Run as if started in `dir`")
	fs.StringP("config", "c", "", "Use specified config `file`")
	fs.StringP("file", "f", "", "Notes `file` or directory (default ~/"+notebook.DefaultFileName+")")
	fs.String("driver", "", "SQLite driver: sqlite3|sqlite")
	fs.Bool("debug", false, "Log debug events to stderr (or set "+debugEnv+"=1)")
	fs.BoolP("help", "h", false, "Show help")

	return fs
}

func parseGlobalFlags(fs *flag.FlagSet, args []string) (globalFlags, error) {
	err := fs.Parse(args)
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		return globalFlags{}, err
	}

	var flags globalFlags

	flags.workDir, _ = fs.GetString("cwd")
	flags.configPath, _ = fs.GetString("config")
	flags.file, _ = fs.GetString("file")
	flags.driver, _ = fs.GetString("driver")
	flags.debug, _ = fs.GetBool("debug")
	flags.help, _ = fs.GetBool("help")
	flags.help = flags.help || errors.Is(err, flag.ErrHelp)
	flags.remaining = fs.Args()

	for _, name := range []string{"cwd", "config", "file", "driver"} {
		v, _ := fs.GetString(name)
		if fs.Changed(name) && v == "" {
			return globalFlags{}, fmt.Errorf("empty value not allowed: --%s", name)
		}
	}

	return flags, nil
}

func debugEnabled(env map[string]string) bool {
	v := env[debugEnv]

	return v != "" && v != "0" && !strings.EqualFold(v, "false")
}

func newLogger(w io.Writer, debug bool) zerolog.Logger {
	if !debug {
		return zerolog.Nop()
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Logger()
}

func printUsage(println func(a ...any), fs *flag.FlagSet, commands []*Command) {
	println(`noe - personal note ledger

Usage: noe [flags] <command> [args]

Global flags:`)
	println(strings.TrimRight(fs.FlagUsages(), "\n"))

	if len(commands) == 0 {
		return
	}

	println()
	println("Commands:")

	for _, cmd := range commands {
		println(cmd.HelpLine())
	}

	println()
	println("Commands may be shortened to any unambiguous prefix (l = list).")
}

package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/peterh/liner"
	"golang.org/x/term"

	flag "github.com/spf13/pflag"
)

const (
	shellPrompt      = "noe> "
	historyFileName  = ".noe_history"
	shellHistoryKeep = 1000
)

var errUnterminatedQuote = errors.New("unterminated quote")

// lineReader is the part of [liner.State] the shell loop uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// ShellCmd returns the shell command. commands builds a fresh command set
// per line so flag values never leak from one line to the next.
func ShellCmd(sess *Session, env map[string]string, commands func() []*Command) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Interactive prompt",
		Long: `Read commands line by line and run them against the same notes file.

Quote note text with spaces: new "buy milk". Type help for commands and
exit (or Ctrl-D) to leave. History is kept in ~/` + historyFileName + ` when
stdin is a terminal.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			historyPath := ""
			if home := env["HOME"]; home != "" {
				historyPath = filepath.Join(home, historyFileName)
			}

			reader, interactive := newLineReader(o.in, historyPath, commands)

			defer func() { _ = reader.Close() }()

			err := runShell(ctx, o, reader, commands)

			if interactive && historyPath != "" {
				saveHistory(reader, historyPath)
			}

			return err
		},
	}
}

func runShell(ctx context.Context, o *IO, reader lineReader, commands func() []*Command) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line, err := reader.Prompt(shellPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		reader.AppendHistory(line)

		words, err := splitWords(line)
		if err != nil {
			o.ErrPrintln("error:", err)

			continue
		}

		switch words[0] {
		case "exit", "quit", "q":
			return nil
		case "help", "?":
			for _, cmd := range commands() {
				o.Println(cmd.HelpLine())
			}

			o.Println("  exit")

			continue
		}

		cmd, err := findCommand(commands(), words[0])
		if err != nil {
			o.ErrPrintln("error:", err)

			continue
		}

		_ = cmd.Run(ctx, o, words[1:])
	}
}

// newLineReader uses liner when stdin is the process terminal and a plain
// line scanner otherwise (pipes, tests).
func newLineReader(in io.Reader, historyPath string, commands func() []*Command) (lineReader, bool) {
	if f, ok := in.(*os.File); ok && f == os.Stdin && term.IsTerminal(int(f.Fd())) {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)
		state.SetCompleter(func(line string) []string {
			return completeCommand(commands(), line)
		})

		if historyPath != "" {
			if history, err := os.Open(historyPath); err == nil {
				_, _ = state.ReadHistory(history)
				_ = history.Close()
			}
		}

		return state, true
	}

	if in == nil {
		in = strings.NewReader("")
	}

	return &scanReader{scanner: bufio.NewScanner(in)}, false
}

// completeCommand returns the command names (and exit) starting with line.
// Once the line holds a full word there is nothing left to complete.
func completeCommand(commands []*Command, line string) []string {
	if strings.ContainsAny(line, " \t") {
		return nil
	}

	var out []string

	for _, cmd := range commands {
		if strings.HasPrefix(cmd.Name(), line) {
			out = append(out, cmd.Name())
		}
	}

	if strings.HasPrefix("exit", line) {
		out = append(out, "exit")
	}

	return out
}

// saveHistory replaces the history file in one step so a crash never
// leaves it half written.
func saveHistory(reader lineReader, path string) {
	state, ok := reader.(*liner.State)
	if !ok {
		return
	}

	var buf bytes.Buffer

	err := writeHistory(&buf, state, shellHistoryKeep)
	if err != nil {
		return
	}

	_ = atomic.WriteFile(path, &buf)
}

// historyWriter is the part of [liner.State] that dumps history.
type historyWriter interface {
	WriteHistory(w io.Writer) (int, error)
}

// writeHistory writes at most keep of the newest history lines to w.
func writeHistory(w io.Writer, src historyWriter, keep int) error {
	var buf bytes.Buffer

	_, err := src.WriteHistory(&buf)
	if err != nil {
		return fmt.Errorf("dump history: %w", err)
	}

	raw := strings.TrimRight(buf.String(), "\n")
	if raw == "" {
		return nil
	}

	lines := strings.Split(raw, "\n")
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}

	_, err = io.WriteString(w, strings.Join(lines, "\n")+"\n")
	if err != nil {
		return fmt.Errorf("write history: %w", err)
	}

	return nil
}

// scanReader reads lines without prompting or history.
type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}

	err := r.scanner.Err()
	if err != nil {
		return "", err
	}

	return "", io.EOF
}

func (r *scanReader) AppendHistory(string) {}

func (r *scanReader) Close() error { return nil }

// splitWords splits a shell line into words. Single quotes keep everything
// literally; double quotes allow \" and \\. Outside single quotes a backslash
// only escapes a quote, a backslash or whitespace, so a note's \n survives.
func splitWords(line string) ([]string, error) {
	var (
		words   []string
		current strings.Builder
		inWord  bool
		quote   rune
	)

	runes := []rune(line)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\\' && i+1 < len(runes) && isEscapable(runes[i+1], quote):
			i++
			current.WriteRune(runes[i])
			inWord = true
		case quote == '"':
			if r == '"' {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				words = append(words, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}

	if quote != 0 {
		return nil, errUnterminatedQuote
	}

	if inWord {
		words = append(words, current.String())
	}

	return words, nil
}

func isEscapable(r rune, quote rune) bool {
	if quote == '"' {
		return r == '"' || r == '\\'
	}

	return r == '"' || r == '\'' || r == '\\' || r == ' ' || r == '\t'
}

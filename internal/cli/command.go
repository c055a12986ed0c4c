package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command defines a CLI command with unified help generation.
type Command struct {
	// Flags defines command-specific flags.
	// The FlagSet name is not used - command identity comes from Usage.
	Flags *flag.FlagSet

	// Usage is the freeform usage string shown after "noe" in help.
	// Includes the command name and arguments/flags.
	// Examples: "new <text> [flags]", "done <number>", "list [flags]"
	Usage string

	// Short is a one-line description for the global help listing.
	Short string

	// Long is the full description shown in command help.
	// If empty, Short is used instead.
	Long string

	// Exec runs the command after flags are parsed.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-28s %s", c.Usage, c.Short)
}

// PrintHelp prints the full help output for "noe <cmd> --help".
func (c *Command) PrintHelp(o *IO) {
	c.printHelp(o.Println)
}

func (c *Command) printHelp(println func(a ...any)) {
	println("Usage: noe", c.Usage)
	println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	println(desc)

	if c.Flags != nil && c.Flags.HasFlags() {
		println()
		println("Flags:")
		println(strings.TrimRight(c.Flags.FlagUsages(), "\n"))
	}
}

// Run parses flags and executes the command. Returns exit code.
// Handles error printing internally for consistent output ordering.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(&strings.Builder{}) // discard pflag output

	err := c.Flags.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)
			return 0
		}
		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.printHelp(o.ErrPrintln)
		return 1
	}

	if err := c.Exec(ctx, o, c.Flags.Args()); err != nil {
		o.ErrPrintln("error:", err)
		return 1
	}

	return 0
}

var (
	errUnknownCommand   = errors.New("unknown command")
	errAmbiguousCommand = errors.New("ambiguous command")
)

// findCommand resolves name to a command. Any unambiguous prefix of a
// command name is accepted; an exact match always wins.
func findCommand(commands []*Command, name string) (*Command, error) {
	var matches []*Command

	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd, nil
		}

		if name != "" && strings.HasPrefix(cmd.Name(), name) {
			matches = append(matches, cmd)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", errUnknownCommand, name)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, 0, len(matches))
		for _, cmd := range matches {
			names = append(names, cmd.Name())
		}

		return nil, fmt.Errorf("%w: %s (could be %s)", errAmbiguousCommand, name, strings.Join(names, ", "))
	}
}

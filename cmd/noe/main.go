// Package main is the noe binary: a personal note ledger kept in one
// SQLite file under the home directory.
package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/calvinalkan/noe/internal/cli"
)

func main() {
	os.Exit(run(os.Args, os.Environ()))
}

// run wires process state into [cli.Run]. Signal delivery stops before it
// returns so a late Ctrl-C falls back to the default handler.
func run(args, environ []string) int {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	defer signal.Stop(sigCh)

	return cli.Run(os.Stdin, os.Stdout, os.Stderr, args, envMap(environ), sigCh)
}

// envMap turns KEY=VALUE pairs into a map. Entries without "=" are skipped;
// a later duplicate key wins, as with getenv.
func envMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))

	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}

		env[key] = value
	}

	return env
}

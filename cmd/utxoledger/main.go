// Command utxoledger operates a conditional UTXO ledger from the command line:
// key and hash-lock helpers for building transactions, and validate, submit
// and inspection commands against the stores configured in settings.conf.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const progname = "utxoledger"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  progname,
		Usage: "validate, execute and inspect conditional UTXO transfers",
		Commands: []*cli.Command{
			keygenCommand(),
			hashlockCommand(),
			creditCommand(),
			validateCommand(),
			submitCommand(),
			dumpCommand(),
			accountCommand(),
			healthCommand(),
		},
	}
}

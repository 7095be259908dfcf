// tagtext - hide text in invisible Unicode tag characters
//
// Usage:
//
//	tagtext                    Interactive menu
//	tagtext -e|--encode TEXT   Print the hidden form of TEXT, quoted
//	tagtext -d|--decode TEXT   Reveal TEXT (one layer of quotes is stripped)
//	tagtext -h|--help          Print usage
//
// Set TAGTEXT_CONFIG to a YAML file to configure logging, memo caching,
// highlighting and the strict encode policy.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/unkn0wn-root/tagtext/internal/cli"
	"github.com/unkn0wn-root/tagtext/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app, err := cli.New(cfg, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer app.Close()

	return app.Run(ctx, os.Args[1:])
}

/* main.go
 * Entry point of the tournament runner. The commands live in cli
 * Usage: robocup-tournament --config=<file> [--key=value ...]
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"robocup-tournament/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, os.Args[1:], cli.Streams{Out: os.Stdout, Err: os.Stderr})
	interrupted := ctx.Err() != nil
	stop()

	os.Exit(exitCode(os.Stderr, err, interrupted))
}

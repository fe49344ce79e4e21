package main

import (
	"context"
	"os"

	"github.com/roach88/hyperpipe/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:]))
}

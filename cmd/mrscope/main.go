package main

import (
	"os"

	"github.com/dshills/mrscope/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}

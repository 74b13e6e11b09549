package main

import (
	"os"

	"github.com/thenoetrevino/funil/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

package main

import (
	"os"

	"docvet/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

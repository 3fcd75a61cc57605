package main

import (
	"os"

	"github.com/paulexconde/surveybuilder/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

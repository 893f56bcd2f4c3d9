package main

import (
	"os"

	"github.com/llehouerou/audiotag/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

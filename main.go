package main

import (
	"os"

	"github.com/kilianp07/legassign/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

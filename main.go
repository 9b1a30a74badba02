package main

import (
	"os"

	"teslang/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

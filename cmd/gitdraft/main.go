package main

import (
	"os"

	"github.com/gitdraft/gitdraft/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

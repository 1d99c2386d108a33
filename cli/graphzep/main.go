package main

import (
	"os"

	graphzepcmder "github.com/stackpile/graphzep/cmd/graphzep"
)

func main() {
	cmd := graphzepcmder.NewGraphzepCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

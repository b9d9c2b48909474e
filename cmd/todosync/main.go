package main

import (
	"os"

	"github.com/bianoble/todosync/cmd/todosync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

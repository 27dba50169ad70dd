package main

import (
	"fmt"
	"os"

	"reelscribe/cmd/reelscribe/cmd"
	"reelscribe/internal/config"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "configuration warning: %v\n", err)
	}

	cmd.Execute()
}

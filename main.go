package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scriptedworld/raptar/cmd"
	"github.com/scriptedworld/raptar/internal/config"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, config.ErrInvalidConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

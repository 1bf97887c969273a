package main

import (
	"fmt"
	"os"

	"github.com/vbonduro/stockroom/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", cmd.ErrorMessage(err))
		os.Exit(1)
	}
}

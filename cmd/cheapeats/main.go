package main

import (
	"fmt"
	"os"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/cli"
)

const version = "0.1.0"

func main() {
	if err := cli.Run(version); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

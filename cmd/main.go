package main

import (
	"fmt"
	"os"
)

const appName = "Pomodoro"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

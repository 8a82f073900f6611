package main // Entry point package

import (
	"os"
	"time"
)

func main() {
	time.Local = time.UTC // all timestamps, including audit events, are UTC
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

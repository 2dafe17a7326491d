package main

import (
	"os"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
)

func main() {
	if err := NewCLI(os.Stdout).Run(os.Args[1:]); err != nil {
		logger.Errorf("[cli] %v", err)
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/cheeze-hyeon/alog/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

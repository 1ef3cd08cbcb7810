package main

import (
	"os"

	"github.com/27Shambhavi/shunting/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/TebbyShelby/pricecatcher/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/msgnet/udpmsg/cmd/udpmsg/cmd"
)

func main() {
	if err := cmd.Root.Execute(); err != nil {
		os.Exit(1)
	}
}

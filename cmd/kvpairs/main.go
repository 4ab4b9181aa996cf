package main

import (
	"fmt"
	"os"

	"github.com/kvpairs/pkg/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	setupLogging()

	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "pgsysgen: %s\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/example/taskboard/internal/cli"
	"github.com/example/taskboard/internal/wire"
)

func main() {
	rootCmd := cli.NewRootCmd()
	err := rootCmd.ExecuteContext(context.Background())
	_ = wire.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

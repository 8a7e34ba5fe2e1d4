package main

import (
	"fmt"
	"os"

	"github.com/ncobase/herosearch/cmd/herosearch/commands"
	_ "github.com/ncobase/herosearch/data/all"
)

func main() {
	rootCmd := commands.NewRootCmd(commands.Options{})
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

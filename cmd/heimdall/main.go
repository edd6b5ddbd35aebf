// Command heimdall renders a multi-line Claude Code statusline.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "heimdall: %v\n", err)
		os.Exit(1)
	}
}

func execute(args []string) error {
	cmd := newRootCommand(&app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr})
	cmd.SetArgs(args)
	return cmd.Execute()
}

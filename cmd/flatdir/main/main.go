package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/flatdir/cmd/flatdir"
	"github.com/arthur-debert/flatdir/pkg/ui/styles"
)

func main() {
	rootCmd := flatdir.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}

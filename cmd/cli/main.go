package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "conversor-cli",
		Short:         "Datalogger spreadsheet converter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newClassifyCmd(),
		newConvertCmd(),
		newPDFCmd(),
		newSampleCmd(),
	)
	return rootCmd
}

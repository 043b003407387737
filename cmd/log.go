package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Print the internal operation log",
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	_, store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.OpLog(cmd.Context())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Operation log is empty.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%-5d %-25s %-8s %-12s %s\n", e.ID, e.At, e.Operation, e.Target, e.Message)
	}
	return nil
}

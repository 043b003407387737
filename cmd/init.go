package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/umpire274/timelog/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration file and database",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	path, err := config.FilePath()
	if err != nil {
		return err
	}

	fmt.Printf("Configuration file: %s\n", path)
	fmt.Printf("Database: %s\n", cfg.Database)
	fmt.Println("timelog is ready.")
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/umpire274/timelog/internal/storage"
)

var (
	backupFile     string
	backupCompress bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a backup copy of the database",
	Args:  cobra.NoArgs,
	RunE:  runBackup,
}

func init() {
	backupCmd.Flags().StringVar(&backupFile, "file", "", "Backup file path")
	backupCmd.Flags().BoolVar(&backupCompress, "compress", false, "Compress the backup with gzip")
	_ = backupCmd.MarkFlagRequired("file")
}

func runBackup(cmd *cobra.Command, args []string) error {
	cfg, store, err := openStore()
	if err != nil {
		return err
	}
	// Close before copying so the WAL is checkpointed into the main file.
	if err := store.Close(); err != nil {
		return err
	}

	if err := storage.Backup(cfg.Database, backupFile, backupCompress); err != nil {
		return err
	}
	fmt.Printf("Backup written to %s\n", backupFile)
	return nil
}

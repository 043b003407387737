package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/umpire274/timelog/internal/export"
	"github.com/umpire274/timelog/internal/model"
	"github.com/umpire274/timelog/internal/timeutil"
)

var (
	exportFile   string
	exportFormat string
	exportRange  string
	exportForce  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export events to a CSV or JSON file",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFile, "file", "", "Output file path")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv or json")
	exportCmd.Flags().StringVar(&exportRange, "range", "", "Filter: YYYY, YYYY-MM, YYYY-MM-DD or start:end (default all)")
	exportCmd.Flags().BoolVarP(&exportForce, "force", "f", false, "Overwrite the output file without asking")
	_ = exportCmd.MarkFlagRequired("file")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	if err := ensureWritable(exportFile, exportForce); err != nil {
		return err
	}

	_, store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()

	var events []model.Event
	if exportRange == "" || strings.EqualFold(exportRange, "all") {
		events, err = store.AllEvents(ctx)
	} else {
		var from, to string
		from, to, err = timeutil.PeriodRange(exportRange)
		if err != nil {
			return err
		}
		events, err = store.EventsByRange(ctx, from, to)
	}
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No events found for the selected range.")
		return nil
	}

	if err := export.Write(exportFile, format, events); err != nil {
		return err
	}
	fmt.Printf("Exported %d events to %s\n", len(events), exportFile)
	return nil
}

// ensureWritable refuses to clobber an existing file unless forced or
// confirmed interactively.
func ensureWritable(path string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if confirm(fmt.Sprintf("The file %q already exists. Overwrite?", path)) {
		return nil
	}
	return fmt.Errorf("export cancelled: existing file not overwritten")
}

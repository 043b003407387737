package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/umpire274/timelog/internal/reconcile"
)

var (
	delPair int
	delYes  bool
)

var delCmd = &cobra.Command{
	Use:   "del <date>",
	Short: "Delete a pair or a whole day",
	Long: `Delete the pair given with --pair, or every event of the date when no
pair is given. Remaining pairs are renumbered and the day record is
recomputed from the surviving events.`,
	Args: cobra.ExactArgs(1),
	RunE: runDel,
}

func init() {
	delCmd.Flags().IntVar(&delPair, "pair", 0, "Pair id to delete")
	delCmd.Flags().BoolVarP(&delYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runDel(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(args[0])
	if err != nil {
		return err
	}

	cfg, store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctrl := reconcile.NewController(store, cfg, logger)
	ctx := cmd.Context()

	if delPair > 0 {
		if !delYes && !confirm(fmt.Sprintf("Delete pair %d of %s?", delPair, date)) {
			fmt.Println("Aborted.")
			return nil
		}
		if err := ctrl.DeletePair(ctx, date, delPair); err != nil {
			return err
		}
		fmt.Printf("Deleted pair %d of %s\n", delPair, date)
		return nil
	}

	if !delYes && !confirm(fmt.Sprintf("Delete all events of %s?", date)) {
		fmt.Println("Aborted.")
		return nil
	}
	if err := ctrl.DeleteDay(ctx, date); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", date)
	return nil
}

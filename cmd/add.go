package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/umpire274/timelog/internal/model"
	"github.com/umpire274/timelog/internal/reconcile"
	"github.com/umpire274/timelog/internal/timeutil"
)

var (
	addPos   string
	addIn    string
	addOut   string
	addLunch int
	addEdit  bool
	addPair  int
)

var addCmd = &cobra.Command{
	Use:   "add <date>",
	Short: "Record or edit a work session for a date",
	Long: `Record punches for a date (YYYY-MM-DD, or "today").

--in alone opens a new session, --out alone closes the most recent open
one, both together record a complete session. With --edit and --pair the
given fields overwrite an existing session instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addPos, "pos", "", "Location code: O, R, H, C")
	addCmd.Flags().StringVar(&addIn, "in", "", "Entry time (HH:MM)")
	addCmd.Flags().StringVar(&addOut, "out", "", "Exit time (HH:MM)")
	addCmd.Flags().IntVar(&addLunch, "lunch", -1, "Lunch break in minutes")
	addCmd.Flags().BoolVar(&addEdit, "edit", false, "Edit an existing pair (use with --pair)")
	addCmd.Flags().IntVar(&addPair, "pair", 0, "Pair id to edit")
}

func runAdd(cmd *cobra.Command, args []string) error {
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

	if addEdit {
		if addPair <= 0 {
			return fmt.Errorf("--edit requires --pair with a positive pair id")
		}
		patch := reconcile.PairPatch{}
		if addPos != "" {
			l, ok := model.ParseLocation(addPos)
			if !ok {
				return fmt.Errorf("invalid position %q (want O, R, H or C)", addPos)
			}
			patch.Position = &l
		}
		if addIn != "" {
			patch.Start = &addIn
		}
		if addOut != "" {
			patch.End = &addOut
		}
		if addLunch >= 0 {
			patch.Lunch = &addLunch
		}
		if err := ctrl.EditPair(ctx, date, addPair, patch); err != nil {
			return err
		}
		fmt.Printf("Updated pair %d on %s\n", addPair, date)
		return nil
	}

	loc, ok := model.ParseLocation(cfg.DefaultPosition)
	if !ok {
		loc = model.Office
	}
	if addPos != "" {
		l, ok := model.ParseLocation(addPos)
		if !ok {
			return fmt.Errorf("invalid position %q (want O, R, H or C)", addPos)
		}
		loc = l
	}

	in := reconcile.AddInput{}
	if addIn != "" {
		in.Start = &addIn
	}
	if addOut != "" {
		in.End = &addOut
	}
	if addLunch >= 0 {
		in.Lunch = &addLunch
	}

	if err := ctrl.Apply(ctx, date, loc, in); err != nil {
		return err
	}
	fmt.Printf("Recorded %s\n", date)
	return nil
}

// resolveDate accepts "today" or a YYYY-MM-DD date.
func resolveDate(arg string) (string, error) {
	if arg == "today" {
		return timeutil.Today(), nil
	}
	if _, err := timeutil.ParseDate(arg); err != nil {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", arg, err)
	}
	return arg, nil
}

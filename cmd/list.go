package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/umpire274/timelog/internal/config"
	"github.com/umpire274/timelog/internal/model"
	"github.com/umpire274/timelog/internal/reconcile"
	"github.com/umpire274/timelog/internal/timeutil"
)

var (
	listPeriod  string
	listPos     string
	listToday   bool
	listDetails bool
	listEvents  bool
	listPairs   int
	listSummary bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded days, sessions or events",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listPeriod, "period", "p", "", "Filter: YYYY, YYYY-MM, YYYY-MM-DD or start:end")
	listCmd.Flags().StringVar(&listPos, "pos", "", "Filter by position code")
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show only today")
	listCmd.Flags().BoolVar(&listDetails, "details", false, "Show today's detailed timeline")
	listCmd.Flags().BoolVar(&listEvents, "events", false, "List raw in/out events")
	listCmd.Flags().IntVar(&listPairs, "pairs", 0, "Filter events by pair id (with --events)")
	listCmd.Flags().BoolVar(&listSummary, "summary", false, "Show one row per pair")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()

	from, to := timeutil.CurrentMonth()
	if listToday || listDetails {
		from, to = timeutil.Today(), timeutil.Today()
	} else if listPeriod != "" {
		from, to, err = timeutil.PeriodRange(listPeriod)
		if err != nil {
			return err
		}
	}

	events, err := store.EventsByRange(ctx, from, to)
	if err != nil {
		return err
	}
	if listPos != "" {
		loc, ok := model.ParseLocation(listPos)
		if !ok {
			return fmt.Errorf("invalid position %q (want O, R, H or C)", listPos)
		}
		events = filterByLocation(events, loc)
	}
	if len(events) == 0 {
		fmt.Println("No events found.")
		return nil
	}

	byDate := groupByDate(events)
	dates := sortedDates(byDate)

	switch {
	case listEvents:
		printEvents(events, listPairs)
	case listDetails:
		for _, d := range dates {
			printDetails(d, byDate[d], cfg)
		}
	case listSummary:
		for _, d := range dates {
			printPairRows(d, byDate[d], cfg)
		}
	default:
		printDayRows(dates, byDate, cfg)
	}
	return nil
}

func filterByLocation(events []model.Event, loc model.Location) []model.Event {
	var out []model.Event
	for _, ev := range events {
		if ev.Location == loc {
			out = append(out, ev)
		}
	}
	return out
}

func groupByDate(events []model.Event) map[string][]model.Event {
	byDate := make(map[string][]model.Event)
	for _, ev := range events {
		byDate[ev.Date] = append(byDate[ev.Date], ev)
	}
	return byDate
}

func sortedDates(byDate map[string][]model.Event) []string {
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// printDayRows renders the default one-row-per-day view with a surplus
// total in the footer.
func printDayRows(dates []string, byDate map[string][]model.Event, cfg config.Config) {
	work := reconcile.ParseWorkDuration(cfg.WorkDuration)

	fmt.Printf("%-16s %-12s %-6s %-6s %-6s %-8s %-10s %s\n",
		"Date", "Position", "In", "Out", "Lunch", "Worked", "Exp. exit", "Surplus")

	var totalSurplus int
	for _, d := range dates {
		s := reconcile.BuildDaySummary(byDate[d], cfg)
		t := s.Timeline
		if len(t.Pairs) == 0 {
			continue
		}

		first := t.Pairs[0]
		start := first.In.Time
		end := "-"
		if last := t.Pairs[len(t.Pairs)-1]; !last.Open() {
			end = last.Out.Time
		}

		lunch := reconcile.EffectiveLunch(t, cfg)
		_, exit := reconcile.ExpectedExit(d, start, work, lunch)

		pos, ok := reconcile.AggregatePosition(byDate[d])
		label := "-"
		if ok {
			label = pos.Label()
		}

		surplus := "-"
		if end != "-" {
			surplus = timeutil.FormatMinutes(s.Surplus)
			totalSurplus += s.Surplus
		}

		fmt.Printf("%-16s %-12s %-6s %-6s %-6d %-8s %-10s %s\n",
			displayDate(d, cfg), label, start, end, lunch,
			timeutil.FormatMinutesReadable(t.TotalWorked), exit, surplus)
	}
	fmt.Println(strings.Repeat("-", 78))
	fmt.Printf("Total surplus: %s\n", timeutil.FormatMinutes(totalSurplus))
}

// printPairRows renders one row per session.
func printPairRows(date string, events []model.Event, cfg config.Config) {
	s := reconcile.BuildDaySummary(events, cfg)
	for i, p := range s.Timeline.Pairs {
		out := "-"
		if !p.Open() {
			out = p.Out.Time
		}
		fmt.Printf("%-16s pair %-3d %-12s %s -> %-6s lunch %-3d %s\n",
			displayDate(date, cfg), i+1, p.Location.Label(),
			p.In.Time, out, p.Lunch, timeutil.FormatMinutesReadable(p.Duration))
	}
}

// printDetails renders the full timeline of a day: pairs, gaps and the
// derived quota numbers.
func printDetails(date string, events []model.Event, cfg config.Config) {
	s := reconcile.BuildDaySummary(events, cfg)
	t := s.Timeline

	fmt.Printf("%s\n", displayDate(date, cfg))
	for i, p := range t.Pairs {
		out := "open"
		if !p.Open() {
			out = p.Out.Time
		}
		fmt.Printf("  pair %d: %s -> %s  %s  lunch %dm  %s\n",
			i+1, p.In.Time, out, p.Location.Label(), p.Lunch,
			timeutil.FormatMinutesReadable(p.Duration))
	}
	for _, g := range t.Gaps {
		fmt.Printf("  gap:    %s -> %s  %s\n",
			g.StartTime, g.EndTime, timeutil.FormatMinutesReadable(g.Duration))
	}
	fmt.Printf("  worked %s, expected %s, surplus %s\n",
		timeutil.FormatMinutesReadable(t.TotalWorked),
		timeutil.FormatMinutesReadable(s.Expected),
		timeutil.FormatMinutes(s.Surplus))
}

// printEvents renders raw events, optionally only one pair.
func printEvents(events []model.Event, pairFilter int) {
	paired := reconcile.AssignPairs(events)
	fmt.Printf("%-6s %-12s %-6s %-4s %-10s %-6s %-5s %s\n",
		"ID", "Date", "Time", "Kind", "Position", "Lunch", "Pair", "Matched")
	for _, pe := range paired {
		if pairFilter > 0 && pe.Pair != pairFilter {
			continue
		}
		matched := "yes"
		if pe.Unmatched {
			matched = "no"
		}
		ev := pe.Event
		fmt.Printf("%-6d %-12s %-6s %-4s %-10s %-6d %-5d %s\n",
			ev.ID, ev.Date, ev.Time, ev.Kind, ev.Location.Label(),
			ev.Lunch, pe.Pair, matched)
	}
}

// displayDate prepends the weekday according to configuration.
func displayDate(date string, cfg config.Config) string {
	style := cfg.WeekdayStyle()
	if style == "" {
		return date
	}
	wd := timeutil.WeekdayName(date, style)
	if wd == "" {
		return date
	}
	return fmt.Sprintf("%s %s", wd, date)
}

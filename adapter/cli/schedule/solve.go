package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/solver"
	"github.com/spf13/cobra"
)

var (
	solveDate     string
	solveTimezone string
	solveInput    string
	solveJSON     bool
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run the CP-SAT day solver against a task/event file",
	Long: `Solve a single day's schedule with the constraint-programming solver,
reading tasks and fixed events from a JSON file shaped like:

  {"tasks": [...], "fixed_events": [...], "prefs": {...}}

Examples:
  orbita schedule solve --input day.json --date 2024-01-15
  orbita schedule solve --input day.json --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if solveInput == "" {
			return fmt.Errorf("--input is required")
		}

		raw, err := os.ReadFile(solveInput)
		if err != nil {
			return fmt.Errorf("read input file: %w", err)
		}

		var file solveInputFile
		if err := json.Unmarshal(raw, &file); err != nil {
			return fmt.Errorf("parse input file: %w", err)
		}

		loc := time.UTC
		if solveTimezone != "" {
			loc, err = time.LoadLocation(solveTimezone)
			if err != nil {
				return fmt.Errorf("invalid timezone: %w", err)
			}
		}

		date := time.Now().In(loc)
		if solveDate != "" {
			date, err = time.ParseInLocation("2006-01-02", solveDate, loc)
			if err != nil {
				return fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
			}
		}

		in := solver.SolveInput{
			Tasks:       file.Tasks,
			FixedEvents: file.FixedEvents,
			Prefs:       file.Prefs,
			Date:        date,
			Timezone:    solveTimezone,
		}

		out := solver.Solve(context.Background(), in)

		if solveJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		printSolveOutput(out)
		return nil
	},
}

// solveInputFile is the on-disk shape accepted by `orbita schedule solve`.
type solveInputFile struct {
	Tasks       []solver.Task       `json:"tasks"`
	FixedEvents []solver.FixedEvent `json:"fixed_events"`
	Prefs       solver.Preferences  `json:"prefs"`
}

func printSolveOutput(out solver.SolveOutput) {
	fmt.Printf("Solve: success=%v status=%s wall_time=%s\n", out.Success, out.Stats.SolverStatus, out.Stats.WallTime)
	fmt.Println(strings.Repeat("=", 60))

	if len(out.Blocks) == 0 {
		fmt.Println("No blocks scheduled.")
	}
	for _, b := range out.Blocks {
		fmt.Printf("  [%s] %-24s %s - %s\n", b.BlockType, b.Title, b.Start.Format("15:04"), b.End.Format("15:04"))
	}

	if len(out.Unscheduled) > 0 {
		fmt.Println("\nUnscheduled:")
		for _, id := range out.Unscheduled {
			fmt.Printf("  %s\n", id)
		}
	}

	if len(out.Messages) > 0 {
		fmt.Println("\nMessages:")
		for _, m := range out.Messages {
			fmt.Printf("  %s\n", m)
		}
	}

	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Total score: %.1f\n", out.TotalScore)
}

func init() {
	solveCmd.Flags().StringVarP(&solveDate, "date", "d", "", "date to schedule for (YYYY-MM-DD, default: today)")
	solveCmd.Flags().StringVar(&solveTimezone, "timezone", "", "IANA timezone for naive instants (default: UTC)")
	solveCmd.Flags().StringVarP(&solveInput, "input", "i", "", "path to a JSON file of tasks/fixed_events/prefs")
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "print the raw solver output as JSON")
}

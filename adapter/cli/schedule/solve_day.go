package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/orbita/internal/scheduling/solver"
	"github.com/spf13/cobra"
)

var (
	solveDayDate     string
	solveDayTimezone string
)

var solveDayCmd = &cobra.Command{
	Use:   "solve-day",
	Short: "Solve the day's schedule with the CP-SAT engine",
	Long: `Collect today's (or a given day's) pending tasks, due habits, and meeting
candidates and place them on the calendar using the constraint-programming
solver, as an alternative to "schedule auto"'s greedy placement.

Examples:
  orbita schedule solve-day
  orbita schedule solve-day --date 2024-01-15 --timezone America/New_York`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SolveDayHandler == nil {
			fmt.Println("Schedule commands require database connection.")
			fmt.Println("Start services with: docker-compose up -d")
			return nil
		}

		date := time.Now()
		if solveDayDate != "" {
			var err error
			date, err = time.Parse("2006-01-02", solveDayDate)
			if err != nil {
				return fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
			}
		}

		cmdData := commands.SolveDayCommand{
			UserID:   app.CurrentUserID,
			Date:     date,
			Timezone: solveDayTimezone,
			Prefs:    solver.Preferences{},
		}

		result, err := app.SolveDayHandler.Handle(cmd.Context(), cmdData)
		if err != nil {
			return fmt.Errorf("failed to solve day: %w", err)
		}

		dateStr := date.Format("Monday, January 2, 2006")
		fmt.Printf("CP-SAT solve for %s\n", dateStr)
		fmt.Println(strings.Repeat("=", 60))

		if result.TotalCandidates == 0 {
			fmt.Println("\n  No candidates to schedule.")
			return nil
		}

		fmt.Println("\nScheduled:")
		for _, item := range result.Details {
			if item.Scheduled {
				fmt.Printf("  [%s] %s\n", item.Source, item.Title)
				if item.StartTime != nil && item.EndTime != nil {
					fmt.Printf("       %s - %s\n",
						item.StartTime.Format("15:04"),
						item.EndTime.Format("15:04"),
					)
				}
			}
		}

		if result.Failed > 0 {
			fmt.Println("\nCould not schedule:")
			for _, item := range result.Details {
				if !item.Scheduled {
					fmt.Printf("  [%s] %s - %s\n", item.Source, item.Title, item.Reason)
				}
			}
		}

		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("Summary: %d scheduled, %d failed, status=%s, score=%.2f\n",
			result.Scheduled, result.Failed, result.SolverStatus, result.TotalScore)

		return nil
	},
}

func init() {
	solveDayCmd.Flags().StringVarP(&solveDayDate, "date", "d", "", "date to solve for (YYYY-MM-DD, default: today)")
	solveDayCmd.Flags().StringVarP(&solveDayTimezone, "timezone", "z", "", "IANA timezone name (default: UTC)")
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/okian/crewplan/internal/adapters/roster"
	"github.com/okian/crewplan/internal/adapters/taskfile"
	service "github.com/okian/crewplan/internal/app"
	"github.com/okian/crewplan/internal/domain/model"
	"github.com/okian/crewplan/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "planctl",
	Short: "Crewplan CLI",
	Long: `Planctl runs the crewplan allocation engine against local files.
Give it a roster and a task file, and it prints who works on what, why
anyone was passed over, and what the plan costs. A feature description
routes the run through the decomposition path instead, with the task file
standing in as the provider. The same inputs always produce the same plan.`,
}

func main() {
	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	_ = logger.SetLevelString("error")

	rootCmd.AddCommand(allocateCmd())
	rootCmd.AddCommand(rosterCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func allocateCmd() *cobra.Command {
	var (
		rosterPath    string
		tasksPath     string
		feature       string
		budget        float64
		deadlineWeeks int
		priority      string
		asJSON        bool
	)
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Run one allocation against a roster and a task file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tasksPath == "" {
				return fmt.Errorf("--tasks is required")
			}

			opts := []service.Option{
				service.WithDirectory(roster.NewDirectory(rosterPath)),
			}
			req := service.RunRequest{
				Feature:       feature,
				DeadlineWeeks: deadlineWeeks,
				Priority:      priority,
			}
			if feature != "" {
				// The feature path exercises the decomposition
				// provider; the task file stands in as the source.
				src, err := taskfile.NewSourceFromFile(tasksPath)
				if err != nil {
					return err
				}
				opts = append(opts, service.WithTaskSource(src))
			} else {
				tasks, err := taskfile.Load(tasksPath)
				if err != nil {
					return err
				}
				req.Tasks = tasks
			}
			if cmd.Flags().Changed("budget") {
				req.Budget = &budget
			}

			svc := service.New(opts...)
			result, err := svc.Allocate(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(result)
			}
			printResult(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&rosterPath, "roster", "roster.yaml", "roster YAML file")
	cmd.Flags().StringVar(&tasksPath, "tasks", "", "task file (YAML or JSON)")
	cmd.Flags().StringVar(&feature, "feature", "", "feature description, staffed from --tasks via the decomposition path")
	cmd.Flags().Float64Var(&budget, "budget", 0, "total budget; omit for unlimited")
	cmd.Flags().IntVar(&deadlineWeeks, "deadline-weeks", 0, "delivery horizon in weeks")
	cmd.Flags().StringVar(&priority, "priority", "", "run priority label")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}

func rosterCmd() *cobra.Command {
	var (
		rosterPath string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Show the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := roster.NewDirectory(rosterPath)
			employees, err := dir.Snapshot(context.Background())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(employees)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"ID", "Name", "Role", "Workload", "Rate", "Available"})
			for _, e := range employees {
				tw.AppendRow(table.Row{
					e.ID, e.Name, e.Role,
					fmt.Sprintf("%.0f%%", e.Workload*100),
					fmt.Sprintf("%.0f", e.HourlyRate),
					e.Available,
				})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&rosterPath, "roster", "roster.yaml", "roster YAML file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}

func printResult(result model.AllocationResult) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetTitle("Allocations")
	tw.AppendHeader(table.Row{"Task", "Assignees", "Confidence", "Hours Each", "Reasoning"})
	for _, a := range result.Allocations {
		tw.AppendRow(table.Row{
			a.TaskID,
			fmt.Sprintf("%v", a.Assignees),
			fmt.Sprintf("%.2f", a.Confidence),
			fmt.Sprintf("%.1f", a.EstimatedHours),
			a.Reasoning,
		})
	}
	tw.Render()

	if len(result.Rejections) > 0 {
		tw = table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.SetTitle("Rejections")
		tw.AppendHeader(table.Row{"Task", "Employee", "Reason"})
		for _, r := range result.Rejections {
			tw.AppendRow(table.Row{r.TaskID, r.EmployeeID, r.Reason})
		}
		tw.Render()
	}

	a := result.Analytics
	tw = table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetTitle("Analytics")
	tw.AppendRow(table.Row{"Total cost", fmt.Sprintf("%.2f", a.TotalEstimatedCost)})
	tw.AppendRow(table.Row{"Projected savings", fmt.Sprintf("%.2f", a.ProjectedSavings)})
	tw.AppendRow(table.Row{"Savings %", fmt.Sprintf("%.1f%%", a.SavingsPercentage*100)})
	tw.AppendRow(table.Row{"Efficiency gain", fmt.Sprintf("%.2f", a.TimeEfficiencyGain)})
	tw.AppendRow(table.Row{"ROI estimate", fmt.Sprintf("%.2f", a.ROIEstimate)})
	tw.AppendRow(table.Row{"Risk", a.RiskAssessment})
	tw.Render()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/keel/internal/commands"
	"github.com/sandeepkv93/keel/internal/logging"
	"github.com/sandeepkv93/keel/internal/prioritize"
	"github.com/sandeepkv93/keel/internal/scheduler"
	"github.com/sandeepkv93/keel/internal/storage"
	"github.com/sandeepkv93/keel/internal/update"
	"github.com/sandeepkv93/keel/internal/views"
)

func newRootCommand() *cobra.Command {
	var a *app

	root := &cobra.Command{
		Use:           "keel",
		Short:         "A calm terminal coach for thoughts, tasks and your day",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = openApp(cmd.Context())
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a == nil {
				return nil
			}
			return a.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), a)
		},
	}

	root.AddCommand(
		newAnalyzeCommand(&a),
		newPlanCommand(&a),
		newCheckinCommand(&a),
		newPrioritizeCommand(&a),
		newDoCommand(&a),
	)
	return root
}

func runTUI(ctx context.Context, a *app) error {
	closer, err := logging.ToFile(a.log, a.cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()

	alerts := scheduler.NewAlertEngine(a.cfg.AlertBuffer)
	alerts.Start()
	defer func() {
		alerts.Stop()
		if n := alerts.Dropped(); n > 0 {
			a.log.WithField("dropped", n).Warn("block alerts dropped")
		}
	}()

	m := update.NewModel(ctx, update.Deps{
		Repo:             a.repo,
		Coach:            a.coach,
		Planner:          a.planner,
		Alerts:           alerts,
		APIKey:           func() string { return a.apiKey(ctx) },
		Log:              a.log,
		AvailableMinutes: a.cfg.AvailableMinutes,
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func newAnalyzeCommand(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [thoughts...]",
		Short: "Look for thinking traps in a thought dump (reads stdin without args)",
		RunE: func(cmd *cobra.Command, args []string) error {
			transcript := strings.Join(args, " ")
			if len(args) == 0 {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				transcript = string(raw)
			}
			if strings.TrimSpace(transcript) == "" {
				return fmt.Errorf("nothing to analyze")
			}

			ctx := cmd.Context()
			res := (*a).coach.AnalyzeThoughts(ctx, transcript, (*a).apiKey(ctx))
			out := cmd.OutOrStdout()
			if banner := views.CrisisBanner(res.Crisis); banner != "" {
				fmt.Fprintln(out, banner)
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, views.RenderMarkdown(views.AnalysisMarkdown(res.Analysis, string(res.Source))))
			return nil
		},
	}
}

func newPlanCommand(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan [YYYY-MM-DD]",
		Short: "Fill the day's free time with pending tasks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := ""
			if len(args) == 1 {
				date = args[0]
			}
			res, err := (*a).planner.PlanDay(cmd.Context(), date)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), views.PlanSummary(res.Date, res.Created, res.Skipped, res.Deferred))
			return nil
		},
	}
}

func newCheckinCommand(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "checkin <mood 1-5> <energy 1-5> [note...]",
		Short: "Log how you feel right now",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaletteCommand(cmd, *a, "checkin "+strings.Join(args, " "))
		},
	}
}

func newDoCommand(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "do <command...>",
		Short: "Run a command palette command, e.g. keel do add Pay rent r:3",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaletteCommand(cmd, *a, strings.Join(args, " "))
		},
	}
}

func runPaletteCommand(cmd *cobra.Command, a *app, input string) error {
	parsed, err := commands.Parse(input)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	handlers := commands.NewHandlers(ctx, commands.Deps{
		Repo:    a.repo,
		Planner: a.planner,
		Coach:   a.coach,
		APIKey:  func() string { return a.apiKey(ctx) },
		Log:     a.log,
	})
	res, err := commands.Execute(parsed, handlers)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}

func newPrioritizeCommand(a **app) *cobra.Command {
	var (
		energyLevel int
		minutes     int
	)
	cmd := &cobra.Command{
		Use:   "prioritize",
		Short: "Rank open tasks for your current energy and time",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := *a
			tasks, err := svc.repo.ListTasks(ctx, storage.TaskListFilter{ActiveOnly: true})
			if err != nil {
				return err
			}
			if minutes <= 0 {
				minutes = svc.cfg.AvailableMinutes
			}
			now := time.Now()
			res := svc.coach.Prioritize(ctx, tasks, prioritize.Context{
				CurrentEnergy: energyLevel,
				TimeAvailable: minutes,
				CurrentHour:   now.Hour(),
				Now:           now,
			}, svc.apiKey(ctx))
			fmt.Fprintln(cmd.OutOrStdout(), views.RenderMarkdown(views.PrioritiesMarkdown(res.Tasks, string(res.Source))))
			return nil
		},
	}
	cmd.Flags().IntVarP(&energyLevel, "energy", "e", 3, "Current energy 1-5")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Minutes available (defaults to config)")
	return cmd
}

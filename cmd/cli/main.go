package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mkorsakov/dutyroster/internal/config"
	"github.com/mkorsakov/dutyroster/internal/cronjob"
	"github.com/mkorsakov/dutyroster/pkg/core/services"
	"github.com/mkorsakov/dutyroster/pkg/metrics"
	"github.com/mkorsakov/dutyroster/pkg/postgres"
	"github.com/mkorsakov/dutyroster/pkg/report"
	"github.com/mkorsakov/dutyroster/pkg/server"
	"github.com/mkorsakov/dutyroster/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	ctx    context.Context
}

var (
	configPath string
	app        *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dutyroster",
		Short: "Duty Roster - generate monthly on-call and shift schedules",
		Long:  `A tool for generating monthly duty rosters: rotating on-call coverage and regular 8-hour shifts across a multi-region team, within a monthly working-hour band.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd.Name())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: dutyroster.yaml in CWD or home)")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(rosterCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up the logger and loads configuration
func initApp(command string) error {
	var err error
	app = &App{ctx: context.Background()}

	app.logger, err = logging.InitLogger(command)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if configPath != "" {
		app.cfg, err = config.LoadFromPath(configPath)
	} else {
		app.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.logger.Debug("Configuration loaded",
		zap.Int("regions", len(app.cfg.Regions)))

	return nil
}

// parseMonthYear resolves the target month and year from positional args.
// Months are 1-based on the command line; the engines use zero-based months.
func parseMonthYear(args []string) (int, int, error) {
	now := time.Now()
	month := int(now.Month()) - 1
	year := now.Year()

	if len(args) >= 1 {
		m, err := strconv.Atoi(args[0])
		if err != nil || m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("month must be between 1 and 12, got %q", args[0])
		}
		month = m - 1
	}
	if len(args) >= 2 {
		y, err := strconv.Atoi(args[1])
		if err != nil || y < 2020 || y > 2100 {
			return 0, 0, fmt.Errorf("year must be between 2020 and 2100, got %q", args[1])
		}
		year = y
	}

	return month, year, nil
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [month] [year]",
		Short: "Generate the schedule for a month (defaults to the current month)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, year, err := parseMonthYear(args)
			if err != nil {
				return err
			}

			seed, _ := cmd.Flags().GetInt64("seed")
			out, _ := cmd.Flags().GetString("out")
			save, _ := cmd.Flags().GetBool("save")

			var rng *rand.Rand
			if cmd.Flags().Changed("seed") {
				rng = rand.New(rand.NewSource(seed))
			}

			result, err := services.GenerateSchedule(app.cfg.Roster(), month, year, rng, app.logger)
			if err != nil {
				return err
			}
			metrics.GenerationsTotal.WithLabelValues("cli").Inc()

			if out == "" {
				out = report.Filename(month, year)
			}
			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer file.Close()
			if err := report.WriteCSV(file, result.Records); err != nil {
				return fmt.Errorf("failed to write schedule: %w", err)
			}

			fmt.Printf("\nSchedule for %s %d saved to %s\n\n", report.MonthName(month), year, out)
			printStats(result)

			if save {
				store, err := openStore()
				if err != nil {
					return err
				}
				defer store.Close()
				run, err := services.SaveSchedule(app.ctx, store, app.logger, result, "cli")
				if err != nil {
					return err
				}
				fmt.Printf("\nSchedule run %s saved to the store.\n", run.ID)
			}

			return nil
		},
	}

	cmd.Flags().Int64("seed", 0, "Seed for the random source (default: time-seeded)")
	cmd.Flags().String("out", "", "Output CSV path (default: schedule_<Month>_<year>.csv)")
	cmd.Flags().Bool("save", false, "Also save the run to the database")

	return cmd
}

// printStats prints the per-employee summary with a band marker per line.
func printStats(result *services.ScheduleResult) {
	fmt.Println("Statistics: on-call (with 1h handover overlap) + regular work per employee:")
	for _, st := range result.Stats {
		marker := "OK"
		switch st.Status {
		case report.StatusBelowMinimum:
			marker = "BELOW MIN"
		case report.StatusAboveMaximum:
			marker = "ABOVE MAX"
		}
		fmt.Printf("  %-14s on-call %2d shifts = %3dh, regular %2d shifts (%d/%d/%d) = %3dh, total %3dh [%s]\n",
			st.Name,
			st.OnCallShifts, st.OnCallHours,
			st.RegularShifts, st.ShiftCounts[0], st.ShiftCounts[1], st.ShiftCounts[2], st.RegularHours,
			st.TotalHours, marker)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the schedule API behind Google login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(app.ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var store *postgres.DB
			if app.cfg.Server.DatabaseURL != "" {
				var err error
				store, err = openStore()
				if err != nil {
					return err
				}
				defer store.Close()
			} else {
				app.logger.Warn("No databaseURL configured, schedule saving is disabled")
			}

			roster := app.cfg.Roster()

			if app.cfg.Server.CronSpec != "" && store != nil {
				runner := cronjob.New(app.cfg.Server.CronSpec, roster, store, app.logger)
				if err := runner.Start(); err != nil {
					return fmt.Errorf("failed to start cron runner: %w", err)
				}
				defer runner.Stop()
			}

			var srv *server.Server
			var err error
			if store != nil {
				srv, err = server.New(app.cfg.Server, roster, store, app.logger)
			} else {
				srv, err = server.New(app.cfg.Server, roster, nil, app.logger)
			}
			if err != nil {
				return err
			}

			return srv.Run(ctx)
		},
	}
}

func rosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "Print the configured roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roster := app.cfg.Roster()
			for _, region := range roster.Regions {
				window := fmt.Sprintf("%02d:00-%02d:00", region.OnCall.StartRef, region.OnCall.EndRef%24)
				if region.OnCall.CrossesMidnight {
					window += "+1"
				}
				fmt.Printf("%s (UTC%+d, on-call %s, %dh):\n", region.Name, region.TimezoneOffset, window, region.OnCall.Hours())
				for _, emp := range region.Employees {
					fmt.Printf("  - %s (%s, %02d:00-%02d:00 local)\n", emp.Name, emp.Timezone, emp.WorkStart, emp.WorkEnd)
				}
			}
			return nil
		},
	}
}

// openStore connects to PostgreSQL and applies pending migrations.
func openStore() (*postgres.DB, error) {
	if app.cfg.Server.DatabaseURL == "" {
		return nil, fmt.Errorf("server.databaseURL is not configured")
	}
	store, err := postgres.NewDB(app.ctx, app.cfg.Server.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.RunMigrations(app.ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

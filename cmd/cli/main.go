package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ingwaneorg/coffee/internal/config"
	"github.com/ingwaneorg/coffee/pkg/clients/gmailclient"
	"github.com/ingwaneorg/coffee/pkg/core/services"
	"github.com/ingwaneorg/coffee/pkg/db"
	"github.com/ingwaneorg/coffee/pkg/jsonstore"
	"github.com/ingwaneorg/coffee/pkg/postgres"
	"github.com/ingwaneorg/coffee/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg    *config.Config
	store  db.Store
	pgdb   *postgres.DB
	logger *zap.Logger
	ctx    context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "coffee",
		Short: "Coffee roulette CLI - Manage weekly 1:1 pairings",
		Long:  `A CLI tool for managing a coffee roulette: keep a roster of people, generate scored weekly pairings, and announce them.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.pgdb != nil {
					app.pgdb.Close()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(addPersonCmd())
	rootCmd.AddCommand(toggleCmd())
	rootCmd.AddCommand(listPeopleCmd())
	rootCmd.AddCommand(generatePairingsCmd())
	rootCmd.AddCommand(publishPairingsCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(interactiveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and the storage backend
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	// Initialize logger
	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.logger.Info("Loading configuration")
	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	// Initialize storage backend
	switch app.cfg.Storage {
	case config.StoragePostgres:
		app.logger.Info("Connecting to database")
		app.pgdb, err = postgres.NewDB(app.ctx, app.cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := app.pgdb.RunMigrations(app.ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.store = app.pgdb
	default:
		app.logger.Info("Using JSON data file", zap.String("path", app.cfg.DataFile))
		app.store = jsonstore.NewStore(app.cfg.DataFile)
	}
	app.logger.Info("Storage initialized", zap.String("backend", app.cfg.Storage))

	return nil
}

// Command definitions

func addPersonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addPerson <name>",
		Short: "Add a person to the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")

			participant, err := services.AddParticipant(app.ctx, app.store, app.logger, args[0], email)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Added %s to the roster\n", participant.Name)
			if participant.Email != "" {
				fmt.Printf("  Email: %s\n", participant.Email)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("email", "", "Email address for pairing announcements")

	return cmd
}

func toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <name>",
		Short: "Toggle a person's active status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			participant, err := services.ToggleParticipant(app.ctx, app.store, app.logger, args[0])
			if err != nil {
				return err
			}

			status := "inactive"
			if participant.Active {
				status = "active"
			}
			fmt.Printf("\n✓ %s is now %s\n\n", participant.Name, status)

			return nil
		},
	}
}

func listPeopleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listPeople",
		Short: "List everyone on the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := services.ListParticipants(app.ctx, app.store, app.logger)
			if err != nil {
				return err
			}

			fmt.Printf("\nActive (%d):\n", len(list.Active))
			for _, p := range list.Active {
				printParticipant(p)
			}

			if len(list.Inactive) > 0 {
				fmt.Printf("\nInactive (%d):\n", len(list.Inactive))
				for _, p := range list.Inactive {
					printParticipant(p)
				}
			}
			fmt.Println()

			return nil
		},
	}
}

func printParticipant(p db.Participant) {
	emailInfo := ""
	if p.Email != "" {
		emailInfo = fmt.Sprintf(" <%s>", p.Email)
	}
	fmt.Printf("  - %s%s (participated %d, left out %d)\n",
		p.Name, emailInfo, p.TotalWeeksParticipated, p.TimesLeftOut)
}

func generatePairingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generatePairings",
		Short: "Generate and rank pairings for a week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			week, _ := cmd.Flags().GetString("week")
			manualFlags, _ := cmd.Flags().GetStringArray("manual-pair")
			topN, _ := cmd.Flags().GetInt("top")
			save, _ := cmd.Flags().GetBool("save")
			overwrite, _ := cmd.Flags().GetBool("overwrite")

			manualPairs, err := parseManualPairFlags(manualFlags)
			if err != nil {
				return err
			}

			result, err := services.GeneratePairings(app.ctx, app.store, app.cfg, app.logger, services.GenerateRequest{
				Week:        week,
				ManualPairs: manualPairs,
				TopN:        topN,
				Save:        save,
				Overwrite:   overwrite,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\nPairings for week %s (%d active people)\n\n", result.TargetWeek, result.ActiveCount)
			for i, solution := range result.Solutions {
				fmt.Printf("Option %d (score %.1f):\n", i+1, solution.Score)
				for _, pair := range solution.Pairs {
					fmt.Printf("  • %s\n", pair)
				}
				if len(solution.LeftOut) > 0 {
					fmt.Printf("  Left out: %s\n", strings.Join(solution.LeftOut, ", "))
				}
				b := solution.Breakdown
				fmt.Printf("  (first-time %d, recent repeats %d, old repeats %d, fairness %.1f)\n",
					b.FirstTimeMeetings, b.RecentPairings, b.OldPairings, b.FairnessScore)
				if b.Note != "" {
					fmt.Printf("  Note: %s\n", b.Note)
				}
				fmt.Println()
			}

			if result.Saved {
				fmt.Printf("✓ Best option saved for week %s\n\n", result.TargetWeek)
			}

			return nil
		},
	}

	cmd.Flags().String("week", "", "Target week as YYYY-WW (defaults to the next cadence occurrence)")
	cmd.Flags().StringArray("manual-pair", nil, "Fix a pair as NAME,NAME (repeatable)")
	cmd.Flags().Int("top", 0, "Number of ranked options to show")
	cmd.Flags().Bool("save", false, "Save the best option and update counters")
	cmd.Flags().Bool("overwrite", false, "Replace an already-saved week")

	return cmd
}

// parseManualPairFlags splits repeated NAME,NAME flag values into tuples.
func parseManualPairFlags(values []string) ([][2]string, error) {
	pairs := make([][2]string, 0, len(values))
	for _, value := range values {
		parts := strings.Split(value, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("manual pair must be two comma-separated names, got %q", value)
		}
		pairs = append(pairs, [2]string{strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])})
	}
	return pairs, nil
}

func publishPairingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publishPairings",
		Short: "Email the pairings for a saved week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			week, _ := cmd.Flags().GetString("week")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			var mailer services.Mailer
			if !dryRun {
				// Only authenticate when actually sending.
				app.logger.Info("Loading OAuth client configuration")
				oauthCfg, err := config.LoadOAuthClientWithEnv(env)
				if err != nil {
					return fmt.Errorf("failed to load OAuth client config: %w", err)
				}

				app.logger.Info("Initializing gmail client")
				gmailClient, err := gmailclient.NewClient(app.ctx, oauthCfg, app.cfg.GmailSender)
				if err != nil {
					return fmt.Errorf("failed to create gmail client: %w", err)
				}
				mailer = gmailClient
			}

			result, err := services.PublishPairings(app.ctx, app.store, mailer, app.logger, week)
			if err != nil {
				return err
			}

			fmt.Printf("\n%s\n", result.Message)

			if dryRun {
				fmt.Println("(dry run, nothing sent)")
				return nil
			}

			fmt.Printf("✓ Sent to %d people\n", len(result.SentTo))
			if len(result.Skipped) > 0 {
				fmt.Printf("⚠️  Skipped (no email on file): %s\n", strings.Join(result.Skipped, ", "))
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("week", "", "Week to announce as YYYY-WW (defaults to the latest saved week)")
	cmd.Flags().Bool("dry-run", false, "Print the announcement without sending")

	return cmd
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show saved pairing weeks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lastN, _ := cmd.Flags().GetInt("weeks")

			summaries, err := services.RecentHistory(app.ctx, app.store, app.logger, lastN)
			if err != nil {
				return err
			}

			if len(summaries) == 0 {
				fmt.Println("\nNo pairing history yet.")
				return nil
			}

			fmt.Println()
			for _, summary := range summaries {
				fmt.Printf("Week %s:\n", summary.Week)
				for _, pair := range summary.Pairs {
					fmt.Printf("  • %s & %s\n", pair[0], pair[1])
				}
				if len(summary.LeftOut) > 0 {
					fmt.Printf("  Left out: %s\n", strings.Join(summary.LeftOut, ", "))
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().Int("weeks", 0, "Limit to the most recent N weeks (0 shows all)")

	return cmd
}

func interactiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (initialize once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands without re-initializing.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\n☕ Starting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			// Get all sibling commands (excluding interactive itself)
			rootCmd := cmd.Parent()
			commands := make(map[string]*cobra.Command)
			for _, subCmd := range rootCmd.Commands() {
				if subCmd.Name() != "interactive" && subCmd.Name() != "completion" && subCmd.Name() != "help" {
					commands[subCmd.Name()] = subCmd
				}
			}

			scanner := bufio.NewScanner(os.Stdin)

			for {
				fmt.Print("> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				// Parse command
				parts := strings.Fields(line)
				cmdName := parts[0]
				cmdArgs := parts[1:]

				// Handle exit
				if cmdName == "exit" || cmdName == "quit" {
					fmt.Println("👋 Goodbye!")
					return nil
				}

				// Handle help
				if cmdName == "help" {
					printInteractiveHelp(commands)
					continue
				}

				// Execute command via Cobra
				targetCmd, exists := commands[cmdName]
				if !exists {
					fmt.Printf("❌ Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				// Reset command flags and args
				targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
					flag.Changed = false
					flag.Value.Set(flag.DefValue)
				})

				// Execute the command's RunE directly, bypassing the full Execute() flow
				// This avoids re-running PersistentPreRunE which would call initApp() again
				if err := targetCmd.ParseFlags(cmdArgs); err != nil {
					fmt.Printf("❌ Error parsing flags: %v\n\n", err)
					continue
				}

				// Get non-flag args after parsing flags
				cmdArgs = targetCmd.Flags().Args()

				// Validate args
				if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
					fmt.Printf("❌ Error: %v\n\n", err)
					continue
				}

				// Execute the RunE function directly
				if targetCmd.RunE != nil {
					if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
						fmt.Printf("❌ Error: %v\n\n", err)
					}
				} else if targetCmd.Run != nil {
					targetCmd.Run(targetCmd, cmdArgs)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}

	return cmd
}

func printInteractiveHelp(commands map[string]*cobra.Command) {
	fmt.Println("\nAvailable commands:")

	// Get command names and sort them
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	// Print each command with its short description
	for _, name := range names {
		cmd := commands[name]
		fmt.Printf("  %-30s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Println("\n  help                           Show this help message")
	fmt.Println("  exit, quit                     Exit the interactive session")
}

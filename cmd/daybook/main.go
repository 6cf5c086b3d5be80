package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	daybook "github.com/daybook-sh/daybook/pkg"
	"github.com/daybook-sh/daybook/pkg/config"
	"github.com/daybook-sh/daybook/pkg/journal"
	"github.com/daybook-sh/daybook/pkg/kv"
	"github.com/daybook-sh/daybook/pkg/logging"
	"github.com/daybook-sh/daybook/pkg/utils"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:     "daybook",
	Short:   "A local, single-user daily journal with streak tracking.",
	Long:    ``,
	Version: fmt.Sprintf("v%s", daybook.Version),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for daybook.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(daybook completion bash)

  Zsh:
    $ daybook completion zsh > "${fpath[1]}/_daybook"

  Fish:
    $ daybook completion fish | source`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of daybook",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(daybook.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the daybook database",
	Long:  `Provides commands for managing the daybook SQLite database, including schema upgrades.`,
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the daybook database schema to the latest version",
	Long: `Connects to the SQLite database at the configured path and applies any
necessary schema migrations. If the database does not exist or is
uninitialized, it is created with the latest schema.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		walEnabled, _ := cmd.Flags().GetBool("wal")
		syncMode, _ := cmd.Flags().GetString("sync")

		resolved, err := resolveDBPath()
		if err != nil {
			return err
		}

		store, err := kv.Open(resolved, walEnabled, syncMode)
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Printf("Database at %s is at schema version %d.\n", resolved, kv.TargetSchemaVersion)
		return nil
	},
}

// newLogger builds the CLI's logger. Log lines go to stderr so they never mix
// with command output on stdout.
func newLogger() logging.Logger {
	level := slog.LevelWarn
	if os.Getenv("DAYBOOK_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return logging.NewTextLogger(os.Stderr, level)
}

// resolveDBPath picks the database location: --dbpath flag first, then the
// config file, then the per-OS default.
func resolveDBPath() (string, error) {
	def := utils.DefaultDBPath()
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if configured, err := cfg.GetDBPath(); err == nil && configured != "" {
		def = configured
	}
	return utils.ResolveAndEnsurePath(dbPath, def)
}

// openJournal opens the key-value store and loads the entry store over it.
// The caller must Close the returned kv store.
func openJournal(cmd *cobra.Command) (*kv.Store, *journal.EntryStore, error) {
	resolved, err := resolveDBPath()
	if err != nil {
		return nil, nil, err
	}

	kvStore, err := kv.Open(resolved, true, "NORMAL")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := journal.NewEntryStore(cmd.Context(), kvStore, journal.WithLogger(newLogger()))
	return kvStore, store, nil
}

// surfaceNotice prints the store's current failure notice, if any, so a
// persistence problem is visible without aborting the command.
func surfaceNotice(store *journal.EntryStore) {
	if notice, ok := store.Reporter().Current(); ok {
		fmt.Fprintf(os.Stderr, "Warning: %s — %s\n", notice.Title, notice.Message)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "dbpath", "", "Path to the SQLite database file (defaults to the config file or a per-OS data directory)")

	dbUpgradeCmd.Flags().Bool("wal", true, "Enable WAL journal mode")
	dbUpgradeCmd.Flags().String("sync", "NORMAL", "Synchronous pragma: OFF, NORMAL, FULL, EXTRA")
	dbCmd.AddCommand(dbUpgradeCmd)

	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(mcpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

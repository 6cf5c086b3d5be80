package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	daybook "github.com/daybook-sh/daybook/pkg"
	"github.com/daybook-sh/daybook/pkg/config"
	"github.com/daybook-sh/daybook/pkg/export"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the journal to a JSON, text, or CSV file",
	Long: `Writes the full journal to the given file. The format follows the file
extension (.json, .txt, .csv) unless overridden with --format. Only the JSON
format carries enough to round-trip entries exactly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]

		format, err := exportFormat(cmd, target)
		if err != nil {
			return err
		}

		if !filepath.IsAbs(target) {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			exportDir, err := cfg.GetExportDir()
			if err != nil {
				return err
			}
			target = filepath.Join(exportDir, target)
		}

		kvStore, store, err := openJournal(cmd)
		if err != nil {
			return err
		}
		defer kvStore.Close()

		var data []byte
		switch format {
		case export.FormatJSON:
			data, err = export.JSON(store.Entries(), store.Streak(), daybook.Version, time.Now())
		case export.FormatText:
			data = export.Text(store.Entries())
		case export.FormatCSV:
			data, err = export.CSV(store.Entries())
		}
		if err != nil {
			return err
		}

		if err := os.WriteFile(target, data, 0600); err != nil {
			return fmt.Errorf("failed to write export file: %w", err)
		}

		fmt.Printf("Exported %d entries to %s (%s).\n", len(store.Entries()), target, format)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import entries from a JSON, text, or CSV export file",
	Long: `Reads an export file and appends its entries to the journal. Entries
already present (matched by id, JSON imports only) are skipped. Text and CSV
parsing is best-effort: malformed lines are dropped rather than aborting the
import. The streak is recomputed once over the full resulting date set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read import file: %w", err)
		}

		format, err := export.DetectFormat(args[0], data)
		if err != nil {
			return err
		}

		entries, err := export.Parse(data, format)
		if err != nil {
			return err
		}

		kvStore, store, err := openJournal(cmd)
		if err != nil {
			return err
		}
		defer kvStore.Close()

		before := len(store.Entries())
		store.ImportBatch(cmd.Context(), entries)
		surfaceNotice(store)

		fmt.Printf("Imported %d of %d entries (%s format).\n", len(store.Entries())-before, len(entries), format)
		return nil
	},
}

// exportFormat resolves the output format from --format or the file extension.
func exportFormat(cmd *cobra.Command, target string) (export.Format, error) {
	if cmd.Flags().Changed("format") {
		name, _ := cmd.Flags().GetString("format")
		switch strings.ToLower(name) {
		case "json":
			return export.FormatJSON, nil
		case "text", "txt":
			return export.FormatText, nil
		case "csv":
			return export.FormatCSV, nil
		default:
			return "", fmt.Errorf("unsupported format %q: expected json, text, or csv", name)
		}
	}

	switch strings.ToLower(filepath.Ext(target)) {
	case ".json":
		return export.FormatJSON, nil
	case ".txt", ".text":
		return export.FormatText, nil
	case ".csv":
		return export.FormatCSV, nil
	default:
		return "", fmt.Errorf("cannot infer format from %q: use --format or a .json/.txt/.csv extension", target)
	}
}

func init() {
	exportCmd.Flags().String("format", "", "Output format: json, text, or csv (defaults to the file extension)")
}

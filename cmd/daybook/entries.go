package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/daybook-sh/daybook/pkg/config"
	"github.com/daybook-sh/daybook/pkg/journal"
	"github.com/daybook-sh/daybook/pkg/media"
)

var addCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Add a journal entry",
	Long: `Adds a new journal entry dated now, or backdated with --date.

The content may be empty, so a photo-only or placeholder entry is valid.
A photo file given with --photo is copied into the photo directory and the
entry references it by filename. Coordinates given with --lat/--lon are
snapshotted into the entry's location.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := ""
		if len(args) == 1 {
			content = args[0]
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		draft := journal.Draft{Content: content}

		if cmd.Flags().Changed("category") {
			category, _ := cmd.Flags().GetString("category")
			if !cfg.AllowsCategory(category) {
				return fmt.Errorf("unknown category %q: allowed categories are %v (set free_form_categories in the config to allow any)", category, cfg.GetCategories())
			}
			draft.Category = &category
		}
		if cmd.Flags().Changed("time") {
			timeNote, _ := cmd.Flags().GetString("time")
			draft.TimeNote = &timeNote
		}
		if cmd.Flags().Changed("date") {
			dateStr, _ := cmd.Flags().GetString("date")
			date, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", dateStr)
			}
			draft.Date = &date
		}

		if cmd.Flags().Changed("photo") {
			photoPath, _ := cmd.Flags().GetString("photo")
			filename, err := attachPhoto(cfg, photoPath)
			if err != nil {
				// An entry can always be created without its photo.
				fmt.Fprintf(os.Stderr, "Warning: photo not attached: %v\n", err)
			} else {
				draft.Photo = &filename
			}
		}

		if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
			lat, _ := cmd.Flags().GetFloat64("lat")
			lon, _ := cmd.Flags().GetFloat64("lon")
			var geocoder media.CoordinateGeocoder
			geocoder.ReverseGeocode(cmd.Context(), lat, lon, func(loc journal.Location) {
				draft.Location = &loc
			})
		}

		kvStore, store, err := openJournal(cmd)
		if err != nil {
			return err
		}
		defer kvStore.Close()

		entry := store.Create(cmd.Context(), draft)
		surfaceNotice(store)

		return printJSON(entry)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		kvStore, store, err := openJournal(cmd)
		if err != nil {
			return err
		}
		defer kvStore.Close()

		var entries []journal.Entry

		dayStr, _ := cmd.Flags().GetString("day")
		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")

		switch {
		case dayStr != "":
			day, err := journal.ParseDay(dayStr)
			if err != nil {
				return err
			}
			entries = store.EntriesOn(day)
		case fromStr != "" || toStr != "":
			if fromStr == "" || toStr == "" {
				return fmt.Errorf("--from and --to must be given together")
			}
			from, err := journal.ParseDay(fromStr)
			if err != nil {
				return err
			}
			to, err := journal.ParseDay(toStr)
			if err != nil {
				return err
			}
			entries = store.EntriesInRange(from, to)
		default:
			entries = store.Entries()
		}

		limit, _ := cmd.Flags().GetInt("limit")
		if limit > 0 && limit < len(entries) {
			entries = entries[:limit]
		}

		if len(entries) == 0 {
			fmt.Println("No entries found.")
			return nil
		}
		return printJSON(entries)
	},
}

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a single entry by its ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid entry ID format: %w", err)
		}

		kvStore, store, err := openJournal(cmd)
		if err != nil {
			return err
		}
		defer kvStore.Close()

		entry, ok := store.Get(id)
		if !ok {
			return fmt.Errorf("entry %s not found", id)
		}
		return printJSON(entry)
	},
}

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit an entry's content, category, or time annotation",
	Long: `Replaces the mutable fields of an entry. The entry's date, photo, and
location are fixed at creation and cannot be edited, so the streak is
unaffected. Only flags that are provided change anything.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid entry ID format: %w", err)
		}

		var patch journal.Patch
		if cmd.Flags().Changed("content") {
			content, _ := cmd.Flags().GetString("content")
			patch.Content = &content
		}
		if cmd.Flags().Changed("category") {
			category, _ := cmd.Flags().GetString("category")
			patch.Category = &category
		}
		if cmd.Flags().Changed("time") {
			timeNote, _ := cmd.Flags().GetString("time")
			patch.TimeNote = &timeNote
		}
		if patch.Content == nil && patch.Category == nil && patch.TimeNote == nil {
			return fmt.Errorf("nothing to change: pass --content, --category, or --time")
		}

		kvStore, store, err := openJournal(cmd)
		if err != nil {
			return err
		}
		defer kvStore.Close()

		if _, ok := store.Get(id); !ok {
			return fmt.Errorf("entry %s not found", id)
		}

		store.Update(cmd.Context(), id, patch)
		surfaceNotice(store)

		entry, _ := store.Get(id)
		return printJSON(entry)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an entry by its ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid entry ID format: %w", err)
		}

		kvStore, store, err := openJournal(cmd)
		if err != nil {
			return err
		}
		defer kvStore.Close()

		store.Delete(cmd.Context(), id)
		surfaceNotice(store)

		fmt.Printf("Entry %s deleted.\n", id)
		return nil
	},
}

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the current and longest journaling streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		kvStore, store, err := openJournal(cmd)
		if err != nil {
			return err
		}
		defer kvStore.Close()

		return printJSON(store.Streak())
	},
}

// attachPhoto copies the photo at path into the configured photo directory
// and returns the opaque filename the entry should reference.
func attachPhoto(cfg *config.Config, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read photo file: %w", err)
	}

	photoDir, err := cfg.GetPhotoDir()
	if err != nil {
		return "", err
	}
	photos, err := media.NewDirStore(photoDir)
	if err != nil {
		return "", err
	}
	return photos.Save(data)
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

func init() {
	addCmd.Flags().String("category", "", "Category label for the entry")
	addCmd.Flags().String("time", "", "Display time annotation, e.g. '10:00'")
	addCmd.Flags().String("date", "", "Entry date in YYYY-MM-DD format (defaults to today)")
	addCmd.Flags().String("photo", "", "Path to a photo file to attach")
	addCmd.Flags().Float64("lat", 0, "Latitude of the entry location")
	addCmd.Flags().Float64("lon", 0, "Longitude of the entry location")

	listCmd.Flags().String("day", "", "Only entries on this day (YYYY-MM-DD)")
	listCmd.Flags().String("from", "", "Range start day (YYYY-MM-DD)")
	listCmd.Flags().String("to", "", "Range end day (YYYY-MM-DD)")
	listCmd.Flags().Int("limit", 0, "Maximum number of entries to show")

	editCmd.Flags().String("content", "", "New entry text")
	editCmd.Flags().String("category", "", "New category label")
	editCmd.Flags().String("time", "", "New display time annotation")
}

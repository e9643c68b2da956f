package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vidyasagar/treesurf/internal/storage"
)

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks [query]",
	Short: "List saved bookmarks",
	Long: `List bookmarks, newest first. With a query, only bookmarks whose title or URL contains it are shown.
Open one with treesurf --bookmark <number>.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBookmarks,
}

var bookmarksRemove string

func init() {
	bookmarksCmd.Flags().StringVar(&bookmarksRemove, "remove", "", "remove the bookmark with this URL")
	rootCmd.AddCommand(bookmarksCmd)
}

func runBookmarks(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	store := storage.NewBookmarkStore(db)

	if bookmarksRemove != "" {
		if err := store.Remove(ctx, bookmarksRemove); err != nil {
			return fmt.Errorf("removing %s: %w", bookmarksRemove, err)
		}
		color.Green("Removed %s", bookmarksRemove)
		return nil
	}

	var list []storage.Bookmark
	if len(args) > 0 {
		list, err = store.Search(ctx, args[0])
	} else {
		list, err = store.List(ctx)
	}
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Println("No bookmarks yet")
		return nil
	}

	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	faint := color.New(color.Faint)
	for _, b := range list {
		yellow.Printf("%4d ", b.ID)
		fmt.Print(b.Title)
		faint.Printf("  %s\n", storage.TimeAgo(b.CreatedAt))
		cyan.Printf("     %s\n", b.URL)
	}

	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		faint.Printf("\n%d of %d bookmarks match %q\n", len(list), total, args[0])
	} else {
		faint.Printf("\n%d bookmarks\n", total)
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vidyasagar/treesurf/internal/storage"
)

var visitsCmd = &cobra.Command{
	Use:   "visits",
	Short: "Show recently loaded pages",
	Long: `Show the visit log: every page load across sessions, newest first, with
the kind of load (start, navigate, back, forward, jump, reload).`,
	Args: cobra.NoArgs,
	RunE: runVisits,
}

var (
	visitsLimit int
	visitsClear bool
)

func init() {
	visitsCmd.Flags().IntVarP(&visitsLimit, "limit", "n", 50, "number of visits to show")
	visitsCmd.Flags().BoolVar(&visitsClear, "clear", false, "delete the whole visit log")
	rootCmd.AddCommand(visitsCmd)
}

func runVisits(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	log := storage.NewVisitLog(db)

	if visitsClear {
		n, err := log.Clear(ctx)
		if err != nil {
			return err
		}
		color.Green("Deleted %d visits", n)
		return nil
	}

	visits, err := log.Recent(ctx, visitsLimit)
	if err != nil {
		return err
	}
	if len(visits) == 0 {
		fmt.Println("No visits recorded")
		return nil
	}

	faint := color.New(color.Faint)
	for _, v := range visits {
		faint.Printf("%-10s ", storage.TimeAgo(v.VisitedAt))
		kindColor(v.Kind).Printf("%-8s ", v.Kind)
		fmt.Print(v.Title)
		faint.Printf("  %s\n", v.URL)
	}
	return nil
}

func kindColor(kind string) *color.Color {
	switch kind {
	case "navigate":
		return color.New(color.FgGreen)
	case "jump":
		return color.New(color.FgMagenta)
	case "back", "forward":
		return color.New(color.FgCyan)
	}
	return color.New(color.FgYellow)
}

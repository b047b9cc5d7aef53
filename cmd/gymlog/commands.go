package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/gymlog/internal/records"
	"github.com/muurk/gymlog/internal/tui"
	"github.com/muurk/gymlog/internal/ui"
)

// Command flags
var (
	listPage      int
	listAll       bool
	searchPage    int
	assumeYes     bool
	patchExercise string
	patchWeight   string
)

func init() {
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(pingCmd)
}

// tuiCmd launches the interactive browser
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive record browser",
	Long: `Launch the full-screen record browser.

The browser shows one page of records at a time and provides:
  • Page navigation (home/←/→/end, 1-5 for the numbered window)
  • Adding, editing and deleting records
  • Searching by exercise name in a separately paged overlay
  • Live refresh when the server publishes a change feed`,
	Example: `  # Launch the browser
  gymlog tui
  # Or simply (tui is default):
  gymlog

  # Ten rows per page against a specific server
  gymlog --server http://192.168.1.20:8080 --rows 10`,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal() || !ui.IsInputTerminal() {
		return fmt.Errorf("the interactive browser needs a terminal; use 'gymlog list' for plain output")
	}

	client, err := newClient(ctxOf(cmd))
	if err != nil {
		return err
	}
	// Fail before taking over the screen
	if err := client.Ping(ctxOf(cmd)); err != nil {
		return err
	}

	return tui.Run(client, tui.Options{
		Server:            client.BaseURL + client.BasePath,
		RowsPerPage:       cfg.Display.RowsPerPage,
		SearchRowsPerPage: cfg.Display.SearchRowsPerPage,
		RequestTimeout:    cfg.Server.RequestTimeout,
		DateLayout:        cfg.Display.DateFormat,
		LiveRefresh:       cfg.Server.LiveRefresh,
	})
}

// listCmd prints one page of records
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print a page of records",
	Example: `  # First page
  gymlog list

  # Third page, ten rows per page
  gymlog list --page 3 --rows 10

  # Every record, unpaged
  gymlog list --all`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "Page to print (1-based)")
	listCmd.Flags().BoolVar(&listAll, "all", false, "Print every record without paging")
}

func runList(cmd *cobra.Command, args []string) error {
	if listPage < 1 {
		return fmt.Errorf("--page must be at least 1, got %d", listPage)
	}
	if listAll && cmd.Flags().Changed("page") {
		return fmt.Errorf("--all and --page cannot be used together")
	}

	client, err := newClient(ctxOf(cmd))
	if err != nil {
		return err
	}

	if listAll {
		all, err := client.All(ctxOf(cmd))
		if err != nil {
			return err
		}
		records.NumberRows(all, 1, len(all))
		ui.NewPrinter(cmd.OutOrStdout()).PrintRecords(all, 1, 1)
		return nil
	}

	rows := cfg.Display.RowsPerPage
	page, err := client.FetchPage(ctxOf(cmd), listPage-1, rows)
	if err != nil {
		return err
	}

	records.NumberRows(page.Content, listPage, rows)
	ui.NewPrinter(cmd.OutOrStdout()).PrintRecords(page.Content, listPage, page.TotalPages)
	return nil
}

// searchCmd prints one page of search results
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search records by exercise name",
	Long: `Search records whose exercise name contains the query (case-insensitive).

Results are paged separately from the main list and use --search-rows.`,
	Example: `  gymlog search squat
  gymlog search "bench press" --page 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "Page to print (1-based)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchPage < 1 {
		return fmt.Errorf("--page must be at least 1, got %d", searchPage)
	}
	query := strings.Join(args, " ")

	client, err := newClient(ctxOf(cmd))
	if err != nil {
		return err
	}

	rows := cfg.Display.SearchRowsPerPage
	page, err := client.Search(ctxOf(cmd), query, searchPage-1, rows)
	if err != nil {
		return err
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Search", "gymlog search", map[string]string{"Query": query})
	records.NumberRows(page.Content, searchPage, rows)
	p.PrintRecords(page.Content, searchPage, page.TotalPages)
	return nil
}

// addCmd creates a record
var addCmd = &cobra.Command{
	Use:     "add <exercise> <weight>",
	Short:   "Add a record",
	Example: `  gymlog add "Bench Press" 80`,
	Args:    cobra.ExactArgs(2),
	RunE:    runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	in, err := parseInput(args[0], args[1])
	if err != nil {
		return err
	}

	client, err := newClient(ctxOf(cmd))
	if err != nil {
		return err
	}

	rec, err := client.Create(ctxOf(cmd), in)
	if err != nil {
		return err
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Record added", recordDetails(*rec), "")
	return nil
}

// updateCmd replaces a record's exercise and weight, or changes one of them
var updateCmd = &cobra.Command{
	Use:   "update <id> [<exercise> <weight>]",
	Short: "Update a record",
	Long: `Update a record. With an exercise and a weight the record is replaced;
with only an id, --exercise and --weight change just the fields given.`,
	Example: `  # Replace both fields
  gymlog update 12 Squat 120

  # Change the weight only
  gymlog update 12 --weight 125`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 || len(args) == 3 {
			return nil
		}
		return fmt.Errorf("accepts <id> <exercise> <weight>, or <id> with --exercise/--weight, received %d arg(s)", len(args))
	},
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVarP(&patchExercise, "exercise", "e", "", "New exercise name (with <id> only)")
	updateCmd.Flags().StringVarP(&patchWeight, "weight", "w", "", "New weight in kg (with <id> only)")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	partial := flags.Changed("exercise") || flags.Changed("weight")
	if partial && len(args) == 3 {
		return fmt.Errorf("--exercise and --weight cannot be combined with positional fields")
	}

	var in records.Input
	var patch records.Patch
	if len(args) == 3 {
		if in, err = parseInput(args[1], args[2]); err != nil {
			return err
		}
	} else {
		if patch, err = parsePatch(flags.Changed("exercise"), flags.Changed("weight")); err != nil {
			return err
		}
	}

	client, err := newClient(ctxOf(cmd))
	if err != nil {
		return err
	}

	ctx := ctxOf(cmd)
	old, err := client.Get(ctx, id)
	if err != nil {
		return err
	}
	var updated *records.Record
	if len(args) == 3 {
		updated, err = client.Update(ctx, id, in)
	} else {
		updated, err = client.Patch(ctx, id, patch)
	}
	if err != nil {
		return err
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Record updated", recordDetails(*updated), records.FormatDiff(*old, *updated))
	return nil
}

// deleteCmd removes a record after confirmation
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a record",
	Long: `Delete a record. The record is shown and you are asked to confirm
unless --yes is given.`,
	Example: `  gymlog delete 12
  gymlog delete 12 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Delete without asking")
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	client, err := newClient(ctxOf(cmd))
	if err != nil {
		return err
	}

	ctx := ctxOf(cmd)
	rec, err := client.Get(ctx, id)
	if err != nil {
		return err
	}

	if !assumeYes {
		if !ui.Confirm(os.Stdin, cmd.OutOrStdout(), "Delete record", recordDetails(*rec), "Delete this record?") {
			return nil
		}
	}

	deleted, err := client.Delete(ctx, id)
	if err != nil {
		return err
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Record deleted", recordDetails(*deleted), "")
	return nil
}

// parseInput validates command line exercise and weight before any request
func parseInput(exercise, weight string) (records.Input, error) {
	w, err := records.ParseWeight(weight)
	if err != nil {
		return records.Input{}, err
	}
	in := records.Input{Exercise: strings.TrimSpace(exercise), Weight: w}
	if err := records.JoinValidationErrors(records.ValidateInput(in)); err != nil {
		return records.Input{}, err
	}
	return in, nil
}

// parsePatch builds a partial update from the --exercise and --weight flags
func parsePatch(withExercise, withWeight bool) (records.Patch, error) {
	var p records.Patch
	if withExercise {
		exercise := strings.TrimSpace(patchExercise)
		p.Exercise = &exercise
	}
	if withWeight {
		w, err := records.ParseWeight(patchWeight)
		if err != nil {
			return records.Patch{}, err
		}
		p.Weight = &w
	}
	if err := records.JoinValidationErrors(records.ValidatePatch(p)); err != nil {
		return records.Patch{}, err
	}
	return p, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid record id %q", s)
	}
	return id, nil
}

func recordDetails(r records.Record) map[string]string {
	return map[string]string{
		"ID":       strconv.FormatInt(r.ID, 10),
		"Exercise": r.Exercise,
		"Weight":   fmt.Sprintf("%d kg", r.Weight),
		"Date":     r.FormatDateLayout(cfg.Display.DateFormat),
	}
}

// ctxOf returns the command context, which cobra leaves nil outside
// ExecuteContext
func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// pingCmd checks that the record server answers
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the record server is reachable",
	Example: `  gymlog ping
  gymlog ping --server http://nas.local:8080`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(ctxOf(cmd))
		if err != nil {
			return err
		}
		if err := client.Ping(ctxOf(cmd)); err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Server reachable", map[string]string{
			"Server": client.BaseURL + client.BasePath,
		}, "")
		return nil
	},
}

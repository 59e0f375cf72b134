package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tango/internal/stats"
	"github.com/verte-zerg/tango/internal/statsui"
	"github.com/verte-zerg/tango/internal/store"
)

var (
	historyRange string
	historyLimit int
	historyClear bool

	statsRange string
	statsPlain bool

	resetYes bool
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show answer history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyRange, "range", "all", "date range: all, today, week or month")
	cmd.Flags().IntVar(&historyLimit, "limit", 50, "maximum records to show (0: all)")
	cmd.Flags().BoolVar(&historyClear, "clear", false, "delete all history")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	filter, err := parseRange(historyRange)
	if err != nil {
		return fmt.Errorf("--range: %w", err)
	}
	if historyLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	filter.Limit = historyLimit

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	if historyClear {
		if err := st.ClearHistory(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return err
	}
	records, err := st.ListHistory(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return stats.RenderHistory(cmd.OutOrStdout(), records)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsRange, "range", "all", "date range: all, today, week or month")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	filter, err := parseRange(statsRange)
	if err != nil {
		return fmt.Errorf("--range: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	out := cmd.OutOrStdout()
	if statsPlain || !stats.IsTerminal(out) {
		report, err := stats.BuildReport(context.Background(), st, filter)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return stats.RenderReport(out, report, stats.TerminalWidth(), stats.IsTerminal(out))
	}

	m := statsui.NewModel(st, filter)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings [key [value]]",
		Short: "Show or change quiz settings",
		Long: "Without arguments, print every setting. With a key, print its value.\n" +
			"With a key and value, store it. Keys: " + strings.Join(store.SettingKeys(), ", ") + ".",
		Args: cobra.MaximumNArgs(2),
		RunE: runSettingsCmd,
	}
}

func runSettingsCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	out := cmd.OutOrStdout()
	if len(args) == 2 {
		if err := st.SetSetting(ctx, args[0], args[1]); err != nil {
			return fmt.Errorf("failed to set %s: %w", args[0], err)
		}
	}
	settings, err := st.Settings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	values := store.SettingValues(settings)
	if len(args) >= 1 {
		value, ok := values[args[0]]
		if !ok {
			return fmt.Errorf("unknown setting %q (keys: %s)", args[0], strings.Join(store.SettingKeys(), ", "))
		}
		_, err := fmt.Fprintf(out, "%s = %s\n", args[0], value)
		return err
	}
	rows := make([][]string, 0, len(values))
	for _, key := range store.SettingKeys() {
		rows = append(rows, []string{key, values[key]})
	}
	return stats.WriteTable(out, []string{"Key", "Value"}, rows, nil)
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export words, history and settings as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExportCmd,
	}
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	if len(args) == 0 || args[0] == "-" {
		return st.Export(ctx, cmd.OutOrStdout())
	}
	if err := writeFileAtomic(args[0], func(w io.Writer) error {
		return st.Export(ctx, w)
	}); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	logErrf("Exported to %s\n", args[0])
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace data with a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open backup: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				_ = cerr
			}
		}()
		r = f
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	res, err := st.Import(context.Background(), r)
	if err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}
	settings := "kept"
	if res.Settings {
		settings = "merged"
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d words and %d history records; settings %s.\n", res.Words, res.History, settings)
	return err
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all data and restore the sample words",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip confirmation")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "Delete all words, history and settings?")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("reset cancelled")
		}
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	if err := st.ResetAll(context.Background()); err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "All data reset.")
	return err
}

func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s [y/N] ", question); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func writeFileAtomic(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "tango-*.json")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := write(writer); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

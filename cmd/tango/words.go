package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tango/internal/model"
	"github.com/verte-zerg/tango/internal/stats"
	"github.com/verte-zerg/tango/internal/store"
	"github.com/verte-zerg/tango/internal/wordlist"
)

var (
	wordAudio       string
	wordNative      string
	wordReading     string
	wordTranslation string
	wordsLoadStrict bool
)

func newWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Manage the word list",
		Args:  cobra.NoArgs,
		RunE:  runWordsListCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all words",
		Args:  cobra.NoArgs,
		RunE:  runWordsListCmd,
	})

	add := &cobra.Command{
		Use:   "add <native> <reading> <translation>",
		Short: "Add a word",
		Args:  cobra.ExactArgs(3),
		RunE:  runWordsAddCmd,
	}
	add.Flags().StringVar(&wordAudio, "audio", "", "audio file path or URL")
	cmd.AddCommand(add)

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a word",
		Args:  cobra.ExactArgs(1),
		RunE:  runWordsEditCmd,
	}
	edit.Flags().StringVar(&wordNative, "native", "", "new native form")
	edit.Flags().StringVar(&wordReading, "reading", "", "new reading")
	edit.Flags().StringVar(&wordTranslation, "translation", "", "new translation")
	edit.Flags().StringVar(&wordAudio, "audio", "", "new audio file path or URL (\"\" clears)")
	cmd.AddCommand(edit)

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete words",
		Args:    cobra.MinimumNArgs(1),
		RunE:    runWordsRmCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "search <query>",
		Short: "Search words in any field",
		Args:  cobra.ExactArgs(1),
		RunE:  runWordsSearchCmd,
	})

	load := &cobra.Command{
		Use:   "load <file>",
		Short: "Add words from a TSV file (native, reading, translation[, audio])",
		Args:  cobra.ExactArgs(1),
		RunE:  runWordsLoadCmd,
	}
	load.Flags().BoolVar(&wordsLoadStrict, "strict", false, "fail when any line is incomplete")
	cmd.AddCommand(load)
	return cmd
}

func runWordsListCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	words, err := st.AllWords(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list words: %w", err)
	}
	return printWords(cmd.OutOrStdout(), words)
}

func runWordsAddCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	w, err := st.AddWord(context.Background(), model.Word{
		Native:      args[0],
		Reading:     args[1],
		Translation: args[2],
		AudioRef:    wordAudio,
	})
	if err != nil {
		return fmt.Errorf("failed to add word: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added #%d %s\n", w.ID, w.Native)
	return err
}

func runWordsEditCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	w, err := st.GetWord(ctx, id)
	if err != nil {
		return wordError(id, err)
	}
	flags := cmd.Flags()
	if flags.Changed("native") {
		w.Native = wordNative
	}
	if flags.Changed("reading") {
		w.Reading = wordReading
	}
	if flags.Changed("translation") {
		w.Translation = wordTranslation
	}
	if flags.Changed("audio") {
		w.AudioRef = wordAudio
	}
	if err := st.UpdateWord(ctx, w); err != nil {
		return wordError(id, err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated #%d %s\n", w.ID, w.Native)
	return err
}

func runWordsRmCmd(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	for _, id := range ids {
		if err := st.DeleteWord(context.Background(), id); err != nil {
			return wordError(id, err)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted #%d\n", id); err != nil {
			return err
		}
	}
	return nil
}

func runWordsSearchCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	words, err := st.SearchWords(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to search words: %w", err)
	}
	return printWords(cmd.OutOrStdout(), words)
}

func runWordsLoadCmd(cmd *cobra.Command, args []string) error {
	entries, err := wordlist.LoadWords(args[0])
	if err != nil {
		return fmt.Errorf("failed to load word list: %w", err)
	}
	words, rejected := wordlist.FilterComplete(entries)
	for _, e := range rejected {
		if _, err := fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d: incomplete entry skipped\n", args[0], e.Line); err != nil {
			return err
		}
	}
	if wordsLoadStrict && len(rejected) > 0 {
		return fmt.Errorf("%d incomplete entries in %s", len(rejected), args[0])
	}
	if len(words) == 0 {
		return fmt.Errorf("no complete entries in %s", args[0])
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	n, err := st.AddWords(context.Background(), words)
	if err != nil {
		return fmt.Errorf("failed to add words: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %d words\n", n)
	return err
}

func printWords(w io.Writer, words []model.Word) error {
	if len(words) == 0 {
		_, err := fmt.Fprintln(w, "No words found.")
		return err
	}
	rows := make([][]string, 0, len(words))
	for _, word := range words {
		audio := ""
		if word.AudioRef != "" {
			audio = "♪"
		}
		rows = append(rows, []string{
			strconv.FormatInt(word.ID, 10),
			word.Native,
			word.Reading,
			stats.Truncate(word.Translation, 40),
			audio,
		})
	}
	return stats.WriteTable(w, []string{"ID", "Word", "Reading", "Translation", ""}, rows, map[int]bool{0: true})
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid word id %q", s)
	}
	return id, nil
}

func wordError(id int64, err error) error {
	if errors.Is(err, store.ErrWordNotFound) {
		return fmt.Errorf("word #%d not found", id)
	}
	return fmt.Errorf("word #%d: %w", id, err)
}

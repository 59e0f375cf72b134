// Package main provides the CLI entrypoint for tango.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tango/internal/audio"
	"github.com/verte-zerg/tango/internal/config"
	"github.com/verte-zerg/tango/internal/generator"
	"github.com/verte-zerg/tango/internal/model"
	"github.com/verte-zerg/tango/internal/session"
	"github.com/verte-zerg/tango/internal/store"
	"github.com/verte-zerg/tango/internal/tui"
)

const (
	defaultCards    = session.DefaultCardCount
	defaultInterval = "3s"
)

var (
	dbPath string

	practiceAuto     bool
	practiceCards    int
	practiceInterval string
	practiceType     string
	practiceSeed     int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tango",
		Short:         "Terminal vocabulary drill",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: $XDG_DATA_HOME/tango/tango.db)")
	rootCmd.Flags().BoolVar(&practiceAuto, "auto", false, "auto mode: cards advance on a timer")
	rootCmd.Flags().IntVar(&practiceCards, "cards", defaultCards, "cards per auto session")
	rootCmd.Flags().StringVar(&practiceInterval, "interval", defaultInterval, "time per auto card (e.g. 3s, 1500ms, 7.5)")
	rootCmd.Flags().StringVar(&practiceType, "type", "", "quiz type: native, reading, translation, audio or random")
	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "random seed for reproducible draws (0: time based)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newWordsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyModeConfig(cmd, "auto", &practiceAuto, fileCfg.Practice.Mode); err != nil {
		return err
	}
	applyIntConfig(cmd, "cards", &practiceCards, fileCfg.Practice.Cards)
	applyStringConfig(cmd, "interval", &practiceInterval, fileCfg.Practice.Interval)
	applyStringConfig(cmd, "type", &practiceType, fileCfg.Practice.Type)
	applyInt64Config(cmd, "seed", &practiceSeed, fileCfg.Practice.Seed)

	if practiceCards <= 0 {
		return fmt.Errorf("--cards must be > 0")
	}
	interval, err := config.ParseInterval(practiceInterval)
	if err != nil {
		return fmt.Errorf("--interval: %w", err)
	}
	forced, err := parseQuizTypeFlag(practiceType)
	if err != nil {
		return fmt.Errorf("--type: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	if seeded, err := st.SeedSampleWords(ctx); err != nil {
		return fmt.Errorf("failed to seed sample words: %w", err)
	} else if seeded {
		logErrln("Added sample words; manage your list with: tango words")
	}
	settings, err := st.Settings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if err := checkForcedType(settings, forced); err != nil {
		return err
	}

	gen := generator.New()
	if practiceSeed != 0 {
		gen = generator.NewSeeded(practiceSeed)
	}
	st.SetGenerator(gen)

	player := audio.NewPlayer(stringValue(fileCfg.Audio.Player), audioCacheDir(fileCfg))

	var settingsStore session.SettingsStore = st
	if forced != nil {
		settingsStore = forcedTypeSettings{SettingsStore: st, quizType: *forced}
	}

	mode := model.ModeManual
	if practiceAuto {
		mode = model.ModeAuto
	}
	sched := tui.NewScheduler()
	logs := tui.NewLogs()
	engine := session.New(st, settingsStore, st,
		session.WithScheduler(sched),
		session.WithAudio(player),
		session.WithRand(gen),
		session.WithLogf(logs.Logf),
	)
	m := tui.NewModel(engine, sched, logs, tui.Config{
		Mode:      mode,
		Auto:      session.AutoSettings{CardCount: practiceCards, Interval: interval},
		ShowHints: settings.ShowHints,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// forcedTypeSettings pins the default quiz type so every draw honours
// --type. The type still has to be enabled; see checkForcedType.
type forcedTypeSettings struct {
	session.SettingsStore
	quizType model.QuizType
}

func (f forcedTypeSettings) Settings(ctx context.Context) (model.Settings, error) {
	s, err := f.SettingsStore.Settings(ctx)
	if err != nil {
		return s, err
	}
	qt := f.quizType
	s.DefaultQuizType = &qt
	return s, nil
}

// checkForcedType rejects a --type that the settings have disabled, since
// the selector would silently pick another type.
func checkForcedType(settings model.Settings, forced *model.QuizType) error {
	if forced == nil || settings.IsEnabled(*forced) {
		return nil
	}
	return fmt.Errorf("--type: %s quizzes are disabled; enable them with: tango settings %s true", *forced, store.EnableKey(*forced))
}

func parseQuizTypeFlag(value string) (*model.QuizType, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "random") {
		return nil, nil
	}
	qt, err := model.ParseQuizType(value)
	if err != nil {
		return nil, err
	}
	return &qt, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func openStore() (*store.Store, error) {
	path := dbPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func audioCacheDir(cfg config.FileConfig) string {
	if dir := stringValue(cfg.Audio.CacheDir); dir != "" {
		return dir
	}
	return config.DefaultAudioCacheDir()
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func applyModeConfig(cmd *cobra.Command, name string, target *bool, value *string) error {
	if value == nil || cmd.Flags().Changed(name) {
		return nil
	}
	mode, err := model.ParseMode(*value)
	if err != nil {
		return fmt.Errorf("practice.mode: %w", err)
	}
	*target = mode == model.ModeAuto
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tango configuration
# Uncomment a value to enable it. CLI flags override config values.
# Quiz settings (enabled types, hints, audio autoplay) live in the
# database; change them with: tango settings

[practice]
# mode = "manual"         # manual or auto
# cards = %d              # Cards per auto session
# interval = %q         # Time per auto card (Go duration or seconds)
# type = "random"         # native, reading, translation, audio or random
# seed = 0                # Random seed for reproducible draws (0: time based)

[audio]
# player = "mpv --no-video --really-quiet"   # Command used to play clips
# cache-dir = %q
`,
		defaultCards,
		defaultInterval,
		config.DefaultAudioCacheDir(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func parseRange(value string) (model.HistoryFilter, error) {
	r, err := model.ParseDateRange(value)
	if err != nil {
		return model.HistoryFilter{}, err
	}
	return model.HistoryFilter{Range: r, Now: time.Now()}, nil
}

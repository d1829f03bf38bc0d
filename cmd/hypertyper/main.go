// Package main provides the CLI entrypoint for hypertyper.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/hypertyper/internal/config"
	"github.com/verte-zerg/hypertyper/internal/feedback"
	"github.com/verte-zerg/hypertyper/internal/mode"
	"github.com/verte-zerg/hypertyper/internal/model"
	"github.com/verte-zerg/hypertyper/internal/stats"
	"github.com/verte-zerg/hypertyper/internal/statsui"
	"github.com/verte-zerg/hypertyper/internal/store"
	"github.com/verte-zerg/hypertyper/internal/tui"
	"github.com/verte-zerg/hypertyper/internal/wordlist"
)

const (
	defaultScoresLimit = 10
	defaultLogLevel    = "info"
)

var (
	playMode        string
	playTime        int
	playShowTimer   bool
	playSound       bool
	playGodMode     int
	playLookback    int
	playCorrections bool
	playPlayer      string
	playDataDir     string
	logLevel        string

	scoresMode  string
	scoresLimit int
	scoresLast  int
	scoresPlain bool

	resetYes bool

	wordlistForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := config.Default()
	rootCmd := &cobra.Command{
		Use:           "hypertyper",
		Short:         "Arcade typing game for the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playMode, "mode", "", "start this mode directly (key, name or number)")
	rootCmd.Flags().IntVar(&playTime, "time", int(defaults.TimeLimit/time.Second), "round length in seconds for timed modes")
	rootCmd.Flags().BoolVar(&playShowTimer, "show-timer", defaults.ShowTimer, "show the countdown during a round")
	rootCmd.Flags().BoolVar(&playSound, "sound", defaults.Sound, "ring the terminal bell on level up and round end")
	rootCmd.Flags().IntVar(&playGodMode, "god-mode", defaults.GodModeThreshold, "streak that unlocks God Mode")
	rootCmd.Flags().IntVar(&playLookback, "lookback", defaults.Lookback, "recent words that will not repeat")
	rootCmd.Flags().BoolVar(&playCorrections, "corrections", defaults.Corrections, "allow backspace to fix mistakes")
	rootCmd.Flags().StringVar(&playPlayer, "player", defaults.Player, "three-character player initials")
	rootCmd.Flags().StringVar(&playDataDir, "data-dir", "", "directory searched first for word lists")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newModesCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newWordlistCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := resolveConfig(cmd, fileCfg)
	if err != nil {
		return err
	}
	var startMode *mode.Mode
	if cmd.Flags().Changed("mode") {
		md, err := mode.Parse(playMode)
		if err != nil {
			return err
		}
		startMode = &md
	}

	logger, closeLog, err := openLogger(config.DefaultLogPath(), logLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	fb := feedback.NewDispatcher(feedback.Bell{W: os.Stderr}, cfg.Sound, logger.With("component", "feedback"))
	defer fb.Close()

	logger.Info("starting", "mode", cfg.Mode, "time_limit", cfg.TimeLimit, "player", cfg.Player)
	game := tui.NewModel(tui.Options{
		Config:     cfg,
		ConfigPath: config.DefaultConfigPath(),
		Board:      st,
		Feedback:   fb,
		Logger:     logger,
		StartMode:  startMode,
	})
	program := tea.NewProgram(game, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolveConfig layers the config file under explicitly set flags.
func resolveConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.Config, error) {
	g := fileCfg.Game
	applyStringConfig(cmd, "mode", &playMode, g.Mode)
	applyIntConfig(cmd, "time", &playTime, g.TimeLimit)
	applyBoolConfig(cmd, "show-timer", &playShowTimer, g.ShowTimer)
	applyBoolConfig(cmd, "sound", &playSound, g.Sound)
	applyIntConfig(cmd, "god-mode", &playGodMode, g.GodMode)
	applyIntConfig(cmd, "lookback", &playLookback, g.Lookback)
	applyBoolConfig(cmd, "corrections", &playCorrections, g.Corrections)
	applyStringConfig(cmd, "player", &playPlayer, g.Player)
	applyStringConfig(cmd, "data-dir", &playDataDir, g.DataDir)

	cfg := model.Config{
		Mode:             config.DefaultMode,
		TimeLimit:        time.Duration(playTime) * time.Second,
		ShowTimer:        playShowTimer,
		Sound:            playSound,
		GodModeThreshold: playGodMode,
		Lookback:         playLookback,
		Corrections:      playCorrections,
		Player:           config.NormalizePlayer(playPlayer),
		DataDir:          playDataDir,
	}
	if playMode != "" {
		md, err := mode.Parse(playMode)
		if err != nil {
			return model.Config{}, err
		}
		cfg.Mode = md.String()
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.TimeLimit <= 0 {
		return fmt.Errorf("--time must be > 0")
	}
	if cfg.GodModeThreshold < 1 {
		return fmt.Errorf("--god-mode must be >= 1")
	}
	if cfg.Lookback < 0 {
		return fmt.Errorf("--lookback must be >= 0")
	}
	return nil
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

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List game modes",
		Args:  cobra.NoArgs,
		RunE:  runModesCmd,
	}
}

func runModesCmd(cmd *cobra.Command, _ []string) error {
	return stats.RenderModes(cmd.OutOrStdout())
}

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show high scores",
		Args:  cobra.NoArgs,
		RunE:  runScoresCmd,
	}
	cmd.Flags().StringVar(&scoresMode, "mode", "", "mode filter")
	cmd.Flags().IntVar(&scoresLimit, "limit", defaultScoresLimit, "leaderboard size")
	cmd.Flags().IntVar(&scoresLast, "last", 0, "limit history to last N rounds")
	cmd.Flags().BoolVar(&scoresPlain, "plain", false, "print a text report instead of the interactive view")
	return cmd
}

func runScoresCmd(cmd *cobra.Command, _ []string) error {
	if scoresLimit <= 0 {
		return fmt.Errorf("--limit must be > 0")
	}
	if scoresLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	modeKey := ""
	if scoresMode != "" {
		md, err := mode.Parse(scoresMode)
		if err != nil {
			return err
		}
		modeKey = md.String()
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	out := cmd.OutOrStdout()
	if !scoresPlain && isTerminal(out) {
		scores := statsui.NewModel(st, statsui.Config{Mode: modeKey, Limit: scoresLimit, Window: stats.DefaultHistoryWindow})
		program := tea.NewProgram(scores, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run scores TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(cmd.Context(), st, stats.ReportConfig{
		Mode:   modeKey,
		Limit:  scoresLimit,
		Last:   scoresLast,
		Window: stats.DefaultHistoryWindow,
	})
	if err != nil {
		return err
	}
	chartWidth := 0
	if f, ok := out.(*os.File); ok {
		chartWidth = stats.ChartWidthFor(stats.TerminalWidth(f))
	}
	return stats.RenderReport(out, report, chartWidth, stats.UseColor(out))
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-scores",
		Short: "Delete every stored score",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "Delete all high scores? [y/N] ")
		if err != nil {
			return err
		}
		if !ok {
			logErrln("Aborted.")
			return nil
		}
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	n, err := st.Reset(cmd.Context())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d records\n", n)
	return err
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-legacy <highscores.json>",
		Short: "Import scores saved by older releases",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open legacy scores: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	records, err := store.ParseLegacy(file, time.Now())
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	imported, skipped := 0, 0
	for _, rec := range records {
		exists, err := st.Has(ctx, rec.ID)
		if err != nil {
			return err
		}
		if exists {
			skipped++
			continue
		}
		if _, _, err := st.InsertRecord(ctx, rec); err != nil {
			return fmt.Errorf("failed to import %s score: %w", rec.Mode, err)
		}
		imported++
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d scores (%d already present)\n", imported, skipped)
	return err
}

func newWordlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordlist <mode>",
		Short: "Copy a mode's word list into the data directory for editing",
		Args:  cobra.ExactArgs(1),
		RunE:  runWordlistCmd,
	}
	cmd.Flags().BoolVar(&wordlistForce, "force", false, "overwrite existing files")
	return cmd
}

func runWordlistCmd(cmd *cobra.Command, args []string) error {
	md, err := mode.Parse(args[0])
	if err != nil {
		return err
	}
	spec := md.Spec()
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	explicit := ""
	if fileCfg.Game.DataDir != nil {
		explicit = *fileCfg.Game.DataDir
	}
	dirs := config.DataDirs(explicit)
	outPath := filepath.Join(dirs[0], spec.File)
	if !wordlistForce {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("word list already exists: %s (use --force to overwrite)", outPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat word list: %w", err)
		}
	}
	words, source, err := wordlist.Load(spec, dirs)
	if err != nil {
		return err
	}
	if err := writeWordList(outPath, words); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d entries from %s to %s\n", len(words), source, outPath)
	return err
}

func writeWordList(path string, words []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create word list dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "wordlist-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp word list: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	for _, word := range words {
		if _, err := fmt.Fprintln(writer, word); err != nil {
			return fmt.Errorf("failed to write word list: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush word list: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close word list: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write word list: %w", err)
	}
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

// openLogger writes text logs to path since the alternate screen owns the
// terminal while the game runs.
func openLogger(path, level string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: lvl}))
	return logger, func() {
		if cerr := file.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	defaults := config.Default()
	return fmt.Sprintf(`# hypertyper configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# mode = %q            # Mode preselected in the menu
# time-limit = %d          # Round length in seconds (15, 30, 60, 120 in the menu)
# show-timer = %t        # Show the countdown during a round
# sound = %t             # Terminal bell on level up and round end
# god-mode = %d            # Streak that unlocks God Mode
# lookback = %d             # Recent words that will not repeat
# corrections = %t      # Allow backspace to fix mistakes
# player = %q           # Three-character initials for the leaderboard
# data-dir = ""            # Directory searched first for word lists
`,
		defaults.Mode,
		int(defaults.TimeLimit/time.Second),
		defaults.ShowTimer,
		defaults.Sound,
		defaults.GodModeThreshold,
		defaults.Lookback,
		defaults.Corrections,
		defaults.Player,
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

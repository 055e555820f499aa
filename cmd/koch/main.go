// Package main provides the CLI entrypoint for koch.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/koch/internal/audio"
	"github.com/verte-zerg/koch/internal/config"
	"github.com/verte-zerg/koch/internal/curriculum"
	"github.com/verte-zerg/koch/internal/generator"
	"github.com/verte-zerg/koch/internal/model"
	"github.com/verte-zerg/koch/internal/morse"
	"github.com/verte-zerg/koch/internal/recovery"
	"github.com/verte-zerg/koch/internal/session"
	"github.com/verte-zerg/koch/internal/stats"
	"github.com/verte-zerg/koch/internal/statsui"
	"github.com/verte-zerg/koch/internal/store"
	"github.com/verte-zerg/koch/internal/tui"
)

const defaultCurveWindow = 5

var (
	flagCharWPM      int
	flagEffectiveWPM int
	flagToneHz       float64
	flagSampleRate   int
	flagMute         bool
	flagDBPath       string
	flagConfigPath   string

	statsLesson      int
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	renderLesson  int
	renderOut     string
	renderSeed    int64
	renderLetters bool

	resetLesson int
	resetYes    bool
)

func main() {
	defer recovery.HandlePanic()
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "koch",
		Short:         "Koch method Morse code trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTrainerCmd,
	}

	defaults := config.DefaultSettings()
	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&flagCharWPM, "wpm", "w", defaults.CharWPM, "character speed (words per minute)")
	flags.IntVar(&flagEffectiveWPM, "effective-wpm", defaults.EffectiveWPM, "Farnsworth effective speed (<= wpm)")
	flags.Float64VarP(&flagToneHz, "tone", "t", defaults.ToneHz, "tone frequency in Hz")
	flags.IntVar(&flagSampleRate, "sample-rate", defaults.SampleRate, "audio sample rate in Hz")
	flags.BoolVar(&flagMute, "mute", defaults.Mute, "disable sound output")
	flags.StringVar(&flagDBPath, "db", "", "score database path (default: XDG data dir)")
	flags.StringVar(&flagConfigPath, "config", "", "config file path (default: XDG config dir)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLessonsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

func runTrainerCmd(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	scores, err := st.Load(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load scores: %w", err)
	}

	sink, closeSink := openSink(settings)
	defer closeSink()

	sess, err := session.New(settings, generator.New(), sink, st, scores)
	if err != nil {
		return err
	}
	defer recovery.HandlePanicFunc(func() {
		sess.Quit()
		closeSink()
	})
	defer sess.Quit()

	program := tea.NewProgram(tui.NewModel(sess), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// openSink returns the playback device, or a silent sink when muted or when
// no device can be opened.
func openSink(settings model.Settings) (audio.Sink, func()) {
	if settings.Mute {
		return audio.Silent{}, func() {}
	}
	player, err := audio.NewPlayer()
	if err != nil {
		logErrf("audio unavailable, continuing muted: %v\n", err)
		return audio.Silent{}, func() {}
	}
	return player, func() {
		if cerr := player.Close(); cerr != nil {
			logErrf("failed to close audio: %v\n", cerr)
		}
	}
}

func loadSettings(cmd *cobra.Command) (model.Settings, error) {
	fileCfg, err := config.LoadConfig(configPath())
	if err != nil {
		return model.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	settings := resolveSettings(cmd, fileCfg)
	if err := config.Validate(settings); err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}

// resolveSettings applies config file values to every flag the user did not set.
func resolveSettings(cmd *cobra.Command, fileCfg config.FileConfig) model.Settings {
	applyIntConfig(cmd, "wpm", &flagCharWPM, fileCfg.Morse.CharWPM)
	applyIntConfig(cmd, "effective-wpm", &flagEffectiveWPM, fileCfg.Morse.EffectiveWPM)
	applyFloatConfig(cmd, "tone", &flagToneHz, fileCfg.Morse.ToneHz)
	applyIntConfig(cmd, "sample-rate", &flagSampleRate, fileCfg.Morse.SampleRate)
	applyBoolConfig(cmd, "mute", &flagMute, fileCfg.Audio.Mute)
	return model.Settings{
		CharWPM:      flagCharWPM,
		EffectiveWPM: flagEffectiveWPM,
		ToneHz:       flagToneHz,
		SampleRate:   flagSampleRate,
		Mute:         flagMute,
	}
}

func configPath() string {
	if flagConfigPath != "" {
		return flagConfigPath
	}
	return config.DefaultConfigPath()
}

func openStore() (*store.Store, error) {
	path := flagDBPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
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
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template()), 0o644); err != nil {
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

func newLessonsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lessons",
		Short: "List lessons and the characters they introduce",
		Args:  cobra.NoArgs,
		RunE:  runLessonsCmd,
	}
}

func runLessonsCmd(cmd *cobra.Command, _ []string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Lesson", "New", "Patterns", "Characters")
	for lesson := 1; lesson <= curriculum.LessonCount(); lesson++ {
		chars, err := curriculum.NewCharacters(lesson)
		if err != nil {
			return err
		}
		alphabet, err := curriculum.UnlockedAlphabet(lesson)
		if err != nil {
			return err
		}
		patterns := make([]string, 0, len(chars))
		for _, r := range chars {
			p, err := curriculum.PatternOf(r)
			if err != nil {
				return err
			}
			patterns = append(patterns, p)
		}
		t.Row(strconv.Itoa(lesson), string(chars), strings.Join(patterns, " "), string(alphabet))
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), t.Render()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show lesson scores",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsLesson, "lesson", 0, "lesson to plot (default: most practiced)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit curves to the last N attempts")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsLesson < 0 || statsLesson > curriculum.LessonCount() {
		return fmt.Errorf("--lesson must be between 0 and %d", curriculum.LessonCount())
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	cfg := model.StatsConfig{
		Lesson:      statsLesson,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		return renderPlainStats(cmd, st, cfg)
	}
	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(cmd *cobra.Command, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Summaries); err != nil {
		return err
	}
	for _, lesson := range report.CurveLessons {
		if err := stats.RenderHistory(out, lesson, report.History(lesson, cfg), cfg.CurveWindow); err != nil {
			return err
		}
	}
	if n := len(report.Entries); n > 0 {
		last := report.Entries[n-1]
		if _, err := fmt.Fprintf(out, "Last attempt: %s\n", last.RecordedAt.Local().Format("2006-01-02 15:04")); err != nil {
			return err
		}
	}
	return nil
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write a lesson's audio to a WAV file",
		Args:  cobra.NoArgs,
		RunE:  runRenderCmd,
	}
	cmd.Flags().IntVar(&renderLesson, "lesson", 1, "lesson number")
	cmd.Flags().StringVarP(&renderOut, "out", "o", "", "output WAV path")
	cmd.Flags().Int64Var(&renderSeed, "seed", 0, "random seed (0: random)")
	cmd.Flags().BoolVar(&renderLetters, "letters", false, "render the new-character drill instead of lesson text")
	return cmd
}

func runRenderCmd(cmd *cobra.Command, _ []string) error {
	if renderOut == "" {
		return fmt.Errorf("--out must not be empty")
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	gen := generator.New()
	if renderSeed != 0 {
		gen = generator.NewWithSeed(renderSeed)
	}
	var text string
	if renderLetters {
		text, err = gen.Letters(renderLesson)
	} else {
		text, err = gen.Lesson(renderLesson)
	}
	if err != nil {
		return err
	}

	timing, err := morse.NewTiming(settings.CharWPM, settings.EffectiveWPM, settings.SampleRate)
	if err != nil {
		return err
	}
	synth, err := morse.NewSynthesizer(timing, settings.ToneHz)
	if err != nil {
		return err
	}
	buf := synth.Synthesize(text)
	if err := audio.WriteWAVFile(renderOut, buf); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logErrf("Wrote %s (%s)\n", renderOut, buf.Duration().Round(time.Millisecond))
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete stored scores",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().IntVar(&resetLesson, "lesson", 0, "lesson to reset (0: all lessons)")
	cmd.Flags().BoolVar(&resetYes, "yes", false, "confirm deletion")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		return fmt.Errorf("refusing to delete scores without --yes")
	}
	if resetLesson < 0 || resetLesson > curriculum.LessonCount() {
		return fmt.Errorf("--lesson must be between 0 and %d", curriculum.LessonCount())
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	removed, err := st.DeleteScores(context.Background(), resetLesson)
	if err != nil {
		return fmt.Errorf("failed to reset scores: %w", err)
	}
	target := "all lessons"
	if resetLesson > 0 {
		target = fmt.Sprintf("lesson %d", resetLesson)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Reset scores for %s (%d removed)\n", target, removed); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
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

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

// Package main provides the CLI entrypoint for rtyping.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/rtyping/internal/audio"
	"github.com/verte-zerg/rtyping/internal/config"
	"github.com/verte-zerg/rtyping/internal/generator"
	"github.com/verte-zerg/rtyping/internal/logger"
	"github.com/verte-zerg/rtyping/internal/model"
	"github.com/verte-zerg/rtyping/internal/session"
	"github.com/verte-zerg/rtyping/internal/stats"
	"github.com/verte-zerg/rtyping/internal/tui"
	"github.com/verte-zerg/rtyping/internal/wordlist"
)

const (
	defaultTimeout  = 60
	defaultLevel    = 30
	defaultFreq     = 800.0
	defaultPunctSet = ".,!?;:"
	defaultLogLevel = "info"
	defaultLogFmt   = "text"
)

type drillFlags struct {
	timeout    int
	level      int
	freq       float64
	sound      bool
	wordlist   string
	caps       float64
	punct      float64
	punctSet   string
	configPath string
	logLevel   string
	logFormat  string
	logOutput  string
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithFlags(&drillFlags{})
}

func newRootCmdWithFlags(flags *drillFlags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rtyping",
		Short:         "Terminal typing-speed drill",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDrillCmd(cmd, flags)
		},
	}

	f := rootCmd.Flags()
	f.IntVarP(&flags.timeout, "timeout", "t", defaultTimeout, "seconds")
	f.IntVarP(&flags.level, "level", "l", defaultLevel, "number of words")
	f.Float64Var(&flags.freq, "freq", defaultFreq, "feedback tone frequency in Hz, e.g. 880.0 or 480.0")
	f.BoolVarP(&flags.sound, "sound", "s", false, "enable sound and background music")
	f.StringVar(&flags.wordlist, "wordlist", "", "word list file, one word per line (default: built-in English)")
	f.Float64Var(&flags.caps, "caps", 0, "probability of capitalized first letter (0-1)")
	f.Float64Var(&flags.punct, "punct", 0, "punctuation probability per word (0-1)")
	f.StringVar(&flags.punctSet, "punct-set", defaultPunctSet, "punctuation set")
	f.StringVar(&flags.logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	f.StringVar(&flags.logFormat, "log-format", defaultLogFmt, "log format (text, json)")
	f.StringVar(&flags.logOutput, "log-output", "", "log destination: file path, stderr, or discard (default: state dir)")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (.toml or .yaml)")

	rootCmd.AddCommand(newConfigCmd(flags))
	return rootCmd
}

func runDrillCmd(cmd *cobra.Command, flags *drillFlags) error {
	if err := applyFileConfig(cmd, flags); err != nil {
		return err
	}
	cfg := model.Config{
		TimeoutSeconds: flags.timeout,
		WordCount:      flags.level,
		ToneFrequency:  flags.freq,
		SoundEnabled:   flags.sound,
		WordListPath:   flags.wordlist,
		CapsPct:        flags.caps,
		PunctPct:       flags.punct,
		PunctSet:       flags.punctSet,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logOutput, err := resolveLogOutput(flags.logOutput)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("rtyping needs an interactive terminal on stdin")
	}

	log, logCloser, err := logger.New(logger.Config{Level: flags.logLevel, Format: flags.logFormat, Output: logOutput})
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer func() {
		if cerr := logCloser.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	words, err := loadWords(cfg.WordListPath)
	if err != nil {
		return err
	}
	gen := generator.New(words, generator.WithOptions(generator.Options{
		CapsPct:  cfg.CapsPct,
		PunctPct: cfg.PunctPct,
		PunctSet: []rune(cfg.PunctSet),
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []session.Option{session.WithLogger(log)}
	var bgm tui.Background
	if cfg.SoundEnabled {
		if player := openPlayer(ctx, log); player != nil {
			opts = append(opts, session.WithListener(player))
			bgm = player
		}
	}

	start := func(sessionCtx context.Context) (*session.Engine, error) {
		return session.Start(sessionCtx, cfg, gen, opts...)
	}
	m := tui.NewModel(start, bgm, log)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := m.Err(); err != nil {
		return err
	}
	if res, ok := m.Result(); ok {
		return stats.RenderResult(cmd.OutOrStdout(), res)
	}
	return nil
}

// resolveLogOutput maps the --log-output value to a logger destination.
// stdout is refused because the drill screen is drawn there.
func resolveLogOutput(output string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(output)) {
	case "":
		return config.DefaultLogPath(), nil
	case "stdout":
		return "", fmt.Errorf("%w: log output %q is used by the drill screen; use stderr or a file", model.ErrConfig, output)
	}
	return output, nil
}

func openPlayer(ctx context.Context, log logger.Logger) *audio.Player {
	sink, err := audio.OpenDevice()
	if err != nil {
		log.Warn("sound disabled", "error", err)
		return nil
	}
	player := audio.NewPlayer(sink, log)
	go player.Run(ctx)
	return player
}

func loadWords(path string) ([]string, error) {
	if path == "" {
		return wordlist.Default(), nil
	}
	words, err := wordlist.LoadWords(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load word list %s: %w", path, err)
	}
	words = wordlist.Filter(words, wordlist.FilterForLang(""))
	if len(words) == 0 {
		return nil, fmt.Errorf("word list %s has no usable words", path)
	}
	return words, nil
}

func resolveConfigPath(flags *drillFlags) string {
	if flags.configPath != "" {
		return flags.configPath
	}
	return config.DefaultConfigPath()
}

func applyFileConfig(cmd *cobra.Command, flags *drillFlags) error {
	fileCfg, err := config.LoadConfig(resolveConfigPath(flags))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	d := fileCfg.Drill
	applyConfig(cmd, "timeout", &flags.timeout, d.Timeout)
	applyConfig(cmd, "level", &flags.level, d.Level)
	applyConfig(cmd, "freq", &flags.freq, d.Freq)
	applyConfig(cmd, "sound", &flags.sound, d.Sound)
	applyConfig(cmd, "wordlist", &flags.wordlist, d.Wordlist)
	applyConfig(cmd, "caps", &flags.caps, d.CapsPct)
	applyConfig(cmd, "punct", &flags.punct, d.PunctPct)
	applyConfig(cmd, "punct-set", &flags.punctSet, d.PunctSet)
	l := fileCfg.Log
	applyConfig(cmd, "log-level", &flags.logLevel, l.Level)
	applyConfig(cmd, "log-format", &flags.logFormat, l.Format)
	applyConfig(cmd, "log-output", &flags.logOutput, l.Output)
	return nil
}

// applyConfig copies a file value into target unless the flag was set.
func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func newConfigCmd(flags *drillFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigCmd(resolveConfigPath(flags))
		},
	}
}

func runConfigCmd(path string) error {
	if err := writeDefaultConfig(path); err != nil {
		return err
	}
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...) // nolint:gosec
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeDefaultConfig creates the config file from the template if it is missing.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	template := defaultConfigTemplate()
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		template = defaultYAMLTemplate()
	}
	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# rtyping configuration
# Uncomment a value to enable it. CLI flags override config values.

[drill]
# timeout = %d            # Seconds
# level = %d              # Number of words
# freq = %.1f            # Feedback tone frequency (Hz)
# sound = false           # Enable sound and background music
# wordlist = ""           # Word list file (default: built-in English)
# caps = 0.0              # Probability of capitalized first letter (0-1)
# punct = 0.0             # Punctuation probability per word (0-1)
# punct-set = %q      # Punctuation set

[log]
# level = %q
# format = %q
# output = ""             # File path, stderr, or discard
`,
		defaultTimeout,
		defaultLevel,
		defaultFreq,
		defaultPunctSet,
		defaultLogLevel,
		defaultLogFmt,
	)
}

func defaultYAMLTemplate() string {
	return fmt.Sprintf(`# rtyping configuration
# Uncomment a value to enable it. CLI flags override config values.
drill:
  # timeout: %d
  # level: %d
  # freq: %.1f
  # sound: false
log:
  # level: %s
  # format: %s
`,
		defaultTimeout,
		defaultLevel,
		defaultFreq,
		defaultLogLevel,
		defaultLogFmt,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

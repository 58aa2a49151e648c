package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/willibrandon/oolong/internal/buffer"
	"github.com/willibrandon/oolong/internal/config"
	"github.com/willibrandon/oolong/internal/editor"
	"github.com/willibrandon/oolong/internal/history"
	"github.com/willibrandon/oolong/internal/logger"
	"github.com/willibrandon/oolong/internal/session"
)

var (
	// Version info (set by ldflags)
	version = "dev"

	// Flags
	configPath string
	debug      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "oolong [file]",
		Short: "A modal terminal text editor",
		Long: `oolong is a small modal text editor for the terminal.

It opens one file (or an empty buffer), edits it with vim-style normal,
insert, and command modes, and writes it back with ex-style commands:

  :w [name]    write the buffer
  :q           quit (refuses when unsaved changes exist)
  :q!          quit unconditionally
  :wq [name]   write, then quit

Ctrl+Q force-quits from any mode without saving.`,
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run(args)
			return nil
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "config file path (default ~/.config/oolong/config.yaml)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		// Error already printed by cobra
		os.Exit(1)
	}
}

func run(args []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fatal("oolong requires an interactive terminal")
	}

	// Load configuration
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fatal("Error loading config: %v", err)
	}
	if debug {
		cfg.Debug = true
	}

	// Initialize logging before anything that can fail
	level := logger.ParseLevel(cfg.Logging.Level)
	if cfg.Debug {
		level = logger.LevelDebug
	}
	logFile := cfg.Logging.Path
	if logFile == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			logFile = filepath.Join(dir, "oolong", "oolong.log")
		}
	}
	logger.InitLogger(level, logFile)
	defer logger.Close()
	logger.Debug("oolong starting", "version", version, "config", configPath)

	// Open the buffer. A missing file is fine; any other I/O error is
	// fatal at startup.
	var buf *buffer.Buffer
	if len(args) == 1 {
		buf, err = buffer.Load(args[0], cfg.Editor.TabStop)
		if err != nil {
			fatal("Error opening %s: %v", args[0], err)
		}
	} else {
		buf = buffer.New(cfg.Editor.TabStop)
	}

	// Command history, shared across sessions when enabled
	hist := history.NewManager(cfg.History)
	defer hist.Close()
	logger.Debug("Command history ready", "persistent", hist.Persistent())

	// Cursor position restoration is best-effort
	var sessions *session.Store
	if s, err := session.NewStore(); err != nil {
		logger.Warn("Session store unavailable", "error", err)
	} else {
		sessions = s
	}

	m := editor.New(buf, cfg, hist, version)
	if cfg.Editor.RestorePosition && sessions != nil && buf.Filename() != "" {
		if row, col, ok := sessions.Lookup(buf.Filename()); ok {
			m.SetPosition(row, col)
			logger.Debug("Restored cursor position", "file", buf.Filename(), "row", row, "col", col)
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		fatal("Error running editor: %v", err)
	}

	if final, ok := finalModel.(*editor.Model); ok {
		if sessions != nil && final.Buffer().Filename() != "" {
			row, col := final.Position()
			if err := sessions.Record(final.Buffer().Filename(), row, col); err != nil {
				logger.Warn("Failed to record session position", "error", err)
			}
		}
		ft := final.FrameStats()
		logger.Debug("Editor session ended",
			"frames", ft.Frames(), "avg_ms", ft.AverageMs(), "last", ft.Last(), "max", ft.Max())
	}

	// Replay captured warnings and errors once the alt screen is gone
	if cfg.Debug {
		fmt.Fprintf(os.Stderr, "debug session %s, log at %s\n", logger.SessionID(), logger.LogPath)
		for _, e := range logger.GetEntries() {
			fmt.Fprintln(os.Stderr, e.Format())
		}
	}
}

// fatal prints a red error line and exits.
func fatal(format string, args ...any) {
	color.New(color.FgRed).Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

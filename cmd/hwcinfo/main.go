package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/srlehn/hwdisplay"
	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal"
	"github.com/srlehn/hwdisplay/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:          `hwcinfo`,
	Short:        `inspect display composition hardware`,
	Long:         `hwcinfo lists and drives the planes, crtcs and connectors of the display controller`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

var (
	debug      bool
	configPath string
	logFile    string
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.PersistentFlags().BoolVar(&debug, `debug`, false, `debug errors and log at debug level`)
	rootCmd.PersistentFlags().StringVar(&configPath, `config`, ``, `YAML configuration file`)
	rootCmd.PersistentFlags().StringVar(&logFile, `log-file`, ``, `write the log to this file`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(fn func() error) {
	var err error
	if fn == nil {
		err = errors.NilParam()
	} else {
		err = fn()
	}
	if err != nil {
		if stackFramer, ok := err.(interface{ ErrorStack() string }); debug && ok {
			fmt.Println(stackFramer.ErrorStack())
			os.Exit(1)
		} else {
			log.Fatal(err)
		}
	}
}

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(`32`))

func heading(w io.Writer, s string) { fmt.Fprintln(w, headingStyle.Render(s)) }

// newManager builds a manager from the flags. The returned closer also
// releases the manager.
func newManager() (*display.Manager, io.Closer, error) {
	closer := internal.NewCloser()
	opts := display.Options{hwdisplay.DefaultConfig}
	if len(configPath) > 0 {
		cfg, err := hwdisplay.LoadConfig(configPath)
		if err != nil {
			return nil, closer, err
		}
		if len(logFile) > 0 {
			cfg.LogFile = logFile
		}
		if debug {
			cfg.LogLevel = `debug`
		}
		cfgOpts, cfgCloser, err := cfg.Options()
		closer.AddClosers(cfgCloser)
		if err != nil {
			return nil, closer, err
		}
		opts = append(opts, cfgOpts)
	} else if len(logFile) > 0 || debug {
		w := io.Writer(os.Stderr)
		if len(logFile) > 0 {
			f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
			if err != nil {
				return nil, closer, errors.New(err)
			}
			closer.AddClosers(f)
			w = f
		}
		lvl := slog.LevelInfo
		if debug {
			lvl = slog.LevelDebug
		}
		opts = append(opts, display.SetLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	}
	m, err := display.NewManager(opts)
	if err != nil {
		return nil, closer, err
	}
	closer.AddClosers(m)
	return m, closer, nil
}

// withManager runs fn with a manager that is closed afterwards.
func withManager(fn func(m *display.Manager) error) func() error {
	return func() error {
		m, closer, err := newManager()
		defer closer.Close()
		if err != nil {
			return err
		}
		return fn(m)
	}
}

// Package cmd implements the starbin command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/arloliu/starbin/compress"
	"github.com/arloliu/starbin/internal/build"
	"github.com/arloliu/starbin/internal/config"
	"github.com/arloliu/starbin/internal/logging"
	"github.com/arloliu/starbin/internal/watch"
	"github.com/arloliu/starbin/report"
)

var rootCmd = &cobra.Command{
	Use:   "starbin",
	Short: "Convert stellar catalogues and evolutionary tracks into compact binary files",
	Long: "starbin converts the ATHYG star catalogue and MIST stellar evolution tables into\n" +
		"fixed-layout big-endian binary files that a runtime loader reads without parsing.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default .starbin.yaml)")
	flags.BoolP("verbose", "v", false, "debug logging")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.Int("flush-threshold", 0, "writer buffer size in bytes before flushing to disk (0 keeps the default)")
	flags.Bool("report", false, "print statistics and histograms of the encoded quantities")
	flags.String("report-file", "", "write the report to this file instead, compressed by suffix (.gz, .zst, .sz, .lz4)")
	flags.Bool("watch", false, "rebuild whenever an input changes")

	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("report", flags.Lookup("report"))
	_ = viper.BindPFlag("report_file", flags.Lookup("report-file"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".starbin")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("STARBIN")
	viper.SetEnvKeyReplacer(config.EnvKeyReplacer)
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// session is the resolved configuration of one invocation.
type session struct {
	cfg    config.Config
	logger *zap.SugaredLogger
	watch  bool
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if n, _ := cmd.Flags().GetInt("flush-threshold"); n > 0 {
		cfg.FlushThreshold = n
	}

	logger, err := logging.New("starbin", cfg.Level())
	if err != nil {
		return nil, err
	}
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debugw("loaded config", "file", used)
	}

	watching, _ := cmd.Flags().GetBool("watch")

	return &session{cfg: cfg, logger: logger, watch: watching}, nil
}

func (rt *session) options() build.Options {
	return build.Options{
		Logger:         rt.logger,
		FlushThreshold: rt.cfg.FlushThreshold,
		Report:         rt.cfg.Reporting(),
	}
}

// writeReport renders rep to out, or to path when set, compressing by its suffix.
func writeReport(out io.Writer, path string, rep *report.Report) (err error) {
	if path == "" {
		return rep.Render(out)
	}

	wc, err := compress.Create(path)
	if err != nil {
		return fmt.Errorf("report file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, wc.Close())
	}()

	return rep.Render(wc)
}

// targets are the paths a build reads and writes, for --watch.
type targets struct {
	files  []string
	dirs   []string
	output string
}

// run performs one build, printing its report, and with --watch keeps rebuilding on
// input changes until interrupted. Rebuild failures are logged and do not stop watching.
func (rt *session) run(cmd *cobra.Command, what targets, once func() (build.Result, error)) error {
	defer func() { _ = rt.logger.Sync() }()

	buildOnce := func() error {
		res, err := once()
		if err != nil {
			return err
		}
		if res.Report != nil {
			return writeReport(cmd.OutOrStdout(), rt.cfg.ReportFile, res.Report)
		}

		return nil
	}

	err := buildOnce()
	if !rt.watch {
		return err
	}
	if err != nil {
		rt.logger.Errorw("build failed", "error", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rt.watchLoop(ctx, what, buildOnce)
}

func (rt *session) watchLoop(ctx context.Context, what targets, rebuild func() error) error {
	w, err := watch.New(watch.DefaultDebounce)
	if err != nil {
		return err
	}
	defer w.Stop()

	for _, f := range what.files {
		if err := w.AddFile(f); err != nil {
			return fmt.Errorf("watching %s: %w", f, err)
		}
	}
	for _, d := range what.dirs {
		if err := w.AddDir(d); err != nil {
			rt.logger.Warnw("cannot watch directory", "dir", d, "error", err)
		}
	}
	w.Ignore(what.output)
	w.Start()

	rt.logger.Infow("watching for changes", "files", len(what.files), "dirs", len(what.dirs))
	for {
		select {
		case <-ctx.Done():
			return nil
		case changed, ok := <-w.Changes:
			if !ok {
				return nil
			}
			rt.logger.Infow("inputs changed, rebuilding", "changed", changed)
			if err := rebuild(); err != nil {
				rt.logger.Errorw("build failed", "error", err)
			}
		}
	}
}

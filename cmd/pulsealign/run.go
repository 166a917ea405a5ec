package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-pulse/internal/config"
	"github.com/cwbudde/algo-pulse/internal/observability"
	"github.com/cwbudde/algo-pulse/pulse"
	"github.com/cwbudde/algo-pulse/pulse/load"
)

const envPrefix = "PULSEALIGN"

func newRunCmd() *cobra.Command {
	return runCmd(viper.New())
}

func runCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [shot ...]",
		Short: "Segment and align the shots of a run",
		Long: `Load every shot, condition and segment it at the field maximum, and
resample all shots onto the field grid of the shot with the smallest peak
field. Shots given as arguments replace those in the configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(v, args)
			if err != nil {
				return err
			}
			return runAlign(cmd, cfg)
		},
	}

	f := cmd.Flags()
	f.StringP("config", "c", "", "path to the YAML run configuration (required)")
	f.StringP("output", "o", "", "directory for aligned branch files")
	f.String("format", config.DefaultFormat, "shot file format: ascii or wav")
	f.Float64("threshold", config.DefaultThreshold, "field value the branches are cut at")
	f.String("window", config.DefaultWindow, "smoothing window: flat, hanning, hamming, bartlett, blackman")
	f.Int("window-length", config.DefaultWindowLength, "smoothing window length, 0 disables")
	f.Int("downsample", config.DefaultDownsample, "downsampling factor")
	f.Int("gaussian", 0, "Gaussian smoothing half-width, 0 disables")
	f.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	f.String("log-format", config.DefaultLogFormat, "log format: text or json")

	bindViper(v, cmd)
	return cmd
}

// bindViper makes every flag of cmd readable from v, with PULSEALIGN_*
// environment variables as the fallback for flags not given.
func bindViper(v *viper.Viper, cmd *cobra.Command) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// only fails on a nil flag set
	_ = v.BindPFlags(cmd.Flags())
}

// resolveConfig loads the configuration file and applies flag and
// environment overrides.
func resolveConfig(v *viper.Viper, args []string) (*config.Config, error) {
	path := v.GetString("config")
	if path == "" {
		return nil, errors.New("no configuration: use --config or " + envPrefix + "_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if v.IsSet("output") {
		cfg.Output = v.GetString("output")
	}
	if v.IsSet("format") {
		cfg.Format = v.GetString("format")
	}
	if v.IsSet("threshold") {
		t := v.GetFloat64("threshold")
		cfg.Threshold = &t
	}
	if v.IsSet("window") {
		cfg.Window.Kind = v.GetString("window")
	}
	if v.IsSet("window-length") {
		n := v.GetInt("window-length")
		cfg.Window.Length = &n
	}
	if v.IsSet("downsample") {
		cfg.Downsample = v.GetInt("downsample")
	}
	if v.IsSet("gaussian") {
		cfg.Gaussian.Width = v.GetInt("gaussian")
	}
	if v.IsSet("log-level") {
		cfg.Log.Level = v.GetString("log-level")
	}
	if v.IsSet("log-format") {
		cfg.Log.Format = v.GetString("log-format")
	}
	if len(args) > 0 {
		cfg.Shots = args
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Shots) == 0 {
		return nil, errors.New("no shots to align")
	}
	return cfg, nil
}

func runAlign(cmd *cobra.Command, cfg *config.Config) error {
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	logger = logger.With(slog.String("run", uuid.NewString()))

	pc, err := cfg.Pipeline()
	if err != nil {
		return err
	}
	format, err := load.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	params, cols := cfg.Params()
	shots := make([]*pulse.Shot, 0, len(cfg.Shots))
	for _, path := range cfg.Shots {
		shot, err := load.File(path, format, params, cols)
		if err != nil {
			return err
		}
		metrics.ShotLoaded()
		logger.Debug("loaded", slog.String("shot", path), slog.Int("samples", len(shot.Channels[pulse.Field])))
		shots = append(shots, shot)
	}

	p, err := pulse.NewPipeline(pc, pulse.WithLogger(logger), pulse.WithObserver(metrics))
	if err != nil {
		return err
	}
	ref, err := p.Run(cmd.Context(), shots)
	if err != nil {
		return err
	}

	if cfg.Output != "" {
		stems := outputStems(shots)
		for i, shot := range shots {
			files, err := writeShot(cfg.Output, stems[i], shot, pc.Channels)
			if err != nil {
				return err
			}
			logger.Info("wrote branches", slog.String("shot", shot.Source), slog.Any("files", files))
		}
	}

	summary, err := metrics.Summary()
	if err != nil {
		return err
	}
	return printReport(cmd.OutOrStdout(), shots, ref, summary)
}

func printReport(w io.Writer, shots []*pulse.Shot, ref int, summary observability.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Shot\tB max\tRising\tFalling\tReference\n")
	fmt.Fprintf(tw, "----\t-----\t------\t-------\t---------\n")
	for i, s := range shots {
		field := s.Segments[pulse.Field]
		mark := ""
		if i == ref {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%.6g\t%d\t%d\t%s\n", s.Source, s.Peak.Max, len(field.Rising), len(field.Falling), mark)
	}
	fmt.Fprintf(tw, "\nStage\tRuns\tSeconds\tErrors\t\n")
	fmt.Fprintf(tw, "-----\t----\t-------\t------\t\n")
	for _, st := range summary.Stages {
		fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.0f\t\n", st.Stage, st.Count, st.Seconds, st.Errors)
	}
	return tw.Flush()
}

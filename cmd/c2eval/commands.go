package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/francoispqt/gojay"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ld-tools/efm/circ"
	"github.com/ld-tools/efm/internal/channel"
)

const envPrefix = "C2EVAL"

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "c2eval",
		Short:         "Evaluate the C2 CIRC decoder on synthetic EFM streams.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return setupLogging(v.GetString("log-level"), v.GetString("log-format"))
		},
	}
	root.PersistentFlags().String("log-level", "info", "logrus level (debug|info|warn|error)")
	root.PersistentFlags().String("log-format", "text", "log format (text|json)")

	run := &cobra.Command{
		Use:   "run",
		Short: "Encode, damage and decode synthetic streams on parallel tracks.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := evalConfigFrom(v)
			if err != nil {
				return err
			}
			err = runAndReport(cmd, v, cfg)
			if err != nil {
				logrus.WithError(err).Error("evaluation failed")
			}
			return err
		},
	}
	f := run.Flags()
	f.Int("tracks", 4, "number of independent decoder tracks")
	f.Int("frames", 5000, "C2 codewords encoded per track")
	f.Int("codeword-length", circ.DefaultCodewordLength, "C2 codeword length")
	f.Int("parity-length", circ.DefaultParityLength, "C2 parity symbols per codeword")
	f.Int("delay-step", circ.DefaultDelayStep, "delay increment between codeword positions")
	f.String("policy", circ.PassThrough.String(), "failed codeword output (pass-through|zero-fill)")
	f.Float64("burst-rate", 0.001, "probability a burst of lost frames starts")
	f.Float64("burst-length", 8, "mean burst length in frames")
	f.Float64("erasure-rate", 0.001, "per-symbol probability of a flagged erasure")
	f.Float64("error-rate", 0, "per-symbol probability of an unflagged error")
	f.Int64("seed", 42, "random seed; track i uses seed+i")
	f.Int("report-every", 1000, "log decoder status every N frames (0 disables)")
	f.String("json", "", "write the JSON report to this path")
	f.String("dump", "", "write decoded data and flags per track (framewire format)")
	f.String("metrics", "", "write Prometheus metrics in text format to this path")

	root.AddCommand(run)
	return root
}

func setupLogging(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	switch format {
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}

func evalConfigFrom(v *viper.Viper) (evalConfig, error) {
	policy, err := circ.ParseFailurePolicy(v.GetString("policy"))
	if err != nil {
		return evalConfig{}, err
	}
	cfg := evalConfig{
		Tracks:         v.GetInt("tracks"),
		Frames:         v.GetInt("frames"),
		CodewordLength: v.GetInt("codeword-length"),
		ParityLength:   v.GetInt("parity-length"),
		DelayStep:      v.GetInt("delay-step"),
		Policy:         policy,
		Seed:           v.GetInt64("seed"),
		ReportEvery:    v.GetInt("report-every"),
		Scenario: channel.Scenario{
			BurstRate:   v.GetFloat64("burst-rate"),
			BurstLength: v.GetFloat64("burst-length"),
			ErasureRate: v.GetFloat64("erasure-rate"),
			ErrorRate:   v.GetFloat64("error-rate"),
		},
	}
	return cfg, cfg.validate()
}

func runAndReport(cmd *cobra.Command, v *viper.Viper, cfg evalConfig) error {
	reg := prometheus.NewRegistry()
	rep, err := evaluate(cmd.Context(), cfg, reg, logrus.StandardLogger())
	if err != nil {
		return err
	}
	rep.writeSummary(cmd.OutOrStdout())

	if path := v.GetString("json"); path != "" {
		if err := writeJSON(path, rep); err != nil {
			return err
		}
		logrus.WithField("path", path).Info("json report written")
	}
	if path := v.GetString("dump"); path != "" {
		for i := range rep.Tracks {
			p := trackPath(path, i, len(rep.Tracks))
			if err := writeDump(p, cfg, &rep.Tracks[i]); err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{"path": p, "track": i}).Info("dump written")
		}
	}
	if path := v.GetString("metrics"); path != "" {
		if err := prometheus.WriteToTextfile(path, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func writeJSON(path string, rep *report) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json: %w", err)
	}
	defer f.Close()
	if err := gojay.NewEncoder(f).EncodeObject(rep); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// trackPath names the dump of one track: out.bin, or out_track2.bin when
// several tracks run.
func trackPath(path string, track, tracks int) string {
	if tracks == 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_track%d%s", strings.TrimSuffix(path, ext), track, ext)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

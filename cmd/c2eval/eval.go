package main

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ld-tools/efm/circ"
	"github.com/ld-tools/efm/internal/channel"
)

type evalConfig struct {
	Tracks         int
	Frames         int
	CodewordLength int
	ParityLength   int
	DelayStep      int
	Policy         circ.FailurePolicy
	Seed           int64
	ReportEvery    int
	Scenario       channel.Scenario
}

func (c evalConfig) validate() error {
	if c.Tracks <= 0 || c.Tracks > 255 {
		return fmt.Errorf("tracks %d not in [1,255]", c.Tracks)
	}
	if c.Frames < 0 {
		return fmt.Errorf("negative frame count %d", c.Frames)
	}
	if c.ReportEvery < 0 {
		return fmt.Errorf("negative report interval %d", c.ReportEvery)
	}
	return c.Scenario.Validate()
}

func (c evalConfig) decoderOptions() []circ.Option {
	return []circ.Option{
		circ.WithCodewordLength(c.CodewordLength),
		circ.WithParityLength(c.ParityLength),
		circ.WithUniformDelay(c.DelayStep),
		circ.WithFailurePolicy(c.Policy),
	}
}

// evaluate runs every track on its own goroutine with its own decoder,
// channel and random source. Tracks share only the metrics registry.
func evaluate(ctx context.Context, cfg evalConfig, reg prometheus.Registerer, log logrus.FieldLogger) (*report, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rep := &report{Config: cfg, Tracks: make([]trackReport, cfg.Tracks)}
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	for i := range cfg.Tracks {
		reporter := circ.MultiReporter{
			circ.NewPrometheusReporter(reg, "c2eval", "", strconv.Itoa(i)),
			circ.NewLogReporter(log.WithField("track", i)),
		}
		g.Go(func() error {
			tr, err := runTrack(ctx, cfg, i, reporter)
			if err != nil {
				return fmt.Errorf("track %d: %w", i, err)
			}
			rep.Tracks[i] = *tr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	rep.Elapsed = time.Since(start)
	return rep, nil
}

func runTrack(ctx context.Context, cfg evalConfig, track int, reporter circ.StatusReporter) (*trackReport, error) {
	rng := rand.New(rand.NewSource(cfg.Seed + int64(track)))
	dec, err := circ.New(append(cfg.decoderOptions(), circ.WithReporter(reporter))...)
	if err != nil {
		return nil, err
	}
	n, k := dec.CodewordLength(), dec.DataLength()
	code, err := circ.NewCode(n, k)
	if err != nil {
		return nil, err
	}
	il, err := circ.NewInterleaver(circ.UniformDelays(n, cfg.DelayStep))
	if err != nil {
		return nil, err
	}
	ch, err := channel.New(cfg.Scenario, rng)
	if err != nil {
		return nil, err
	}

	tr := &trackReport{Track: track}
	payloads := make([]byte, 0, cfg.Frames*k)
	data := make([]byte, 0, cfg.Frames*k)
	flags := make([]bool, 0, cfg.Frames*k)
	erasures := make([]bool, n)
	payload := make([]byte, k)
	for m := range cfg.Frames {
		if m%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rng.Read(payload)
		payloads = append(payloads, payload...)
		cw, err := code.Encode(payload)
		if err != nil {
			return nil, err
		}
		frame, err := il.Push(cw)
		if err != nil {
			return nil, err
		}
		if err := ch.Apply(frame, erasures); err != nil {
			return nil, err
		}
		if err := dec.PushC1(frame, erasures); err != nil {
			return nil, err
		}
		data = append(data, dec.DataSymbols()...)
		flags = append(flags, dec.ErrorSymbols()...)
		if cfg.ReportEvery > 0 && (m+1)%cfg.ReportEvery == 0 {
			dec.ReportStatus()
		}
	}
	if err := dec.Flush(); err != nil {
		return nil, err
	}
	data = append(data, dec.DataSymbols()...)
	flags = append(flags, dec.ErrorSymbols()...)
	dec.ReportStatus()

	if len(data) != len(payloads) {
		return nil, fmt.Errorf("decoded %d bytes for %d payload bytes", len(data), len(payloads))
	}
	tr.Stats = dec.Statistics()
	tr.Channel = ch.Stats()
	tr.Data, tr.Flags = data, flags
	for off := 0; off < len(data); off += k {
		exact := bytes.Equal(data[off:off+k], payloads[off:off+k])
		switch {
		case flags[off]:
			tr.Flagged++
		case exact:
			tr.Recovered++
		default:
			// decoder claimed success on a wrong codeword
			tr.Miscorrected++
		}
	}
	return tr, nil
}

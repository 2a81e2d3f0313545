package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/francoispqt/gojay"

	"github.com/ld-tools/efm/circ"
	"github.com/ld-tools/efm/internal/channel"
	"github.com/ld-tools/efm/internal/framewire"
)

type report struct {
	Config  evalConfig
	Tracks  []trackReport
	Elapsed time.Duration
}

type trackReport struct {
	Track   int
	Stats   circ.Statistics
	Channel channel.Stats

	// codeword counts by comparison against the transmitted payloads
	Recovered    int
	Flagged      int
	Miscorrected int

	Data  []byte
	Flags []bool
}

func (t *trackReport) codewords() int { return t.Recovered + t.Flagged + t.Miscorrected }

func (t *trackReport) recoveryRate() float64 {
	if t.codewords() == 0 {
		return 0
	}
	return float64(t.Recovered) / float64(t.codewords())
}

func (r *report) total() (sum trackReport) {
	for _, t := range r.Tracks {
		sum.Stats.Passed += t.Stats.Passed
		sum.Stats.Corrected += t.Stats.Corrected
		sum.Stats.Failed += t.Stats.Failed
		sum.Stats.Flushed += t.Stats.Flushed
		sum.Recovered += t.Recovered
		sum.Flagged += t.Flagged
		sum.Miscorrected += t.Miscorrected
	}
	return sum
}

func (r *report) MarshalJSONObject(enc *gojay.Encoder) {
	enc.IntKey("tracks", r.Config.Tracks)
	enc.IntKey("frames", r.Config.Frames)
	enc.IntKey("codeword_length", r.Config.CodewordLength)
	enc.IntKey("parity_length", r.Config.ParityLength)
	enc.IntKey("delay_step", r.Config.DelayStep)
	enc.StringKey("policy", r.Config.Policy.String())
	enc.Int64Key("seed", r.Config.Seed)
	enc.Float64Key("burst_rate", r.Config.Scenario.BurstRate)
	enc.Float64Key("burst_length", r.Config.Scenario.BurstLength)
	enc.Float64Key("erasure_rate", r.Config.Scenario.ErasureRate)
	enc.Float64Key("error_rate", r.Config.Scenario.ErrorRate)
	enc.Int64Key("elapsed_ms", r.Elapsed.Milliseconds())
	enc.ArrayKey("results", trackReports(r.Tracks))
}

func (r *report) IsNil() bool { return r == nil }

type trackReports []trackReport

func (t trackReports) MarshalJSONArray(enc *gojay.Encoder) {
	for i := range t {
		enc.Object(&t[i])
	}
}

func (t trackReports) IsNil() bool { return len(t) == 0 }

func (t *trackReport) MarshalJSONObject(enc *gojay.Encoder) {
	enc.IntKey("track", t.Track)
	enc.Int64Key("passed", t.Stats.Passed)
	enc.Int64Key("corrected", t.Stats.Corrected)
	enc.Int64Key("failed", t.Stats.Failed)
	enc.Int64Key("flushed", t.Stats.Flushed)
	enc.IntKey("recovered", t.Recovered)
	enc.IntKey("flagged", t.Flagged)
	enc.IntKey("miscorrected", t.Miscorrected)
	enc.Float64Key("recovery_rate", t.recoveryRate())
	enc.Int64Key("channel_frames", t.Channel.Frames)
	enc.Int64Key("channel_lost_frames", t.Channel.LostFrames)
	enc.Int64Key("channel_erasures", t.Channel.Erasures)
	enc.Int64Key("channel_errors", t.Channel.Errors)
}

func (t *trackReport) IsNil() bool { return t == nil }

func (r *report) writeSummary(w io.Writer) {
	fmt.Fprintf(w, "C2 evaluation: RS(%d,%d), delay step %d, %s, %d tracks x %d frames\n\n",
		r.Config.CodewordLength, r.Config.CodewordLength-r.Config.ParityLength,
		r.Config.DelayStep, r.Config.Policy, r.Config.Tracks, r.Config.Frames)
	fmt.Fprintf(w, "| Track | Passed | Corrected | Failed | Flushed | Recovered %% | Miscorrected |\n")
	fmt.Fprintf(w, "|---:|---:|---:|---:|---:|---:|---:|\n")
	row := func(name string, t trackReport) {
		fmt.Fprintf(w, "| %s | %d | %d | %d | %d | %.3f | %d |\n", name,
			t.Stats.Passed, t.Stats.Corrected, t.Stats.Failed, t.Stats.Flushed,
			100*t.recoveryRate(), t.Miscorrected)
	}
	for _, t := range r.Tracks {
		row(fmt.Sprint(t.Track), t)
	}
	row("all", r.total())
	fmt.Fprintf(w, "\nElapsed: %s\n", r.Elapsed.Round(time.Millisecond))
}

func writeDump(path string, cfg evalConfig, t *trackReport) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dump: %w", err)
	}
	defer f.Close()

	h := framewire.Header{
		Track:     uint8(t.Track),
		N:         uint8(cfg.CodewordLength),
		K:         uint8(cfg.CodewordLength - cfg.ParityLength),
		Policy:    uint8(cfg.Policy),
		Delay:     uint16(cfg.DelayStep),
		Codewords: uint32(t.codewords()),
		Stats: [4]uint32{
			uint32(t.Stats.Passed), uint32(t.Stats.Corrected),
			uint32(t.Stats.Failed), uint32(t.Stats.Flushed),
		},
	}
	w, err := framewire.NewWriter(f, h)
	if err != nil {
		return err
	}
	if err := w.Write(t.Data, t.Flags); err != nil {
		return fmt.Errorf("write dump: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write dump: %w", err)
	}
	return f.Close()
}

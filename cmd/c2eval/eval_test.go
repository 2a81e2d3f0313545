package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/francoispqt/gojay"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/ld-tools/efm/circ"
	"github.com/ld-tools/efm/internal/channel"
	"github.com/ld-tools/efm/internal/framewire"
)

func testConfig() evalConfig {
	return evalConfig{
		Tracks:         3,
		Frames:         600,
		CodewordLength: circ.DefaultCodewordLength,
		ParityLength:   circ.DefaultParityLength,
		DelayStep:      circ.DefaultDelayStep,
		Seed:           7,
		ReportEvery:    200,
	}
}

func TestEvaluateCleanChannel(t *testing.T) {
	logger, hook := test.NewNullLogger()
	reg := prometheus.NewRegistry()
	rep, err := evaluate(context.Background(), testConfig(), reg, logger)
	require.NoError(t, err)
	require.Len(t, rep.Tracks, 3)

	for _, tr := range rep.Tracks {
		// the last 108 codewords are completed by Flush; 16 of them still
		// have at most four missing positions
		require.Equal(t, circ.Statistics{Passed: 492, Corrected: 16, Flushed: 92}, tr.Stats)
		require.Equal(t, 508, tr.Recovered)
		require.Equal(t, 92, tr.Flagged)
		require.Zero(t, tr.Miscorrected)
		require.Len(t, tr.Data, 600*24)
	}
	// three periodic reports and a final one per track
	require.Len(t, hook.AllEntries(), 3*4)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	var reports float64
	for _, mf := range mfs {
		if mf.GetName() == "c2eval_c2_status_reports_total" {
			require.Len(t, mf.GetMetric(), 3)
			for _, m := range mf.GetMetric() {
				reports += m.GetCounter().GetValue()
			}
		}
	}
	require.Equal(t, float64(3*4), reports)
}

func TestEvaluateDamagedChannel(t *testing.T) {
	cfg := testConfig()
	cfg.Frames = 2000
	cfg.Scenario = channel.Scenario{BurstRate: 0.002, BurstLength: 6, ErasureRate: 0.01}
	logger, _ := test.NewNullLogger()
	rep, err := evaluate(context.Background(), cfg, nil, logger)
	require.NoError(t, err)

	for _, tr := range rep.Tracks {
		require.NotZero(t, tr.Channel.Erasures)
		require.NotZero(t, tr.Stats.Corrected)
		require.Equal(t, int64(2000), tr.Stats.Total())
		// erasure-only damage never yields a wrong unflagged codeword
		require.Zero(t, tr.Miscorrected)
		require.Equal(t, 2000, tr.codewords())
	}
}

func TestEvaluateRejectsBadConfig(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := testConfig()
	cfg.Tracks = 0
	_, err := evaluate(context.Background(), cfg, nil, logger)
	require.Error(t, err)

	cfg = testConfig()
	cfg.ParityLength = 40
	_, err = evaluate(context.Background(), cfg, nil, logger)
	require.ErrorIs(t, err, circ.ErrConfig)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = evaluate(ctx, testConfig(), nil, logger)
	require.ErrorIs(t, err, context.Canceled)
}

func TestReportOutputs(t *testing.T) {
	cfg := testConfig()
	cfg.Tracks = 2
	cfg.Frames = 200
	logger, _ := test.NewNullLogger()
	rep, err := evaluate(context.Background(), cfg, nil, logger)
	require.NoError(t, err)

	b, err := gojay.MarshalJSONObject(rep)
	require.NoError(t, err)
	require.Contains(t, string(b), `"policy":"pass-through"`)
	require.Contains(t, string(b), `"results":[{"track":0,`)

	var summary bytes.Buffer
	rep.writeSummary(&summary)
	require.Contains(t, summary.String(), "RS(28,24)")
	require.Contains(t, summary.String(), "| all |")

	dir := t.TempDir()
	path := trackPath(filepath.Join(dir, "out.bin"), 1, 2)
	require.Equal(t, filepath.Join(dir, "out_track1.bin"), path)
	require.NoError(t, writeDump(path, cfg, &rep.Tracks[1]))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r, err := framewire.NewReader(f)
	require.NoError(t, err)
	require.Equal(t, uint8(1), r.Header().Track)
	require.Equal(t, uint32(200), r.Header().Codewords)
	d, flags, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, rep.Tracks[1].Data[:24], d)
	require.Equal(t, rep.Tracks[1].Flags[:24], flags)
}

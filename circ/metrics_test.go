package circ_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ld-tools/efm/circ"
)

func TestPrometheusReporter(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	r := circ.NewPrometheusReporter(reg, "efm", "decoder", "0")

	count, err := testutil.GatherAndCount(reg, "efm_decoder_c2_codewords_total")
	require.NoError(t, err)
	require.Equal(t, 4, count, "one series per outcome before the first report")

	r.ReportStatus(circ.Statistics{Passed: 8, Failed: 2})
	r.ReportStatus(circ.Statistics{Passed: 10, Corrected: 1, Failed: 2})
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP efm_decoder_c2_codewords_total Number of C2 codewords by decode outcome
# TYPE efm_decoder_c2_codewords_total counter
efm_decoder_c2_codewords_total{component="c2",outcome="corrected",track="0"} 1
efm_decoder_c2_codewords_total{component="c2",outcome="failed",track="0"} 2
efm_decoder_c2_codewords_total{component="c2",outcome="flushed",track="0"} 0
efm_decoder_c2_codewords_total{component="c2",outcome="passed",track="0"} 10
`), "efm_decoder_c2_codewords_total"))

	// a statistics reset must not make the counters go backwards
	r.ReportStatus(circ.Statistics{Passed: 3})
	count, err = testutil.GatherAndCount(reg, "efm_decoder_c2_status_reports_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP efm_decoder_c2_codewords_total Number of C2 codewords by decode outcome
# TYPE efm_decoder_c2_codewords_total counter
efm_decoder_c2_codewords_total{component="c2",outcome="corrected",track="0"} 1
efm_decoder_c2_codewords_total{component="c2",outcome="failed",track="0"} 2
efm_decoder_c2_codewords_total{component="c2",outcome="flushed",track="0"} 0
efm_decoder_c2_codewords_total{component="c2",outcome="passed",track="0"} 13
# HELP efm_decoder_c2_status_reports_total Number of status snapshots reported
# TYPE efm_decoder_c2_status_reports_total counter
efm_decoder_c2_status_reports_total{component="c2",track="0"} 3
# HELP efm_decoder_c2_failed_percent Share of failed C2 codewords in the last snapshot
# TYPE efm_decoder_c2_failed_percent gauge
efm_decoder_c2_failed_percent{component="c2",track="0"} 0
`), "efm_decoder_c2_codewords_total", "efm_decoder_c2_status_reports_total", "efm_decoder_c2_failed_percent"))
}

func TestPrometheusReporterUnregistered(t *testing.T) {
	r := circ.NewPrometheusReporter(nil, "", "", "")
	require.NotPanics(t, func() { r.ReportStatus(circ.Statistics{Failed: 1}) })
}

func TestPrometheusReporterTracks(t *testing.T) {
	reg := prometheus.NewRegistry()
	circ.NewPrometheusReporter(reg, "efm", "", "0")
	require.NotPanics(t, func() { circ.NewPrometheusReporter(reg, "efm", "", "1") })
	require.Panics(t, func() { circ.NewPrometheusReporter(reg, "efm", "", "1") })
}

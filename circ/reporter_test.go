package circ_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ld-tools/efm/circ"
	"github.com/ld-tools/efm/internal/mocks"
)

func TestLogReporter(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := circ.NewLogReporter(logger)

	r.ReportStatus(circ.Statistics{Passed: 6, Corrected: 2, Failed: 2})
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, logrus.InfoLevel, entry.Level)
	require.Equal(t, "c2 decoder status", entry.Message)
	require.Equal(t, int64(10), entry.Data["total"])
	require.Equal(t, int64(2), entry.Data["failed"])
	require.InDelta(t, 20.0, entry.Data["failed_pct"], 1e-9)

	hook.Reset()
	r.ReportStatus(circ.Statistics{})
	require.NotContains(t, hook.LastEntry().Data, "failed_pct")
}

func TestMultiReporter(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := mocks.NewMockStatusReporter(ctrl)
	b := mocks.NewMockStatusReporter(ctrl)
	s := circ.Statistics{Corrected: 3, Flushed: 1}
	a.EXPECT().ReportStatus(s)
	b.EXPECT().ReportStatus(s)

	circ.MultiReporter{a, nil, b}.ReportStatus(s)
}

package circ

import (
	"github.com/sirupsen/logrus"
)

//go:generate go run go.uber.org/mock/mockgen -package mocks -destination ../internal/mocks/status_reporter.go github.com/ld-tools/efm/circ StatusReporter

// StatusReporter receives statistics snapshots from Decoder.ReportStatus.
// It plays no part in decoding.
type StatusReporter interface {
	ReportStatus(s Statistics)
}

// LogReporter writes each snapshot as one structured log entry.
type LogReporter struct {
	logger logrus.FieldLogger
}

// NewLogReporter returns a reporter logging through logger, or through the
// logrus standard logger when logger is nil.
func NewLogReporter(logger logrus.FieldLogger) *LogReporter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogReporter{logger: logger}
}

func (r *LogReporter) ReportStatus(s Statistics) {
	fields := logrus.Fields{
		"passed":    s.Passed,
		"corrected": s.Corrected,
		"failed":    s.Failed,
		"flushed":   s.Flushed,
		"total":     s.Total(),
	}
	if total := s.Total(); total > 0 {
		fields["failed_pct"] = 100 * float64(s.Failed) / float64(total)
	}
	r.logger.WithFields(fields).Info("c2 decoder status")
}

// MultiReporter fans a snapshot out to several reporters.
type MultiReporter []StatusReporter

func (m MultiReporter) ReportStatus(s Statistics) {
	for _, r := range m {
		if r != nil {
			r.ReportStatus(s)
		}
	}
}

package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/classifier"
)

// #region configure
var logLevel = new(slog.LevelVar)

// ConfigureLogging installs a TextHandler on stderr as the default logger.
// The level comes from POSE_LOG_LEVEL (DEBUG, INFO, WARN, ERROR) and defaults to Info.
func ConfigureLogging() {
	ConfigureLoggingTo(os.Stderr)
}

// ConfigureLoggingTo is ConfigureLogging with an explicit writer.
func ConfigureLoggingTo(w io.Writer) {
	logLevel.Set(ParseLevel(os.Getenv("POSE_LOG_LEVEL")))
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// SetLogLevel changes the level of the logger installed by ConfigureLogging.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}

// ParseLevel maps a level name to a slog.Level. Unknown names give Info.
func ParseLevel(name string) slog.Level {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// #endregion configure

// #region tracer
// SlogTracer writes classifier trace events as structured log records.
// Rule and coverage events log at Debug, results at Info.
type SlogTracer struct {
	logger *slog.Logger
}

// NewSlogTracer wraps logger. A nil logger uses slog.Default().
func NewSlogTracer(logger *slog.Logger) *SlogTracer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogTracer{logger: logger}
}

// Trace implements classifier.Tracer.
func (t *SlogTracer) Trace(e classifier.TraceEvent) {
	switch e.Kind {
	case classifier.EventCoverage:
		t.logger.Debug("coverage",
			"pose", e.Pose,
			"passed", e.Correct,
			"missing", joinIDs(e))
	case classifier.EventRule:
		attrs := []any{"pose", e.Pose, "rule", e.Rule, "status", e.Status}
		if e.Penalty != 0 {
			attrs = append(attrs, "penalty", e.Penalty)
		}
		if len(e.Missing) > 0 {
			attrs = append(attrs, "missing", joinIDs(e))
		}
		t.logger.Debug("rule", attrs...)
	case classifier.EventResult:
		t.logger.Info("classified",
			"pose", e.Pose,
			"correct", e.Correct,
			"confidence", e.Confidence)
	}
}

func joinIDs(e classifier.TraceEvent) string {
	names := make([]string, len(e.Missing))
	for i, id := range e.Missing {
		names[i] = id.String()
	}
	return strings.Join(names, ",")
}

// #endregion tracer

package pipeline

import "log/slog"

// Events receives progress callbacks from a running batch. The
// pipelines perform no console output themselves; binaries install a
// sink that prints, and the default sink logs.
type Events interface {
	// OnProgress reports that a stage started for a document (or, for
	// terminal stages, an output path).
	OnProgress(stage, document string)
	// OnError reports a non-fatal per-document failure by taxonomy
	// kind. The batch continues after every OnError.
	OnError(kind, detail string)
}

type logEvents struct {
	logger *slog.Logger
}

// NewLogEvents returns the default slog-backed sink.
func NewLogEvents(logger *slog.Logger) Events {
	if logger == nil {
		logger = slog.Default()
	}
	return logEvents{logger: logger}
}

func (e logEvents) OnProgress(stage, document string) {
	e.logger.Debug("pipeline.progress", "stage", stage, "document", document)
}

func (e logEvents) OnError(kind, detail string) {
	e.logger.Warn("pipeline.error", "kind", kind, "detail", detail)
}

package batch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"framescan/internal/config"
	"framescan/internal/history"
	"framescan/internal/job"
	"framescan/internal/logging"
	"framescan/internal/output"
	"framescan/internal/scan"
	"framescan/internal/services"
	"framescan/internal/timecode"
)

// Options wires a Driver's collaborators.
type Options struct {
	Logger    *slog.Logger
	SessionID string
	// History, when set, records every session.
	History *history.Store
	// OpenSource defaults to the configured backend.
	OpenSource SourceOpener
	// Recognizer is shared by every session; sessions never overlap. Run
	// requires it; Check does not.
	Recognizer scan.Recognizer
	Progress   ProgressFunc
}

// Driver runs job entries sequentially.
type Driver struct {
	cfg        *config.Config
	base       *slog.Logger
	logger     *slog.Logger
	sessionID  string
	history    *history.Store
	openSource SourceOpener
	recognizer scan.Recognizer
	progress   ProgressFunc
}

// New constructs a driver for cfg.
func New(cfg *config.Config, opts Options) (*Driver, error) {
	if cfg == nil {
		return nil, errors.New("batch driver requires config")
	}
	opener := opts.OpenSource
	if opener == nil {
		var err error
		if opener, err = NewSourceOpener(cfg); err != nil {
			return nil, err
		}
	}
	return &Driver{
		cfg:        cfg,
		base:       opts.Logger,
		logger:     logging.NewComponentLogger(opts.Logger, "batch"),
		sessionID:  opts.SessionID,
		history:    opts.History,
		openSource: opener,
		recognizer: opts.Recognizer,
		progress:   opts.Progress,
	}, nil
}

// Result is the disposition of one job entry.
type Result struct {
	Video     string
	Path      string
	OutputDir string
	RunID     string
	Status    services.Status
	Summary   scan.Summary
	Err       error
}

// Report collects the results of a batch in job order.
type Report struct {
	SessionID string
	Targets   []string
	Results   []Result
	Elapsed   time.Duration
}

// Count returns how many results have status.
func (r *Report) Count(status services.Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Matches returns the total match count across results.
func (r *Report) Matches() int {
	n := 0
	for _, res := range r.Results {
		n += res.Summary.Matches
	}
	return n
}

// Run checks the job and scans every ready entry in order. One entry's
// failure never prevents later entries from running. The returned error is
// non-nil only when the job could not be checked or ctx was canceled.
func (d *Driver) Run(ctx context.Context, j *job.Job) (*Report, error) {
	if d.recognizer == nil {
		return nil, errors.New("batch run requires a text recognizer")
	}
	started := time.Now()
	check, err := d.Check(ctx, j)
	if err != nil {
		return nil, err
	}
	report := &Report{SessionID: d.sessionID, Targets: check.Targets}
	logger := logging.WithContext(ctx, d.logger)

	var emptyTargets error
	if len(check.Targets) == 0 {
		emptyTargets = services.NewConfigError(services.ReasonEmptyTarget, "text_to_find", "", errors.New("no text to find"))
		logging.WarnWithContext(logger, "job has no text to find; nothing to scan", "empty_targets",
			logging.String(logging.FieldErrorHint, "add strings to text_to_find"),
			logging.String(logging.FieldImpact, "no videos are scanned"),
		)
	}

	for _, item := range check.Items {
		result := Result{Video: item.Entry.Video, Path: item.Path}
		switch {
		case ctx.Err() != nil:
			result.Status = services.StatusSkipped
			result.Err = ctx.Err()
		case item.Err != nil:
			result.Status = services.StatusSkipped
			result.Err = item.Err
		case emptyTargets != nil:
			result.Status = services.StatusSkipped
			result.Err = emptyTargets
		default:
			result = d.runItem(ctx, item, check.Targets)
		}
		report.Results = append(report.Results, result)
	}

	report.Elapsed = time.Since(started)
	logger.Info("batch complete",
		logging.Int("videos", len(report.Results)),
		logging.Int("completed", report.Count(services.StatusCompleted)),
		logging.Int("skipped", report.Count(services.StatusSkipped)),
		logging.Int("failed", report.Count(services.StatusFailed)),
		logging.Int("matches", report.Matches()),
		logging.Duration("elapsed", report.Elapsed),
	)
	return report, ctx.Err()
}

func (d *Driver) runItem(ctx context.Context, item Item, targets []string) Result {
	result := Result{Video: item.Entry.Video, Path: item.Path}
	ctx = services.WithVideo(ctx, item.Entry.Video)
	logger := logging.WithContext(ctx, d.logger)

	fail := func(err error) Result {
		result.Err = err
		result.Status = services.FailureStatus(err)
		logging.ErrorWithContext(logger, "scan did not complete", "scan_failed",
			logging.String("status", string(result.Status)),
			logging.Error(err),
		)
		return result
	}

	source, err := d.openSource(ctx, item.Path)
	if err != nil {
		if !errors.Is(err, services.ErrSourceUnavailable) {
			err = services.Wrap(services.ErrSourceUnavailable, "batch", "open video", item.Path, err)
		}
		return fail(err)
	}
	window, err := timecode.NewWindow(item.Start, item.End, source.FrameRate())
	if err != nil {
		_ = source.Close()
		return fail(services.Wrap(services.ErrSourceUnavailable, "batch", "frame rate", item.Path, err))
	}

	result.OutputDir = output.Dir(item.Path, d.cfg.Output.Root)
	writer, err := output.Open(result.OutputDir, d.cfg.Output.LogName)
	if err != nil {
		_ = source.Close()
		return fail(err)
	}

	var sink scan.Sink = writer
	if d.history != nil {
		result.RunID = d.beginHistory(ctx, logger, item, window, targets, result.OutputDir)
		if result.RunID != "" {
			ctx = services.WithRunID(ctx, result.RunID)
			sink = scan.TeeSink(writer, d.history.Recorder(result.RunID, result.OutputDir))
		}
	}

	var observer scan.Observer
	finish := func() {}
	if d.progress != nil {
		observer, finish = d.progress(item.Entry.Video, window)
	}
	session, err := scan.NewSession(source, d.recognizer, sink, window, targets, scan.Options{
		StrideSeconds:         d.cfg.Scan.StrideSeconds,
		SkipRecognitionErrors: d.cfg.Scan.SkipRecognitionErrors,
		Logger:                d.base,
		Observer:              observer,
	})
	if err != nil {
		_ = source.Close()
		_ = sink.Close()
		finish()
		d.finishHistory(ctx, logger, result.RunID, services.StatusFailed, scan.Summary{}, err)
		return fail(err)
	}

	summary, err := session.Run(ctx)
	finish()
	result.Summary = summary
	result.Status = services.FailureStatus(err)
	result.Err = err
	d.finishHistory(ctx, logger, result.RunID, result.Status, summary, err)
	if err != nil {
		return fail(err)
	}

	logger.Info("analysis complete",
		logging.String("output_dir", result.OutputDir),
		logging.Int("samples", summary.Samples),
		logging.Int("matches", summary.Matches),
		logging.Bool("exhausted", summary.Exhausted),
		logging.Duration("time_taken", summary.Elapsed),
	)
	return result
}

func (d *Driver) beginHistory(ctx context.Context, logger *slog.Logger, item Item, window timecode.Window, targets []string, outputDir string) string {
	runID, err := d.history.Begin(ctx, history.RunStart{
		SessionID:  d.sessionID,
		VideoPath:  item.Path,
		OutputDir:  outputDir,
		Targets:    targets,
		StartFrame: window.StartFrame,
		EndFrame:   window.EndFrame,
		FrameRate:  window.FrameRate,
		Stride:     timecode.Stride(window.FrameRate, d.strideSeconds()),
	})
	if err != nil {
		logging.WarnWithContext(logger, "history record failed; scanning without history", "history_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not appear in history"),
		)
		return ""
	}
	return runID
}

func (d *Driver) finishHistory(ctx context.Context, logger *slog.Logger, runID string, status services.Status, summary scan.Summary, runErr error) {
	if d.history == nil || runID == "" {
		return
	}
	err := d.history.Finish(context.WithoutCancel(ctx), runID, history.RunResult{
		Status:    status,
		Samples:   summary.Samples,
		Matches:   summary.Matches,
		Exhausted: summary.Exhausted,
		Err:       runErr,
	})
	if err != nil {
		logging.WarnWithContext(logger, "history finish failed; run stays marked running", "history_finish_failed",
			logging.Error(err),
		)
	}
}

func (d *Driver) strideSeconds() float64 {
	if d.cfg.Scan.StrideSeconds > 0 {
		return d.cfg.Scan.StrideSeconds
	}
	return scan.DefaultStrideSeconds
}

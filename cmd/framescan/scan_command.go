package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"framescan/internal/batch"
	"framescan/internal/config"
	"framescan/internal/job"
	"framescan/internal/services"
)

const lastClock = "23:59:59"

type scanFlags struct {
	video   string
	from    string
	to      string
	texts   []string
	json    bool
	noProg  bool
	skipOCR bool
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan [job-file]",
		Short: "Scan videos for on-screen text",
		Long: `Scan the videos listed in a job file (JSON or TOML), or a single video
given with --video, sampling one frame every stride_seconds and recording
the timestamp of every frame whose lower half contains one of the texts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			j, runCfg, err := resolveScanJob(cfg, args, flags)
			if err != nil {
				return err
			}
			if flags.skipOCR {
				runCfg.Scan.SkipRecognitionErrors = true
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openHistory()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			if store != nil {
				defer store.Close()
			}
			recognizer, err := batch.NewRecognizer(runCfg)
			if err != nil {
				return err
			}
			defer recognizer.Close()

			driver, err := batch.New(runCfg, batch.Options{
				Logger:     logger,
				SessionID:  ctx.sessionID,
				History:    store,
				Recognizer: recognizer,
				Progress:   newProgress(cmd.ErrOrStderr(), logger, flags.noProg || flags.json),
			})
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(commandContextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, runErr := driver.Run(runCtx, j)
			if report != nil {
				var renderErr error
				if flags.json {
					renderErr = writeJSON(cmd, scanReportJSON(report))
				} else {
					renderScanReport(cmd.OutOrStdout(), report)
				}
				if renderErr != nil {
					return renderErr
				}
			}
			if runErr != nil {
				return runErr
			}
			if failed := report.Count(services.StatusFailed); failed > 0 {
				return fmt.Errorf("%d of %d videos failed", failed, len(report.Results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.video, "video", "", "Scan a single video instead of a job file")
	cmd.Flags().StringVar(&flags.from, "from", "00:00:00", "Start time (HH:MM:SS) for --video")
	cmd.Flags().StringVar(&flags.to, "to", lastClock, "End time (HH:MM:SS) for --video")
	cmd.Flags().StringArrayVarP(&flags.texts, "text", "t", nil, "Text to find with --video (repeatable, first match wins)")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&flags.noProg, "no-progress", false, "Disable progress output")
	cmd.Flags().BoolVar(&flags.skipOCR, "skip-ocr-errors", false, "Treat OCR failures as no match instead of failing the video")
	return cmd
}

// resolveScanJob builds the job to run. With --video the entry carries the
// absolute path, which is resolved directly rather than searched for by name.
func resolveScanJob(cfg *config.Config, args []string, flags scanFlags) (*job.Job, *config.Config, error) {
	video := strings.TrimSpace(flags.video)
	switch {
	case video != "" && len(args) > 0:
		return nil, nil, errors.New("give either a job file or --video, not both")
	case video == "" && len(args) == 0:
		return nil, nil, errors.New("a job file or --video is required")
	case video == "":
		j, err := job.Load(args[0])
		if err != nil {
			return nil, nil, err
		}
		return j, cfg, nil
	}

	if len(flags.texts) == 0 {
		return nil, nil, errors.New("--text is required with --video")
	}
	path, err := config.ExpandPath(video)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve video path: %w", err)
	}
	if path, err = filepath.Abs(path); err != nil {
		return nil, nil, fmt.Errorf("resolve video path: %w", err)
	}
	runCfg := *cfg
	runCfg.Paths.VideoRoot = filepath.Dir(path)
	return &job.Job{
		Targets: append([]string(nil), flags.texts...),
		Entries: []job.Entry{{Video: path, Start: flags.from, End: flags.to}},
	}, &runCfg, nil
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"framescan/internal/batch"
	"framescan/internal/job"
)

type checkItemJSON struct {
	Video      string   `json:"video"`
	Ready      bool     `json:"ready"`
	Path       string   `json:"path,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
	Start      string   `json:"start,omitempty"`
	End        string   `json:"end,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type checkReportJSON struct {
	Root     string          `json:"video_root"`
	Targets  []string        `json:"text_to_find"`
	Items    []checkItemJSON `json:"videos"`
	Problems []string        `json:"problems,omitempty"`
	Ignored  []string        `json:"ignored_keys,omitempty"`
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var strict bool

	cmd := &cobra.Command{
		Use:   "check <job-file>",
		Short: "Validate a job file without scanning",
		Long: `Check parses every time window and searches paths.video_root (recursively)
for every video in the job. Every entry is reported; one bad entry does not
hide the others.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			j, err := job.Load(args[0])
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			driver, err := batch.New(cfg, batch.Options{Logger: logger, SessionID: ctx.sessionID})
			if err != nil {
				return err
			}
			report, err := driver.Check(commandContextOf(cmd), j)
			if err != nil {
				return err
			}

			if jsonOut {
				if err := writeJSON(cmd, checkJSON(report)); err != nil {
					return err
				}
			} else {
				renderCheckReport(cmd, report)
			}

			rejected := len(report.Items) - report.Ready()
			if strict && (rejected > 0 || len(report.Problems) > 0) {
				return fmt.Errorf("job has %d rejected videos and %d job-level problems", rejected, len(report.Problems))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any entry is rejected")
	return cmd
}

func checkJSON(report *batch.CheckReport) checkReportJSON {
	out := checkReportJSON{
		Root:    report.Root,
		Targets: report.Targets,
		Items:   make([]checkItemJSON, 0, len(report.Items)),
		Ignored: report.Ignored,
	}
	if out.Targets == nil {
		out.Targets = []string{}
	}
	for _, item := range report.Items {
		entry := checkItemJSON{
			Video:      item.Entry.Video,
			Ready:      item.Ready(),
			Path:       item.Path,
			Candidates: item.Candidates,
			Error:      errorText(item.Err),
		}
		if item.Ready() {
			entry.Start = item.Start.String()
			entry.End = item.End.String()
		}
		out.Items = append(out.Items, entry)
	}
	for _, p := range report.Problems {
		out.Problems = append(out.Problems, p.Error())
	}
	return out
}

func renderCheckReport(cmd *cobra.Command, report *batch.CheckReport) {
	out := cmd.OutOrStdout()
	rows := make([][]string, 0, len(report.Items))
	for _, item := range report.Items {
		status := "Ready"
		window := ""
		detail := item.Path
		if item.Ready() {
			window = item.Start.String() + " - " + item.End.String()
			if len(item.Candidates) > 1 {
				detail = printer.Sprintf("%s (+%d more)", item.Path, len(item.Candidates)-1)
			}
		} else {
			status = "Skipped"
			detail = truncate(item.Err.Error(), 80)
		}
		rows = append(rows, []string{item.Entry.Video, status, window, detail})
	}
	fmt.Fprintln(out, renderTable([]string{"Video", "Status", "Window", "Path / Problem"}, rows, nil))
	for _, p := range report.Problems {
		fmt.Fprintf(out, "Warning: %s\n", p.Error())
	}
	if len(report.Ignored) > 0 {
		fmt.Fprintf(out, "Ignored job keys: %s\n", strings.Join(report.Ignored, ", "))
	}
	fmt.Fprintln(out, printer.Sprintf("%d of %d videos ready under %s", report.Ready(), len(report.Items), report.Root))
}

package main

import (
	"fmt"
	"io"

	"framescan/internal/batch"
	"framescan/internal/services"
)

type scanResultJSON struct {
	Video          string  `json:"video"`
	Path           string  `json:"path,omitempty"`
	OutputDir      string  `json:"output_dir,omitempty"`
	RunID          string  `json:"run_id,omitempty"`
	Status         string  `json:"status"`
	Samples        int     `json:"samples"`
	Matches        int     `json:"matches"`
	Stride         int64   `json:"stride_frames,omitempty"`
	Exhausted      bool    `json:"exhausted,omitempty"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Error          string  `json:"error,omitempty"`
}

type scanReportOutput struct {
	SessionID      string           `json:"session_id"`
	Targets        []string         `json:"text_to_find"`
	Results        []scanResultJSON `json:"results"`
	Completed      int              `json:"completed"`
	Skipped        int              `json:"skipped"`
	Failed         int              `json:"failed"`
	Matches        int              `json:"matches"`
	ElapsedSeconds float64          `json:"elapsed_seconds"`
}

func scanReportJSON(report *batch.Report) scanReportOutput {
	out := scanReportOutput{
		SessionID:      report.SessionID,
		Targets:        report.Targets,
		Results:        make([]scanResultJSON, 0, len(report.Results)),
		Completed:      report.Count(services.StatusCompleted),
		Skipped:        report.Count(services.StatusSkipped),
		Failed:         report.Count(services.StatusFailed),
		Matches:        report.Matches(),
		ElapsedSeconds: report.Elapsed.Seconds(),
	}
	if out.Targets == nil {
		out.Targets = []string{}
	}
	for _, res := range report.Results {
		out.Results = append(out.Results, scanResultJSON{
			Video:          res.Video,
			Path:           res.Path,
			OutputDir:      res.OutputDir,
			RunID:          res.RunID,
			Status:         string(res.Status),
			Samples:        res.Summary.Samples,
			Matches:        res.Summary.Matches,
			Stride:         res.Summary.Stride,
			Exhausted:      res.Summary.Exhausted,
			ElapsedSeconds: res.Summary.Elapsed.Seconds(),
			Error:          errorText(res.Err),
		})
	}
	return out
}

func renderScanReport(w io.Writer, report *batch.Report) {
	rows := make([][]string, 0, len(report.Results))
	for _, res := range report.Results {
		detail := res.OutputDir
		if res.Err != nil {
			detail = truncate(res.Err.Error(), 80)
		}
		rows = append(rows, []string{
			res.Video,
			statusLabel(res.Status),
			formatCount(int64(res.Summary.Samples)),
			formatCount(int64(res.Summary.Matches)),
			formatElapsed(res.Summary.Elapsed),
			detail,
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Video", "Status", "Samples", "Matches", "Time", "Output / Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))
	fmt.Fprintln(w, printer.Sprintf("%d videos: %d completed, %d skipped, %d failed; %d matches in %s",
		len(report.Results),
		report.Count(services.StatusCompleted),
		report.Count(services.StatusSkipped),
		report.Count(services.StatusFailed),
		report.Matches(),
		formatElapsed(report.Elapsed),
	))
}

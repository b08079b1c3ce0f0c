package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"framescan/internal/history"
	"framescan/internal/timecode"
)

type historyRunJSON struct {
	ID              string     `json:"id"`
	SessionID       string     `json:"session_id,omitempty"`
	VideoPath       string     `json:"video_path"`
	OutputDir       string     `json:"output_dir,omitempty"`
	Targets         []string   `json:"text_to_find"`
	StartFrame      int64      `json:"start_frame"`
	EndFrame        int64      `json:"end_frame"`
	FrameRate       float64    `json:"frame_rate"`
	Stride          int64      `json:"stride_frames"`
	Status          string     `json:"status"`
	Samples         int        `json:"samples"`
	Matches         int        `json:"matches"`
	Exhausted       bool       `json:"exhausted"`
	Error           string     `json:"error,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	DurationSeconds float64    `json:"duration_seconds,omitempty"`
}

type historyMatchJSON struct {
	FrameIndex int64  `json:"frame_index"`
	Timestamp  string `json:"timestamp"`
	Target     string `json:"target"`
	ImagePath  string `json:"image_path,omitempty"`
}

type historyShowJSON struct {
	Run     historyRunJSON     `json:"run"`
	Matches []historyMatchJSON `json:"matches"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past scan runs",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func withHistory(ctx *commandContext, fn func(*history.Store) error) error {
	store, err := ctx.openHistory()
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	if store == nil {
		return errors.New("history is disabled (history.enabled = false)")
	}
	defer store.Close()
	return fn(store)
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				runs, err := store.List(commandContextOf(cmd), limit)
				if err != nil {
					return err
				}
				if jsonOut {
					out := make([]historyRunJSON, 0, len(runs))
					for _, run := range runs {
						out = append(out, runJSON(run))
					}
					return writeJSON(cmd, out)
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortID(run.ID),
						run.StartedAt.Local().Format("2006-01-02 15:04"),
						truncate(run.VideoPath, 48),
						statusLabel(run.Status),
						formatCount(int64(run.Samples)),
						formatCount(int64(run.Matches)),
						formatElapsed(run.Duration()),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Run", "Started", "Video", "Status", "Samples", "Matches", "Time"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run and its matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				run, err := store.Get(commandContextOf(cmd), args[0])
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run %s not found", args[0])
				}
				matches, err := store.Matches(commandContextOf(cmd), run.ID)
				if err != nil {
					return err
				}

				if jsonOut {
					out := historyShowJSON{Run: runJSON(*run), Matches: make([]historyMatchJSON, 0, len(matches))}
					for _, m := range matches {
						out.Matches = append(out.Matches, matchJSON(m))
					}
					return writeJSON(cmd, out)
				}

				w := cmd.OutOrStdout()
				pairs := [][2]string{
					{"Run", run.ID},
					{"Video", run.VideoPath},
					{"Output", run.OutputDir},
					{"Text", strings.Join(run.Targets, ", ")},
					{"Window", fmt.Sprintf("frames %d-%d at %s", run.StartFrame, run.EndFrame, formatRate(run.FrameRate))},
					{"Stride", formatCount(run.Stride) + " frames"},
					{"Status", statusLabel(run.Status)},
					{"Samples", formatCount(int64(run.Samples))},
					{"Matches", formatCount(int64(run.Matches))},
					{"Exhausted", yesNo(run.Exhausted)},
					{"Started", run.StartedAt.Local().Format(time.RFC3339)},
					{"Time", formatElapsed(run.Duration())},
				}
				if run.ErrorMessage != "" {
					pairs = append(pairs, [2]string{"Error", run.ErrorMessage})
				}
				fmt.Fprintln(w, renderKeyValues(pairs))

				if len(matches) == 0 {
					fmt.Fprintln(w, "No matches")
					return nil
				}
				rows := make([][]string, 0, len(matches))
				for _, m := range matches {
					rows = append(rows, []string{
						formatCount(m.FrameIndex),
						timecode.FormatDuration(m.Timestamp),
						m.Target,
						m.ImagePath,
					})
				}
				fmt.Fprintln(w, renderTable(
					[]string{"Frame", "Timestamp", "Text", "Image"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func runJSON(run history.Run) historyRunJSON {
	return historyRunJSON{
		ID:              run.ID,
		SessionID:       run.SessionID,
		VideoPath:       run.VideoPath,
		OutputDir:       run.OutputDir,
		Targets:         run.Targets,
		StartFrame:      run.StartFrame,
		EndFrame:        run.EndFrame,
		FrameRate:       run.FrameRate,
		Stride:          run.Stride,
		Status:          string(run.Status),
		Samples:         run.Samples,
		Matches:         run.Matches,
		Exhausted:       run.Exhausted,
		Error:           run.ErrorMessage,
		StartedAt:       run.StartedAt,
		FinishedAt:      run.FinishedAt,
		DurationSeconds: run.Duration().Seconds(),
	}
}

func matchJSON(m history.Match) historyMatchJSON {
	return historyMatchJSON{
		FrameIndex: m.FrameIndex,
		Timestamp:  timecode.FormatDuration(m.Timestamp),
		Target:     m.Target,
		ImagePath:  m.ImagePath,
	}
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

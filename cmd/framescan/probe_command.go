package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"framescan/internal/config"
	"framescan/internal/media/ffprobe"
	"framescan/internal/services"
	"framescan/internal/timecode"
)

type probeJSON struct {
	Path            string  `json:"path"`
	DurationSeconds float64 `json:"duration_seconds"`
	FrameRate       float64 `json:"frame_rate"`
	FrameCount      int64   `json:"frame_count"`
	StrideFrames    int64   `json:"stride_frames"`
	Samples         int64   `json:"samples"`
	Width           int     `json:"width,omitempty"`
	Height          int     `json:"height,omitempty"`
	Codec           string  `json:"codec,omitempty"`
	SizeBytes       int64   `json:"size_bytes,omitempty"`
}

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "probe <video>",
		Short: "Show frame rate, frame count, and sampling plan for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				return services.Wrap(services.ErrSourceUnavailable, "probe", "stat", path, err)
			}
			result, err := ffprobe.Inspect(commandContextOf(cmd), cfg.FFprobeBinary(), path)
			if err != nil {
				return services.Wrap(services.ErrSourceUnavailable, "probe", "inspect", path, err)
			}

			info := probeJSON{
				Path:            path,
				DurationSeconds: result.DurationSeconds(),
				FrameRate:       result.FrameRate(),
				FrameCount:      result.FrameCount(),
				SizeBytes:       result.SizeBytes(),
			}
			if stream, ok := result.VideoStream(); ok {
				info.Width, info.Height, info.Codec = stream.Width, stream.Height, stream.CodecName
			}
			if info.FrameRate > 0 {
				info.StrideFrames = timecode.Stride(info.FrameRate, cfg.Scan.StrideSeconds)
				if info.StrideFrames > 0 && info.FrameCount > 0 {
					info.Samples = (info.FrameCount-1)/info.StrideFrames + 1
				}
			}

			if jsonOut {
				return writeJSON(cmd, info)
			}
			duration := time.Duration(info.DurationSeconds * float64(time.Second))
			pairs := [][2]string{
				{"Path", info.Path},
				{"Duration", timecode.FormatDuration(duration)},
				{"Frame rate", formatRate(info.FrameRate)},
				{"Frame count", formatCount(info.FrameCount)},
				{"Stride", printer.Sprintf("%d frames (%.1fs)", info.StrideFrames, cfg.Scan.StrideSeconds)},
				{"Samples (full video)", formatCount(info.Samples)},
			}
			if info.Width > 0 {
				pairs = append(pairs, [2]string{"Resolution", fmt.Sprintf("%dx%d %s", info.Width, info.Height, info.Codec)})
			}
			if info.SizeBytes > 0 {
				pairs = append(pairs, [2]string{"Size", formatBytes(info.SizeBytes)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues(pairs))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

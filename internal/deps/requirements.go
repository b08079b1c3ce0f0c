package deps

import "framescan/internal/config"

// Requirements lists the binaries the configured backends execute. Binaries
// the active backends do not need are reported as optional: ffprobe still
// powers the probe command, and tesseract is useful for comparing engines.
func Requirements(cfg *config.Config) []Requirement {
	execSource := cfg.Source.Backend == config.SourceFFmpeg
	execOCR := cfg.OCR.Backend == config.OCRTesseract
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Decodes frames for the ffmpeg frame source",
			Optional:    !execSource,
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Reads frame rate and frame count; used by probe",
			Optional:    !execSource,
		},
		{
			Name:        "Tesseract",
			Command:     cfg.TesseractBinary(),
			Description: "Recognizes text for the tesseract OCR backend",
			Optional:    !execOCR,
		},
	}
}

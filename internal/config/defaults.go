package config

const (
	defaultConfigPath       = "~/.config/framescan/config.toml"
	defaultVideoRoot        = "."
	defaultLogDir           = "~/.local/share/framescan/logs"
	defaultHistoryDB        = "~/.local/share/framescan/history.db"
	defaultLogRetentionDays = 30
	defaultStrideSeconds    = 7
	defaultSourceBackend    = SourceOpenCV
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultOCRBackend       = OCRGosseract
	defaultOCRLanguage      = "eng"
	defaultTesseractBinary  = "tesseract"
	defaultLogName          = "timestamps.csv"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Frame source backends.
const (
	SourceOpenCV = "opencv"
	SourceFFmpeg = "ffmpeg"
)

// Text recognizer backends.
const (
	OCRGosseract = "gosseract"
	OCRTesseract = "tesseract"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			VideoRoot: defaultVideoRoot,
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Scan: Scan{
			StrideSeconds: defaultStrideSeconds,
		},
		Source: Source{
			Backend:       defaultSourceBackend,
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		OCR: OCR{
			Backend:         defaultOCRBackend,
			Language:        defaultOCRLanguage,
			TesseractBinary: defaultTesseractBinary,
		},
		Output: Output{
			LogName: defaultLogName,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

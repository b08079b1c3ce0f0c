package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeSource()
	c.normalizeOCR()
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.VideoRoot) == "" {
		c.Paths.VideoRoot = defaultVideoRoot
	}
	if c.Paths.VideoRoot, err = expandPath(c.Paths.VideoRoot); err != nil {
		return fmt.Errorf("paths.video_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() {
	if c.Scan.StrideSeconds == 0 {
		c.Scan.StrideSeconds = defaultStrideSeconds
	}
}

func (c *Config) normalizeSource() {
	c.Source.Backend = strings.ToLower(strings.TrimSpace(c.Source.Backend))
	if c.Source.Backend == "" {
		c.Source.Backend = defaultSourceBackend
	}
	c.Source.FFmpegBinary = strings.TrimSpace(c.Source.FFmpegBinary)
	if c.Source.FFmpegBinary == "" {
		c.Source.FFmpegBinary = defaultFFmpegBinary
	}
	c.Source.FFprobeBinary = strings.TrimSpace(c.Source.FFprobeBinary)
	if c.Source.FFprobeBinary == "" {
		c.Source.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeOCR() {
	c.OCR.Backend = strings.ToLower(strings.TrimSpace(c.OCR.Backend))
	if c.OCR.Backend == "" {
		c.OCR.Backend = defaultOCRBackend
	}
	c.OCR.Language = strings.TrimSpace(c.OCR.Language)
	if c.OCR.Language == "" {
		c.OCR.Language = defaultOCRLanguage
	}
	c.OCR.TesseractBinary = strings.TrimSpace(c.OCR.TesseractBinary)
	if c.OCR.TesseractBinary == "" {
		c.OCR.TesseractBinary = defaultTesseractBinary
	}
}

func (c *Config) normalizeOutput() error {
	var err error
	c.Output.Root = strings.TrimSpace(c.Output.Root)
	if c.Output.Root != "" {
		if c.Output.Root, err = expandPath(c.Output.Root); err != nil {
			return fmt.Errorf("output.root: %w", err)
		}
	}
	c.Output.LogName = strings.TrimSpace(c.Output.LogName)
	if c.Output.LogName == "" {
		c.Output.LogName = defaultLogName
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("FRAMESCAN_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

// LogFilePattern matches the daily log files written under paths.log_dir.
const LogFilePattern = "framescan-*.log"

// LogFilePath returns the path of the persistent log file for the given day.
func (c *Config) LogFilePath(day time.Time) string {
	if c == nil || c.Paths.LogDir == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "framescan-"+day.Format("2006-01-02")+".log")
}

package config

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateOCR(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScan() error {
	stride := c.Scan.StrideSeconds
	if math.IsNaN(stride) || math.IsInf(stride, 0) || stride <= 0 {
		return errors.New("scan.stride_seconds must be a positive number of seconds")
	}
	return nil
}

func (c *Config) validateSource() error {
	switch c.Source.Backend {
	case SourceOpenCV, SourceFFmpeg:
		return nil
	default:
		return fmt.Errorf("source.backend: unsupported value %q (want %q or %q)", c.Source.Backend, SourceOpenCV, SourceFFmpeg)
	}
}

func (c *Config) validateOCR() error {
	switch c.OCR.Backend {
	case OCRGosseract, OCRTesseract:
	default:
		return fmt.Errorf("ocr.backend: unsupported value %q (want %q or %q)", c.OCR.Backend, OCRGosseract, OCRTesseract)
	}
	if strings.ContainsAny(c.OCR.Language, " \t/") {
		return fmt.Errorf("ocr.language: invalid value %q", c.OCR.Language)
	}
	return nil
}

func (c *Config) validateOutput() error {
	name := c.Output.LogName
	if name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("output.log_name must be a bare file name, got %q", name)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

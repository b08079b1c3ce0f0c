// Package services defines shared utilities consumed by the scan session, the
// batch driver, and the media/OCR adapters.
//
// Key responsibilities:
//   - Context helpers that stamp video names, history run identifiers, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper and ConfigError type that
//     translate failures into consistent batch dispositions (skipped vs failed).
//
// Use these helpers when wiring new adapters so operational behaviour (error
// classification, observability) stays uniform across the tool.
package services

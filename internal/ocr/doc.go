// Package ocr holds helpers shared by the text recognizer backends.
//
// Backends live in subpackages: gosseract links libtesseract through cgo and
// tesscli runs the tesseract binary. Both receive the region as PNG bytes.
package ocr

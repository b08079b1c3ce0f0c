// Package opencv decodes video frames in-process through gocv's VideoCapture.
//
// A Source is addressed by frame index: Seek positions the capture and Read
// returns the next frame as an image.Image, converting from OpenCV's BGR Mat.
package opencv

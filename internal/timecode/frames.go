package timecode

import (
	"fmt"
	"math"
	"time"
)

// ToFrame returns floor(seconds * rate) for the clock offset.
func ToFrame(c Clock, rate float64) int64 {
	if rate <= 0 {
		return 0
	}
	return int64(math.Floor(float64(c.TotalSeconds()) * rate))
}

// DurationToFrame returns floor(d * rate).
func DurationToFrame(d time.Duration, rate float64) int64 {
	if rate <= 0 || d <= 0 {
		return 0
	}
	return int64(math.Floor(d.Seconds() * rate))
}

// FrameToDuration returns frame / rate as a duration rounded to the microsecond.
func FrameToDuration(frame int64, rate float64) time.Duration {
	if rate <= 0 || frame <= 0 {
		return 0
	}
	micros := math.Round(float64(frame) / rate * 1e6)
	return time.Duration(micros) * time.Microsecond
}

// Stride returns the number of frames spanning the given seconds at rate,
// rounded to the nearest frame and never less than one.
func Stride(rate, seconds float64) int64 {
	stride := int64(math.Round(rate * seconds))
	if stride < 1 {
		return 1
	}
	return stride
}

// FormatDuration renders d as H:MM:SS, appending .ffffff when the duration
// carries a sub-second part.
func FormatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	micros := int64(d / time.Microsecond)
	secs := micros / 1e6
	frac := micros % 1e6
	out := fmt.Sprintf("%s%d:%02d:%02d", sign, secs/3600, (secs/60)%60, secs%60)
	if frac != 0 {
		out += fmt.Sprintf(".%06d", frac)
	}
	return out
}

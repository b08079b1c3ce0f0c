package logging

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type infoField struct {
	label string
	value string
}

const infoAttrLimit = 8

// infoHighlightKeys are rendered first, in this order, at info level and above.
var infoHighlightKeys = []string{
	FieldEventType,
	"error",
	FieldErrorHint,
	FieldImpact,
	FieldTimestamp,
	FieldTarget,
	FieldFrame,
	"status",
	"samples",
	"matches",
	"elapsed",
	"output_dir",
	"start_frame",
	"end_frame",
	"frame_rate",
	"stride",
}

// Keys already shown in the header or only useful to machines.
var infoSkipKeys = map[string]struct{}{
	FieldComponent:     {},
	FieldVideo:         {},
	FieldSessionID:     {},
	FieldCorrelationID: {},
}

// selectInfoFields returns formatted info-level fields and a count of entries
// dropped by the limit. limit <= 0 means no limit.
func selectInfoFields(attrs []kv, limit int) ([]infoField, int) {
	if len(attrs) == 0 {
		return nil, 0
	}
	used := make([]bool, len(attrs))
	result := make([]infoField, 0, len(attrs))
	hidden := 0
	add := func(idx int) {
		used[idx] = true
		if _, skip := infoSkipKeys[attrs[idx].key]; skip {
			return
		}
		if limit > 0 && len(result) >= limit {
			hidden++
			return
		}
		result = append(result, infoField{
			label: displayLabel(attrs[idx].key),
			value: formatInfoValue(attrs[idx].value),
		})
	}

	for _, key := range infoHighlightKeys {
		for idx, attr := range attrs {
			if !used[idx] && attr.key == key {
				add(idx)
				break
			}
		}
	}
	for idx := range attrs {
		if !used[idx] {
			add(idx)
		}
	}
	return result, hidden
}

// displayLabel turns snake_case keys into "Title Case" labels.
func displayLabel(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '.' })
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func formatInfoValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindBool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	case slog.KindDuration:
		return formatDurationHuman(v.Duration())
	case slog.KindFloat64:
		return fmt.Sprintf("%.3g", v.Float64())
	default:
		return attrString(v)
	}
}

func formatDurationHuman(d time.Duration) string {
	switch {
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return d.Round(100 * time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}

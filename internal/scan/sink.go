package scan

import (
	"context"
	"errors"
	"image"
)

type teeSink []Sink

// TeeSink fans every record out to each sink in order. The first failing sink
// stops the fan-out; Close closes all of them.
func TeeSink(sinks ...Sink) Sink {
	out := make(teeSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (t teeSink) Record(ctx context.Context, match MatchRecord, frame image.Image) error {
	for _, s := range t {
		if err := s.Record(ctx, match, frame); err != nil {
			return err
		}
	}
	return nil
}

func (t teeSink) Close() error {
	var errs []error
	for _, s := range t {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package connect

import (
	"context"
	"io"
	"os"
)

type logWriterKey struct{}

// WithLogWriter returns a new context carrying the given io.Writer for log
// output.
func WithLogWriter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, logWriterKey{}, w)
}

// LogWriter returns the io.Writer carried by ctx, or os.Stderr when none is
// set. The CLI passes it to the zap logger so tests can capture log output.
func LogWriter(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(logWriterKey{}).(io.Writer); ok && w != nil {
		return w
	}
	return os.Stderr
}

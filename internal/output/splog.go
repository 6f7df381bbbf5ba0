package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// consoleHandler writes "gbp:<level>: message" lines. Debug and info go to
// out, warnings and errors to err.
type consoleHandler struct {
	out, err  io.Writer
	outStyles prefixStyles
	errStyles prefixStyles
	verbose   bool
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level < slog.LevelInfo {
		return h.verbose
	}
	return true
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var (
		w      io.Writer
		prefix string
	)
	switch {
	case record.Level >= slog.LevelError:
		w, prefix = h.err, h.errStyles.error.Render("gbp:error:")
	case record.Level >= slog.LevelWarn:
		w, prefix = h.err, h.errStyles.warning.Render("gbp:warning:")
	case record.Level >= slog.LevelInfo:
		w, prefix = h.out, h.outStyles.info.Render("gbp:info:")
	default:
		w, prefix = h.out, h.outStyles.debug.Render("gbp:debug:")
	}
	_, err := fmt.Fprintf(w, "%s %s\n", prefix, record.Message)
	return err
}

func (h *consoleHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *consoleHandler) WithGroup(_ string) slog.Handler {
	return h
}

// multiHandler fans out log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// Options configures a Splog
type Options struct {
	// Out and Err default to os.Stdout and os.Stderr
	Out io.Writer
	Err io.Writer
	// Verbose enables debug messages on the console
	Verbose bool
	Color   ColorMode
	// LogFile, when set, receives every message including debug ones
	LogFile string
}

// Splog provides leveled logging for gbp-pq
type Splog struct {
	logger    *slog.Logger
	out       io.Writer
	logWriter io.WriteCloser
}

// NewSplog creates a logger. Debug messages are also enabled when the DEBUG
// environment variable is set.
func NewSplog(opts Options) (*Splog, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Color == "" {
		opts.Color = ColorAuto
	}

	splog := &Splog{out: opts.Out}
	handlers := []slog.Handler{&consoleHandler{
		out:       opts.Out,
		err:       opts.Err,
		outStyles: newPrefixStyles(opts.Out, opts.Color),
		errStyles: newPrefixStyles(opts.Err, opts.Color),
		verbose:   opts.Verbose || os.Getenv("DEBUG") != "",
	}}

	if opts.LogFile != "" {
		logFilePath := ExpandLogFilePath(opts.LogFile)
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		lumberjackLogger := createLumberjackLogger(logFilePath)
		splog.logWriter = lumberjackLogger

		handlers = append(handlers, slog.NewTextHandler(lumberjackLogger, &slog.HandlerOptions{
			Level: slog.LevelDebug,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.Attr{Key: a.Key, Value: slog.StringValue(a.Value.Time().Format("2006-01-02 15:04:05.000"))}
				}
				return a
			},
		}))
	}

	splog.logger = slog.New(&multiHandler{handlers: handlers})
	return splog, nil
}

// NewDiscardSplog returns a logger that prints nothing
func NewDiscardSplog() *Splog {
	splog, _ := NewSplog(Options{Out: io.Discard, Err: io.Discard, Color: ColorOff})
	return splog
}

func (s *Splog) log(level slog.Level, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	s.logger.Log(context.Background(), level, msg)
}

// Info writes an info message
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) Info(format string, args ...interface{}) {
	s.log(slog.LevelInfo, format, args)
}

// Warn writes a warning message
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) Warn(format string, args ...interface{}) {
	s.log(slog.LevelWarn, format, args)
}

// Error writes an error message
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) Error(format string, args ...interface{}) {
	s.log(slog.LevelError, format, args)
}

// Debug writes a debug message
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) Debug(format string, args ...interface{}) {
	s.log(slog.LevelDebug, format, args)
}

// Page writes unprefixed output, such as the output of git commands
func (s *Splog) Page(content string) {
	_, _ = fmt.Fprint(s.out, content)
}

// Close closes the log file if one was opened
func (s *Splog) Close() error {
	if s.logWriter != nil {
		return s.logWriter.Close()
	}
	return nil
}

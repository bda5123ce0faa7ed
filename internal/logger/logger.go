package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"
)

// LogLevel represents the verbosity level
type LogLevel int

const (
	LogLevelQuiet LogLevel = iota
	LogLevelNormal
	LogLevelVerbose
	LogLevelDebug
)

// ANSI color codes for terminal output
const (
	ColorReset   = "\033[0m"
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorGray    = "\033[90m"
	ColorWhite   = "\033[97m"
)

// Logger writes progress to out and diagnostics to errOut
type Logger struct {
	level  LogLevel
	out    io.Writer
	errOut io.Writer
	colors bool
}

var defaultLogger = New(os.Stdout, os.Stderr)

// New creates a logger at normal level. Colors are enabled only when out is
// a terminal and NO_COLOR is unset.
func New(out, errOut io.Writer) *Logger {
	return &Logger{
		level:  LogLevelNormal,
		out:    out,
		errOut: errOut,
		colors: detectColorSupport(out),
	}
}

// Default returns the process-wide logger used by the package functions
func Default() *Logger {
	return defaultLogger
}

// SetDefault replaces the process-wide logger
func SetDefault(l *Logger) {
	defaultLogger = l
}

// detectColorSupport checks if the terminal supports colors
func detectColorSupport(writer io.Writer) bool {
	// https://no-color.org/
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}

	file, ok := writer.(*os.File)
	if !ok {
		return false
	}

	stat, err := file.Stat()
	if err != nil {
		return false
	}

	return (stat.Mode() & os.ModeCharDevice) != 0
}

// SetLevel sets the log level
func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
}

// Level returns the current log level
func (l *Logger) Level() LogLevel {
	return l.level
}

// SetColors enables or disables color output
func (l *Logger) SetColors(enabled bool) {
	l.colors = enabled
}

func (l *Logger) colorize(text, color string) string {
	if l.colors {
		return color + text + ColorReset
	}
	return text
}

func (l *Logger) printf(w io.Writer, prefix, color, format string, args ...any) {
	fmt.Fprintf(w, l.colorize(prefix, color)+format+"\n", args...)
}

// Info logs informational messages (always shown unless quiet)
func (l *Logger) Info(format string, args ...any) {
	if l.level >= LogLevelNormal {
		l.printf(l.out, "[INFO] ", ColorCyan, format, args...)
	}
}

// Success logs success messages
func (l *Logger) Success(format string, args ...any) {
	if l.level >= LogLevelNormal {
		l.printf(l.out, "[SUCCESS] ", ColorGreen, format, args...)
	}
}

// Warning logs warning messages to the diagnostic stream
func (l *Logger) Warning(format string, args ...any) {
	if l.level >= LogLevelNormal {
		l.printf(l.errOut, "[WARNING] ", ColorYellow, format, args...)
	}
}

// Error logs error messages (always shown)
func (l *Logger) Error(format string, args ...any) {
	l.printf(l.errOut, "[ERROR] ", ColorRed, format, args...)
}

// Hint logs an indented follow-up line under a warning or error
func (l *Logger) Hint(format string, args ...any) {
	if l.level >= LogLevelNormal {
		l.printf(l.errOut, "  💡 ", ColorYellow, format, args...)
	}
}

// Verbose logs detailed information (only in verbose mode)
func (l *Logger) Verbose(format string, args ...any) {
	if l.level >= LogLevelVerbose {
		l.printf(l.out, "  [VERBOSE] ", ColorGray, format, args...)
	}
}

// Debug logs debug information with the caller (only in debug mode)
func (l *Logger) Debug(format string, args ...any) {
	l.debug(2, format, args...)
}

func (l *Logger) debug(skip int, format string, args ...any) {
	if l.level < LogLevelDebug {
		return
	}

	caller := ""
	if pc, file, line, ok := runtime.Caller(skip); ok {
		parts := strings.Split(runtime.FuncForPC(pc).Name(), ".")
		caller = fmt.Sprintf("(%s:%d %s) ", file, line, parts[len(parts)-1])
	}

	l.printf(l.out, "  [DEBUG] ", ColorMagenta, l.colorize(caller, ColorGray)+format, args...)
}

// Section prints a section header
func (l *Logger) Section(title string) {
	if l.level >= LogLevelNormal {
		line := l.colorize(strings.Repeat("━", len(title)+4), ColorBlue)
		fmt.Fprintf(l.out, "\n%s\n  %s  \n%s\n", line, l.colorize(title, ColorBlue), line)
	}
}

// Step logs a step in the process
func (l *Logger) Step(step, total int, description string) {
	if l.level >= LogLevelNormal {
		stepText := l.colorize(fmt.Sprintf("[%d/%d]", step, total), ColorCyan)
		fmt.Fprintf(l.out, "%s %s\n", stepText, description)
	}
}

// Progress logs progress information with timing
func (l *Logger) Progress(start time.Time, format string, args ...any) {
	if l.level >= LogLevelVerbose {
		timeText := l.colorize(fmt.Sprintf("[%v]", time.Since(start).Round(time.Millisecond)), ColorGray)
		fmt.Fprintf(l.out, "  %s "+format+"\n", append([]any{timeText}, args...)...)
	}
}

// Stats logs statistics in key order
func (l *Logger) Stats(title string, stats map[string]any) {
	if l.level < LogLevelVerbose {
		return
	}

	fmt.Fprintf(l.out, "\n%s\n", l.colorize(title+":", ColorCyan))

	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(l.out, l.colorize(fmt.Sprintf("  • %s: ", k), ColorWhite)+"%v\n", stats[k])
	}
}

// IsDebugEnabled returns true if debug logging is enabled
func (l *Logger) IsDebugEnabled() bool {
	return l.level >= LogLevelDebug
}

// IsVerboseEnabled returns true if verbose logging is enabled
func (l *Logger) IsVerboseEnabled() bool {
	return l.level >= LogLevelVerbose
}

// SetLevel sets the level of the default logger
func SetLevel(level LogLevel) {
	defaultLogger.SetLevel(level)
}

// SetColors enables or disables color output on the default logger
func SetColors(enabled bool) {
	defaultLogger.SetColors(enabled)
}

func Info(format string, args ...any)    { defaultLogger.Info(format, args...) }
func Success(format string, args ...any) { defaultLogger.Success(format, args...) }
func Warning(format string, args ...any) { defaultLogger.Warning(format, args...) }
func Error(format string, args ...any)   { defaultLogger.Error(format, args...) }
func Verbose(format string, args ...any) { defaultLogger.Verbose(format, args...) }
func Debug(format string, args ...any)   { defaultLogger.debug(2, format, args...) }

// IsDebugEnabled reports whether the default logger is at debug level
func IsDebugEnabled() bool {
	return defaultLogger.IsDebugEnabled()
}

// Fatal logs a fatal error and exits
func Fatal(format string, args ...any) {
	Error(format, args...)
	os.Exit(1)
}

// FatalErr logs a fatal error from an error object and exits
func FatalErr(err error) {
	Error("Fatal error: %v", err)
	os.Exit(1)
}

package report

import (
	"fmt"
	"io"
	"strings"
)

// Reporter is responsible for collecting and displaying the errors and
// warnings produced while compiling a single source file.  It keeps a sticky
// error count so later phases (writing bytecode, running the VM) can be
// skipped once anything has gone wrong.  A reporter belongs to one
// compilation and is not safe for concurrent use.
type Reporter struct {
	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// out is where messages are displayed.
	out io.Writer

	// displayName is the file name shown in message banners.
	displayName string

	// srcLines holds the source text used to display code excerpts.  It may
	// be empty in which case no excerpts are shown.
	srcLines []string

	messages   []*CompileMessage
	errorCount int
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages to the user (default).
)

// ParseLogLevel converts a log level name into its enumerated value.  Invalid
// names produce an error.
func ParseLogLevel(name string) (int, error) {
	switch name {
	case "silent":
		return LogLevelSilent, nil
	case "error":
		return LogLevelError, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "verbose", "":
		return LogLevelVerbose, nil
	default:
		return 0, fmt.Errorf("unknown log level: `%s`", name)
	}
}

// NewReporter creates a new reporter displaying to `out` at the given level.
func NewReporter(logLevel int, out io.Writer) *Reporter {
	return &Reporter{
		logLevel: logLevel,
		out:      out,
	}
}

// SetSource gives the reporter the name and text of the file being compiled so
// that displayed messages can include source excerpts.
func (r *Reporter) SetSource(displayName, src string) {
	r.displayName = displayName
	r.srcLines = strings.Split(src, "\n")
}

// -----------------------------------------------------------------------------

// ReportCompileError reports a compilation error: ie. erroneous input code.
// The position may be nil in which case no position information is printed.
func (r *Reporter) ReportCompileError(kind int, pos *TextPosition, message string, args ...interface{}) {
	r.errorCount++
	r.handleMsg(&CompileMessage{
		Kind:     kind,
		Message:  fmt.Sprintf(message, args...),
		Position: pos,
		IsError:  true,
	})
}

// ReportCompileWarning reports a compilation warning.  The arguments are of the
// same form as those to ReportCompileError.
func (r *Reporter) ReportCompileWarning(kind int, pos *TextPosition, message string, args ...interface{}) {
	r.handleMsg(&CompileMessage{
		Kind:     kind,
		Message:  fmt.Sprintf(message, args...),
		Position: pos,
		IsError:  false,
	})
}

// ReportLocalError reports a local compile error returned by a lower-level
// component (eg. the lexer) as an error of the given kind.
func (r *Reporter) ReportLocalError(kind int, lce *LocalCompileError) {
	r.ReportCompileError(kind, lce.Position, "%s", lce.Message)
}

// handleMsg records a message and displays it if the log level allows.
func (r *Reporter) handleMsg(cm *CompileMessage) {
	r.messages = append(r.messages, cm)

	if cm.IsError && r.logLevel > LogLevelSilent {
		r.displayCompileMessage(cm)
	} else if !cm.IsError && r.logLevel > LogLevelError {
		r.displayCompileMessage(cm)
	}
}

// -----------------------------------------------------------------------------

// AnyErrors returns whether or not any errors were reported.
func (r *Reporter) AnyErrors() bool {
	return r.errorCount > 0
}

// ErrorCount returns the number of errors reported so far.
func (r *Reporter) ErrorCount() int {
	return r.errorCount
}

// Messages returns every message reported so far in order.
func (r *Reporter) Messages() []*CompileMessage {
	return r.messages
}

// Errors returns the rendered error messages in the order they were reported.
func (r *Reporter) Errors() []string {
	var errs []string
	for _, cm := range r.messages {
		if cm.IsError {
			errs = append(errs, cm.String())
		}
	}

	return errs
}

// Warnings returns the rendered warning messages in the order they were
// reported.
func (r *Reporter) Warnings() []string {
	var warns []string
	for _, cm := range r.messages {
		if !cm.IsError {
			warns = append(warns, cm.String())
		}
	}

	return warns
}

// -----------------------------------------------------------------------------
// Below are the "aesthetic" reporting functions that only run at the verbose
// log level.

// ReportCompilationFinished displays the concluding message for compilation.
func (r *Reporter) ReportCompilationFinished(outputPath string) {
	if r.logLevel == LogLevelVerbose {
		r.displayCompilationFinished(outputPath)
	}
}

// ReportInfo displays an informational message at the verbose log level.
func (r *Reporter) ReportInfo(tag, msg string) {
	if r.logLevel == LogLevelVerbose {
		displayInfoMessage(r.out, tag, msg)
	}
}

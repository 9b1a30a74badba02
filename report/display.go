package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// DisplayErrorMessage prints a standard Go error with a tag.
func DisplayErrorMessage(w io.Writer, tag string, err error) {
	fmt.Fprint(w, ErrorStyleBG.Sprint(tag))
	fmt.Fprintln(w, ErrorColorFG.Sprint(" "+err.Error()))
}

// DisplayFatal prints a fatal error message.
func DisplayFatal(w io.Writer, msg string, args ...interface{}) {
	DisplayErrorMessage(w, "fatal error", errors.New(fmt.Sprintf(msg, args...)))
}

// displayInfoMessage prints an informational message with a tag.
func displayInfoMessage(w io.Writer, tag, msg string) {
	fmt.Fprint(w, InfoStyleBG.Sprint(tag))
	fmt.Fprintln(w, InfoColorFG.Sprint(" "+msg))
}

// DisplayInfoMessage prints an informational message regardless of log level.
func DisplayInfoMessage(w io.Writer, tag, msg string) {
	displayInfoMessage(w, tag, msg)
}

// -----------------------------------------------------------------------------

// displayCompileMessage displays a compilation error or warning: a banner,
// the message, and the source excerpt if one is available.
func (r *Reporter) displayCompileMessage(cm *CompileMessage) {
	r.displayBanner(cm)
	fmt.Fprintln(r.out, cm.String())

	if cm.Position != nil && len(r.srcLines) > 0 {
		r.displayCodeSelection(cm.Position)
	}

	fmt.Fprintln(r.out)
}

// displayBanner displays the banner on top of all compilation messages.
func (r *Reporter) displayBanner(cm *CompileMessage) {
	kindStr := kindNames[cm.Kind]
	kindStr = strings.ToUpper(kindStr[:1]) + kindStr[1:]

	var label string
	if cm.IsError {
		label = kindStr + " Error"
		fmt.Fprint(r.out, "-- ", ErrorStyleBG.Sprint(label))
	} else {
		label = kindStr + " Warning"
		fmt.Fprint(r.out, "-- ", WarnStyleBG.Sprint(label))
	}

	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}

	dashCount := bannerLen - len(r.displayName) - len(label) - 1
	if dashCount < 1 {
		dashCount = 1
	}

	fmt.Fprint(r.out, " ", strings.Repeat("-", dashCount), " ")
	fmt.Fprintln(r.out, InfoColorFG.Sprint(r.displayName))
}

// displayCodeSelection displays the lines covered by a position with their
// line numbers and underlines the erroneous columns with carets.
func (r *Reporter) displayCodeSelection(pos *TextPosition) {
	if pos.StartLn < 1 || pos.StartLn > len(r.srcLines) {
		return
	}

	endLn := pos.EndLn
	if endLn > len(r.srcLines) {
		endLn = len(r.srcLines)
	}

	lineNumLen := len(strconv.Itoa(endLn))
	lineNumFmtStr := "%-" + strconv.Itoa(lineNumLen) + "v | "

	for ln := pos.StartLn; ln <= endLn; ln++ {
		line := r.srcLines[ln-1]
		fmt.Fprintf(r.out, lineNumFmtStr, ln)
		fmt.Fprintln(r.out, line)

		// The first line is underlined from the start column and the last line
		// until the end column; lines in between are underlined fully.
		startCol := 1
		if ln == pos.StartLn {
			startCol = pos.StartCol
		}

		endCol := len(line) + 1
		if ln == pos.EndLn && pos.EndCol <= endCol {
			endCol = pos.EndCol
		}

		carretCount := endCol - startCol
		if carretCount < 1 {
			carretCount = 1
		}

		fmt.Fprint(r.out, strings.Repeat(" ", lineNumLen), " | ")
		fmt.Fprint(r.out, strings.Repeat(" ", startCol-1))
		fmt.Fprintln(r.out, ErrorColorFG.Sprint(strings.Repeat("^", carretCount)))
	}
}

// displayCompilationFinished displays the closing message of compilation.
func (r *Reporter) displayCompilationFinished(outputPath string) {
	if r.AnyErrors() {
		errorWord := "errors"
		if r.errorCount == 1 {
			errorWord = "error"
		}

		fmt.Fprint(r.out, ErrorStyleBG.Sprint("Failed"))
		fmt.Fprintln(r.out, ErrorColorFG.Sprintf(" compilation stopped with %d %s", r.errorCount, errorWord))
		return
	}

	fmt.Fprint(r.out, SuccessStyleBG.Sprint("Done"))
	if outputPath == "" {
		fmt.Fprintln(r.out, SuccessColorFG.Sprint(" compilation succeeded"))
	} else {
		fmt.Fprintln(r.out, SuccessColorFG.Sprintf(" compilation succeeded: %s", outputPath))
	}
}

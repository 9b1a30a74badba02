package report

import "fmt"

// TextPosition represents a positional range in the source text.  Lines and
// columns are 1-indexed; the end column is one past the last character.
type TextPosition struct {
	StartLn, StartCol int // starting line, starting column
	EndLn, EndCol     int // ending line, column trailing the text
}

// NewPosition returns a position spanning `length` columns on a single line.
func NewPosition(line, col, length int) *TextPosition {
	return &TextPosition{
		StartLn:  line,
		StartCol: col,
		EndLn:    line,
		EndCol:   col + length,
	}
}

// TextPositionFromRange takes two positions and computes the text position
// spanning them.
func TextPositionFromRange(start, end *TextPosition) *TextPosition {
	return &TextPosition{
		StartLn:  start.StartLn,
		StartCol: start.StartCol,
		EndLn:    end.EndLn,
		EndCol:   end.EndCol,
	}
}

// String returns the `line:column` form of the start of the position.
func (tp *TextPosition) String() string {
	return fmt.Sprintf("%d:%d", tp.StartLn, tp.StartCol)
}

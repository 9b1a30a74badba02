package bytecode

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"teslang/ir"
)

// DefaultIndent is the indentation of every instruction that is neither a
// `proc` nor a label.
const DefaultIndent = "    "

// Writer writes instruction lists in bytecode text form.
type Writer struct {
	Indent string
}

// NewWriter creates a writer using the default indentation.
func NewWriter() *Writer {
	return &Writer{Indent: DefaultIndent}
}

// Write writes `instrs` to `w`, one instruction per line.
func (bw *Writer) Write(w io.Writer, instrs []ir.Instruction) error {
	buff := bufio.NewWriter(w)

	for _, instr := range instrs {
		if instr.Op != ir.OpProc && !instr.IsLabel() {
			if _, err := buff.WriteString(bw.Indent); err != nil {
				return err
			}
		}

		if _, err := buff.WriteString(instr.String() + "\n"); err != nil {
			return err
		}
	}

	return buff.Flush()
}

// WriteFile writes `instrs` to the file at `path`, replacing it if it exists.
func (bw *Writer) WriteFile(path string, instrs []ir.Instruction) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := bw.Write(f, instrs); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Write writes `instrs` to `w` with the default indentation.
func Write(w io.Writer, instrs []ir.Instruction) error {
	return NewWriter().Write(w, instrs)
}

// WriteFile writes `instrs` to `path` with the default indentation.
func WriteFile(path string, instrs []ir.Instruction) error {
	return NewWriter().WriteFile(path, instrs)
}

// Format renders `instrs` as bytecode text.
func Format(instrs []ir.Instruction) string {
	sb := &strings.Builder{}
	Write(sb, instrs)
	return sb.String()
}

// OutputPath returns the path of the bytecode file produced for the source
// file at `srcPath`: the source's directory and stem followed by `suffix`.
func OutputPath(srcPath, suffix string) string {
	dir, file := filepath.Split(srcPath)
	stem := strings.TrimSuffix(file, filepath.Ext(file))
	return filepath.Join(dir, stem+suffix)
}

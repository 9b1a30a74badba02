package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"teslang/bytecode"
	"teslang/generate"
	"teslang/ir"
	"teslang/report"
	"teslang/sem"
	"teslang/syntax"
)

// Compiler compiles teslang source files according to a profile.  Each call
// to Compile uses its own lexer, symbol table, builder and reporter.
type Compiler struct {
	profile *Profile

	// out is where diagnostics are displayed.
	out io.Writer
}

// Result is the outcome of compiling a single source file.
type Result struct {
	Instructions []ir.Instruction

	// Signatures maps each function defined in the file to its parameter
	// count.
	Signatures map[string]int

	Reporter *report.Reporter
}

// OK returns whether the source compiled without any errors.
func (r *Result) OK() bool {
	return !r.Reporter.AnyErrors()
}

// Bytecode returns the bytecode text of the result.
func (r *Result) Bytecode() string {
	return bytecode.Format(r.Instructions)
}

// NewCompiler creates a new compiler displaying diagnostics to `out`.
func NewCompiler(profile *Profile, out io.Writer) *Compiler {
	return &Compiler{profile: profile, out: out}
}

// Compile compiles the source read from `r`.  `name` is the name used for the
// source in diagnostics.  Compile only returns an error if the source cannot
// be read: problems in the source itself are recorded by the result's
// reporter.
func (c *Compiler) Compile(name string, r io.Reader) (*Result, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading `%s`: %w", name, err)
	}

	logLevel, err := report.ParseLogLevel(c.profile.LogLevel)
	if err != nil {
		return nil, err
	}

	rep := report.NewReporter(logLevel, c.out)
	rep.SetSource(name, string(src))

	table := sem.NewSymbolTable(rep)
	table.RegisterNatives()

	builder := ir.NewBuilder()

	p := syntax.NewParser(syntax.NewLexer(strings.NewReader(string(src))), table, builder, rep)
	p.SetWarnUnused(c.profile.WarnUnused)
	p.Parse()

	sigs := make(map[string]int)
	for _, fn := range table.Functions() {
		sigs[fn.Name] = len(fn.Params)
	}

	return &Result{
		Instructions: builder.Instructions(),
		Signatures:   sigs,
		Reporter:     rep,
	}, nil
}

// CompileFile compiles the source file at `path`.
func (c *Compiler) CompileFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open source file: %w", err)
	}
	defer f.Close()

	return c.Compile(filepath.Base(path), f)
}

// -----------------------------------------------------------------------------

// ErrCompileFailed is returned when a build stops because the source contains
// errors.
var ErrCompileFailed = errors.New("compilation failed")

// OutputPath returns the path of the file a build of `srcPath` writes.
func (c *Compiler) OutputPath(srcPath string) string {
	if c.profile.Emit == EmitLLVM {
		return bytecode.OutputPath(srcPath, ".ll")
	}

	return bytecode.OutputPath(srcPath, c.profile.OutputSuffix)
}

// Build compiles the source file at `srcPath` and writes its output next to
// it.  Nothing is written if the source contains any errors.  If `outPath` is
// empty, the default output path is used.
func (c *Compiler) Build(srcPath, outPath string) (*Result, string, error) {
	res, err := c.CompileFile(srcPath)
	if err != nil {
		return nil, "", err
	}

	if !res.OK() {
		res.Reporter.ReportCompilationFinished("")
		return res, "", ErrCompileFailed
	}

	if outPath == "" {
		outPath = c.OutputPath(srcPath)
	}

	if c.profile.Emit == EmitLLVM {
		mod, err := generate.Generate(res.Instructions, res.Signatures)
		if err != nil {
			return res, "", err
		}

		if err := os.WriteFile(outPath, []byte(mod.String()), 0o644); err != nil {
			return res, "", fmt.Errorf("error writing output file: %w", err)
		}
	} else {
		bw := &bytecode.Writer{Indent: strings.Repeat(" ", c.profile.Indent)}
		if err := bw.WriteFile(outPath, res.Instructions); err != nil {
			return res, "", fmt.Errorf("error writing output file: %w", err)
		}
	}

	res.Reporter.ReportCompilationFinished(outPath)
	return res, outPath, nil
}

// Run builds the source file at `srcPath` and runs the resulting bytecode in
// the VM.  The VM is never run if the source contains any errors.
func (c *Compiler) Run(ctx context.Context, srcPath string) (*Result, *bytecode.RunResult, error) {
	if c.profile.Emit != EmitBytecode {
		return nil, nil, fmt.Errorf("cannot run output format `%s`", c.profile.Emit)
	}

	res, outPath, err := c.Build(srcPath, "")
	if err != nil {
		return res, nil, err
	}

	res.Reporter.ReportInfo("Running", outPath)

	runRes, err := bytecode.Run(ctx, c.profile.VMPath, outPath)
	if err != nil {
		return res, nil, err
	}

	return res, runRes, nil
}

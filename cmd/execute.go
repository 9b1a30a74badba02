package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/ComedicChimera/olive"

	"teslang/build"
	"teslang/common"
	"teslang/report"
	"teslang/syntax"
)

// Execute is the main entry point for the `teslang` CLI utility.  It returns
// the exit code of the process.
func Execute() int {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("teslang", "teslang compiles teslang source files to VM bytecode", true)
	cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	cli.AddStringArg("config", "c", "the path to the compiler profile", false)
	cli.AddFlag("warn-unused", "wu", "warn about variables that are never used")

	buildCmd := cli.AddSubcommand("build", "compile a source file", true)
	buildCmd.AddPrimaryArg("source-path", "the path to the source file to compile", true)
	buildCmd.AddStringArg("output", "o", "the path to write the output to", false)
	buildCmd.AddSelectorArg("emit", "e", "the output format", false, []string{build.EmitBytecode, build.EmitLLVM})

	runCmd := cli.AddSubcommand("run", "compile a source file and run it in the VM", true)
	runCmd.AddPrimaryArg("source-path", "the path to the source file to run", true)
	runCmd.AddStringArg("vm", "vm", "the path to the VM executable", false)

	checkCmd := cli.AddSubcommand("check", "check a source file for errors without compiling it", true)
	checkCmd.AddPrimaryArg("source-path", "the path to the source file to check", true)

	tokensCmd := cli.AddSubcommand("tokens", "print the tokens of a source file", true)
	tokensCmd.AddPrimaryArg("source-path", "the path to the source file to tokenize", true)

	cli.AddSubcommand("repl", "compile definitions interactively", false)
	cli.AddSubcommand("version", "print the teslang version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.DisplayErrorMessage(os.Stderr, "CLI Usage Error", err)
		return 2
	}

	subcmdName, subResult, _ := result.Subcommand()

	if subcmdName == "version" {
		report.DisplayInfoMessage(os.Stdout, "teslang Version", common.TeslangVersion)
		return 0
	}

	var srcPath string
	if subResult != nil {
		srcPath, _ = subResult.PrimaryArg()
	}

	prof, err := loadProfile(result, srcPath)
	if err != nil {
		report.DisplayErrorMessage(os.Stderr, "Profile Error", err)
		return 1
	}

	switch subcmdName {
	case "build":
		return execBuildCommand(subResult, prof, srcPath)
	case "run":
		return execRunCommand(subResult, prof, srcPath)
	case "check":
		return execCheckCommand(prof, srcPath)
	case "tokens":
		return execTokensCommand(os.Stdout, srcPath)
	case "repl":
		return runREPL(prof)
	}

	return 0
}

// loadProfile loads the profile selected on the command line and applies the
// global overrides to it.  Without an explicit `config` argument, the profile
// is looked for next to the source file.
func loadProfile(result *olive.ArgParseResult, srcPath string) (*build.Profile, error) {
	var (
		prof *build.Profile
		err  error
	)

	if configPath, ok := result.Arguments["config"]; ok {
		if _, err := os.Stat(configPath.(string)); err != nil {
			return nil, fmt.Errorf("unable to load profile: %w", err)
		}

		prof, err = build.LoadProfile(configPath.(string))
	} else {
		prof, err = build.LoadProfile(filepath.Join(filepath.Dir(srcPath), common.ProfileFileName))
	}

	if err != nil {
		return nil, err
	}

	if logLevel, ok := result.Arguments["loglevel"]; ok {
		prof.LogLevel = logLevel.(string)
	}

	if result.HasFlag("warn-unused") {
		prof.WarnUnused = true
	}

	return prof, nil
}

// -----------------------------------------------------------------------------

// execBuildCommand executes the build subcommand and handles all errors.
func execBuildCommand(result *olive.ArgParseResult, prof *build.Profile, srcPath string) int {
	if emit, ok := result.Arguments["emit"]; ok {
		prof.Emit = emit.(string)
	}

	outPath := ""
	if output, ok := result.Arguments["output"]; ok {
		outPath = output.(string)
	}

	c := build.NewCompiler(prof, os.Stdout)
	if _, _, err := c.Build(srcPath, outPath); err != nil {
		return reportBuildError(err)
	}

	return 0
}

// execRunCommand executes the run subcommand.  The exit code of the VM becomes
// the exit code of the process.
func execRunCommand(result *olive.ArgParseResult, prof *build.Profile, srcPath string) int {
	if vmPath, ok := result.Arguments["vm"]; ok {
		prof.VMPath = vmPath.(string)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	c := build.NewCompiler(prof, os.Stdout)
	_, runRes, err := c.Run(ctx, srcPath)
	if err != nil {
		return reportBuildError(err)
	}

	fmt.Fprint(os.Stdout, runRes.Stdout)
	fmt.Fprint(os.Stderr, runRes.Stderr)
	return runRes.ExitCode
}

// execCheckCommand executes the check subcommand: the source is compiled but
// no output is written.
func execCheckCommand(prof *build.Profile, srcPath string) int {
	c := build.NewCompiler(prof, os.Stdout)

	res, err := c.CompileFile(srcPath)
	if err != nil {
		return reportBuildError(err)
	}

	res.Reporter.ReportCompilationFinished("")
	if !res.OK() {
		return 1
	}

	return 0
}

// execTokensCommand prints every token of a source file, one per line.
func execTokensCommand(w io.Writer, srcPath string) int {
	f, err := os.Open(srcPath)
	if err != nil {
		report.DisplayErrorMessage(os.Stderr, "Path Error", err)
		return 1
	}
	defer f.Close()

	toks, err := syntax.Tokenize(f)
	for _, tok := range toks {
		fmt.Fprintf(w, "%-8s %-10s %s\n", tok.Position, syntax.KindName(tok.Kind), tok.Value)
	}

	if err != nil {
		report.DisplayErrorMessage(os.Stderr, "lexical error", err)
		return 1
	}

	return 0
}

// reportBuildError displays an error returned by the compiler.  Compilation
// failures have already been reported so they are not displayed again.
func reportBuildError(err error) int {
	if !errors.Is(err, build.ErrCompileFailed) {
		report.DisplayFatal(os.Stderr, "%s", err)
	}

	return 1
}

// Command scriptrun is the CLI entry point for the script interpreter
// (spec.md §6): a single `Run` subcommand plus global flags, fluently
// wired onto the Evaluator builder exposed by internal/eval.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hassan/script/internal/config"
	"github.com/hassan/script/internal/diag"
	"github.com/hassan/script/internal/eval"
)

var (
	flagDoc          bool
	flagASTFile      bool
	flagErrorLogFile bool
	flagDecodeTime   bool
	flagDefaultDir   string
	flagInteractive  bool
)

func main() {
	root := &cobra.Command{
		Use:   "scriptrun",
		Short: "Run scripts written in the host scripting language",
	}
	root.PersistentFlags().BoolVar(&flagDoc, "doc", false, "emit HTML doc to ./script-doc/doc.html")
	root.PersistentFlags().BoolVar(&flagASTFile, "ast-file", false, "emit the --ast-file diagnostic artifact")
	root.PersistentFlags().BoolVar(&flagErrorLogFile, "error-log-file", false, "redirect diagnostics to ./error.log")
	root.PersistentFlags().BoolVar(&flagDecodeTime, "decode-time", false, "measure and log elapsed decode time")
	root.PersistentFlags().StringVarP(&flagDefaultDir, "default-dir", "d", "./script", "working directory to chdir into before evaluation")
	root.PersistentFlags().BoolVarP(&flagInteractive, "interactive-mode", "i", false, "start an interactive REPL")

	runCmd := &cobra.Command{
		Use:   "Run [file]",
		Short: "Evaluate a script file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRun,
	}
	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		cmd.Help()
		return errors.New("file argument required")
	}
	file := args[0]

	cfg, err := config.Load(".scriptrun.yaml")
	if err != nil {
		diag.Log.WithError(err).Warn("failed to read .scriptrun.yaml")
		cfg = &config.File{}
	}
	dir := flagDefaultDir
	if !cmd.Flags().Changed("default-dir") {
		dir = config.StringOr(cfg.DefaultDir, dir)
	}

	absFile, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("chdir %q: %w", dir, err)
	}

	source, err := os.ReadFile(absFile)
	if err != nil {
		return fmt.Errorf("reading %q: %w", absFile, err)
	}

	doc := flagDoc || (!cmd.Flags().Changed("doc") && config.BoolOr(cfg.Doc, false))
	astFile := flagASTFile || (!cmd.Flags().Changed("ast-file") && config.BoolOr(cfg.ASTFile, false))
	errorLog := flagErrorLogFile || (!cmd.Flags().Changed("error-log-file") && config.BoolOr(cfg.ErrorLogFile, false))
	decodeTime := flagDecodeTime || (!cmd.Flags().Changed("decode-time") && config.BoolOr(cfg.DecodeTime, false))

	ev := eval.New(string(source), filepath.Base(absFile)).
		WithDoc(doc).
		WithASTFile(astFile).
		WithErrorLogFile(errorLog).
		WithDecodeTime(decodeTime)

	if flagInteractive || config.BoolOr(cfg.Interactive, false) {
		return runInteractive(ev)
	}

	result, err := ev.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if decodeTime {
		fmt.Fprintf(os.Stderr, "decode took %s\n", ev.DecodeTime())
	}
	fmt.Println(result.String())
	return nil
}

// runInteractive implements `-i/--interactive-mode`: a line-editing
// REPL that re-uses the same Evaluator (and therefore Context/Memory)
// across inputs, so declarations persist between lines.
func runInteractive(ev *eval.Evaluator) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		diag.Log.Warn("interactive mode requested on a non-terminal stdin")
	}

	rl, err := readline.New("script> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}
		if line == "" {
			continue
		}
		v, err := ev.EvalSource(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Println(v.String())
	}
}

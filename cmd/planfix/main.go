// Copyright 2025 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dolthub/planfix"
	"github.com/dolthub/planfix/fix"
	"github.com/dolthub/planfix/journal"
)

var (
	configPath string
	verbose    bool

	fixture       string
	dir           string
	pkg           string
	runFilter     string
	count         int
	command       string
	maxIterations int
	dryRun        bool
	journalPath   string
	logDir        string
	timeout       time.Duration

	historyN int

	// exitCode distinguishes a run that finished without converging (1)
	// from a clean convergence (0); operational errors exit 2 from main.
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "planfix",
	Short: "Reconcile expected plan literals in test fixtures with reality",
	Long: `planfix runs a test suite whose failures report expected and actual
values, rewrites the stale expected literals in the fixture source file, and
repeats until the suite passes or no further progress can be made.

Run without a subcommand it behaves as "planfix run".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logrus.SetFormatter(&logrus.TextFormatter{})
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
	RunE: runReconcile,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reconciliation loop against the configured fixture",
	RunE:  runReconcile,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent reconciliation runs from the journal",
	RunE:  runHistory,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", planfix.DefaultConfigPath, "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	for _, cmd := range []*cobra.Command{rootCmd, runCmd} {
		flags := cmd.Flags()
		flags.StringVar(&fixture, "fixture", "", "fixture source file to reconcile")
		flags.StringVar(&dir, "dir", "", "working directory for the test suite")
		flags.StringVar(&pkg, "package", planfix.DefaultPackage, "go test package pattern")
		flags.StringVar(&runFilter, "run", planfix.DefaultRun, "go test -run filter")
		flags.IntVar(&count, "count", planfix.DefaultCount, "go test -count argument")
		flags.StringVar(&command, "command", "", "shell command to run instead of go test")
		flags.IntVar(&maxIterations, "max-iterations", planfix.DefaultMaxIterations, "iteration cap")
		flags.BoolVar(&dryRun, "dry-run", false, "plan and count edits without writing the fixture")
		flags.StringVar(&journalPath, "journal", planfix.DefaultJournalPath, "run journal database; empty disables journaling")
		flags.StringVar(&logDir, "log-dir", "", "directory for raw per-iteration suite output")
		flags.DurationVar(&timeout, "timeout", 0, "overall deadline for the run, 0 for none")
	}

	historyCmd.Flags().IntVarP(&historyN, "count", "n", 10, "number of runs to show")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("planfix failed")
		os.Exit(2)
	}
	os.Exit(exitCode)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := planfix.LoadConfig(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	engine := planfix.New(cfg)
	if cfg.JournalPath != "" && !cfg.DryRun {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := j.Close(); cerr != nil {
				logrus.WithError(cerr).Warn("couldn't close journal")
			}
		}()
		engine.Journal = j
	}

	base := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		base, cancel = context.WithTimeout(base, timeout)
		defer cancel()
	}
	ctx := fix.NewContext(base, fix.WithLogger(logrus.NewEntry(logrus.StandardLogger())))

	result, err := engine.Reconcile(ctx)
	if err != nil {
		return err
	}

	var applied int
	for _, n := range result.AppliedHistory {
		applied += n
	}
	fmt.Printf("%s: %s after %d iteration(s): %d edit(s) applied, %d failure(s) remaining\n",
		cfg.Fixture, result.Status, result.Iterations, applied, result.RemainingFailures)

	if result.Status != fix.Converged {
		exitCode = 1
	}
	return nil
}

// applyFlags layers explicitly set flags over the file and environment
// values, so an untouched flag never clobbers a configured one. The journal
// flag's default also fills in when nothing else configured a journal.
func applyFlags(cmd *cobra.Command, cfg *planfix.Config) {
	flags := cmd.Flags()
	if flags.Changed("fixture") {
		cfg.Fixture = fixture
	}
	if flags.Changed("dir") {
		cfg.Harness.Dir = dir
	}
	if flags.Changed("package") {
		cfg.Harness.Package = pkg
	}
	if flags.Changed("run") {
		cfg.Harness.Run = runFilter
	}
	if flags.Changed("count") {
		cfg.Harness.Count = count
	}
	if flags.Changed("command") {
		cfg.Harness.Command = command
	}
	if flags.Changed("max-iterations") {
		cfg.MaxIterations = maxIterations
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = dryRun
	}
	if flags.Changed("journal") || cfg.JournalPath == "" {
		cfg.JournalPath = journalPath
	}
	if flags.Changed("log-dir") {
		cfg.LogDir = logDir
	}
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := planfix.LoadConfig(configPath)
	if err != nil {
		return err
	}
	path := cfg.JournalPath
	if path == "" {
		path = planfix.DefaultJournalPath
	}

	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer j.Close()

	records, err := j.Last(historyN)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSTATUS\tITERATIONS\tAPPLIED\tREMAINING\tFIXTURE")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			rec.Started.Local().Format("2006-01-02 15:04:05"),
			rec.Status, rec.Iterations, rec.TotalApplied, rec.RemainingFailures, rec.Fixture)
	}
	return w.Flush()
}

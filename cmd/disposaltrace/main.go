package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/disposable/disposal"
	"github.com/wippyai/disposable/internal/scenario"
	"github.com/wippyai/disposable/metrics"
)

type options struct {
	script      string
	verbose     bool
	styled      bool
	showMetrics bool
}

func main() {
	var (
		script      = flag.String("script", "", "Path to scenario script (default: stdin)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Also log diagnostics through zap")
		plain       = flag.Bool("plain", false, "Disable styled output")
		showMetrics = flag.Bool("metrics", false, "Print Prometheus metrics after the run")
	)
	flag.Parse()

	opts := options{
		script:      *script,
		verbose:     *verbose,
		styled:      !*plain && term.IsTerminal(int(os.Stdout.Fd())),
		showMetrics: *showMetrics,
	}

	if *interactive {
		if err := runInteractive(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(opts, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRunner(opts options) (*scenario.Runner, *prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	runnerOpts := []scenario.Option{
		scenario.WithObserver(metrics.NewCollector(reg)),
	}

	if opts.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, nil, fmt.Errorf("create logger: %w", err)
		}
		disposal.SetLogger(logger)
		runnerOpts = append(runnerOpts, scenario.WithSink(disposal.LoggerSink{}))
	}

	return scenario.NewRunner(runnerOpts...), reg, nil
}

func run(opts options, stdin io.Reader, out io.Writer) error {
	in := stdin
	if opts.script != "" {
		f, err := os.Open(opts.script)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	runner, reg, err := newRunner(opts)
	if err != nil {
		return err
	}

	p := printer{styled: opts.styled}
	results, runErr := runner.Run(in)
	for _, res := range results {
		p.result(out, res)
	}
	fmt.Fprintln(out)
	p.table(out, runner.Snapshot())

	if opts.showMetrics {
		if err := writeMetrics(out, reg); err != nil {
			return err
		}
	}

	if runErr != nil {
		return fmt.Errorf("run script: %w", runErr)
	}
	return nil
}

func writeMetrics(out io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	fmt.Fprintln(out)
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

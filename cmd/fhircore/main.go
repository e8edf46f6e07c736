// Package main implements the fhircore CLI tool: parse, audit and
// re-render clinical resource documents.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	fc "github.com/gofhir/fhircore"
	"github.com/gofhir/fhircore/cache"
	"github.com/gofhir/fhircore/pkg/logger"
	"github.com/gofhir/fhircore/pkg/resource"
	"github.com/gofhir/fhircore/worker"
)

const usage = `fhircore - clinical resource inspector

Usage:
  fhircore [options] <file>...
  fhircore [options] -          (read from stdin)
  cat patient.json | fhircore -

Examples:
  fhircore patient.json
  fhircore -output json careplan.json
  fhircore -render patient.json
  fhircore -workers 8 *.json

Options:
`

// OutputFormat specifies the output format.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// Config holds CLI configuration.
type Config struct {
	Output      OutputFormat
	Render      bool
	Workers     int
	CacheSize   int
	Quiet       bool
	Verbose     bool
	ShowVersion bool
	Help        bool
	Files       []string
}

// AuditOutput is the JSON output for one document.
type AuditOutput struct {
	Source   string        `json:"source"`
	Kind     string        `json:"kind,omitempty"`
	ID       string        `json:"id,omitempty"`
	Label    string        `json:"label,omitempty"`
	Active   bool          `json:"active"`
	Valid    bool          `json:"valid"`
	Errors   int           `json:"errors"`
	Warnings int           `json:"warnings"`
	Issues   []IssueOutput `json:"issues,omitempty"`
	Duration string        `json:"duration"`
}

// IssueOutput is a single finding in JSON output.
type IssueOutput struct {
	Severity    string   `json:"severity"`
	Code        string   `json:"code"`
	Diagnostics string   `json:"diagnostics"`
	Expression  []string `json:"expression,omitempty"`
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("fhircore v%s\n", fc.Version)
		os.Exit(0)
	}

	if config.Help || len(config.Files) == 0 {
		flag.Usage()
		os.Exit(0)
	}

	os.Exit(run(config))
}

func parseFlags() *Config {
	config := &Config{Output: OutputText}

	var output string
	flag.StringVar(&output, "output", "text", "Output format: text, json")
	flag.BoolVar(&config.Render, "render", false, "Re-render each parsed resource to stdout")
	flag.IntVar(&config.Workers, "workers", 0, "Decode workers for multi-file runs (0 = NumCPU)")
	flag.IntVar(&config.CacheSize, "cache", 128, "Decode cache size")
	flag.BoolVar(&config.Quiet, "quiet", false, "Only show errors and warnings")
	flag.BoolVar(&config.Verbose, "verbose", false, "Show debug logging")
	flag.BoolVar(&config.ShowVersion, "v", false, "Show version")
	flag.BoolVar(&config.Help, "help", false, "Show help")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if strings.EqualFold(output, "json") {
		config.Output = OutputJSON
	}
	config.Files = flag.Args()

	return config
}

func run(config *Config) int {
	if config.Verbose {
		logger.SetLevel(logger.LevelDebug)
	} else if config.Quiet {
		logger.SetLevel(logger.LevelError)
	}

	sources, payloads, ok := collectPayloads(config)
	hasErrors := !ok

	outputs, failed := auditAll(sources, payloads, config)
	if failed {
		hasErrors = true
	}

	if config.Output == OutputJSON {
		jsonOutput, _ := json.MarshalIndent(outputs, "", "  ")
		fmt.Println(string(jsonOutput))
	}

	if hasErrors {
		return 1
	}
	return 0
}

// auditAll decodes every payload through a worker pool and reports one
// output per source, in input order.
func auditAll(sources []string, payloads [][]byte, config *Config) ([]AuditOutput, bool) {
	decodeCache := cache.New[string, resource.Resource](config.CacheSize)
	pool := worker.NewPool(decoder(), config.Workers, worker.WithDecodeCache(decodeCache))

	for i, payload := range payloads {
		pool.Submit(worker.Job{
			// Job IDs are input indexes so the same source listed
			// twice keeps two distinct results.
			ID:       strconv.Itoa(i),
			Payload:  payload,
			CacheKey: sources[i],
		})
	}
	batch := pool.CloseAndWait()

	byID := make(map[string]*worker.JobResult, len(batch.Results))
	for _, r := range batch.Results {
		byID[r.ID] = r
	}

	hasErrors := false
	outputs := make([]AuditOutput, 0, len(sources))
	for i, src := range sources {
		r := byID[strconv.Itoa(i)]
		if r == nil {
			continue
		}
		out, failed := report(src, r, config)
		outputs = append(outputs, out)
		if failed {
			hasErrors = true
		}
		if r.Handle != nil {
			r.Handle.Release()
		}
	}
	return outputs, hasErrors
}

func decoder() worker.Decoder {
	return worker.DecoderFunc(func(_ context.Context, payload []byte) (*resource.Handle, error) {
		return fc.Parse(payload)
	})
}

// collectPayloads reads stdin and expands glob patterns. Returns false
// when any source failed to read.
func collectPayloads(config *Config) (sources []string, payloads [][]byte, ok bool) {
	ok = true
	for _, file := range config.Files {
		if file == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
				ok = false
				continue
			}
			sources = append(sources, "stdin")
			payloads = append(payloads, data)
			continue
		}

		matches, err := filepath.Glob(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error with pattern '%s': %v\n", file, err)
			ok = false
			continue
		}
		if len(matches) == 0 {
			fmt.Fprintf(os.Stderr, "No files match pattern: %s\n", file)
			ok = false
			continue
		}

		for _, match := range matches {
			data, err := os.ReadFile(match)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", match, err)
				ok = false
				continue
			}
			sources = append(sources, match)
			payloads = append(payloads, data)
		}
	}
	return sources, payloads, ok
}

func report(src string, r *worker.JobResult, config *Config) (AuditOutput, bool) {
	out := AuditOutput{
		Source:   src,
		Duration: r.Duration.Round(time.Microsecond).String(),
	}

	if r.Err != nil {
		out.Valid = false
		out.Errors = 1
		out.Issues = []IssueOutput{{
			Severity:    "fatal",
			Code:        "processing",
			Diagnostics: r.Err.Error(),
		}}
		if config.Output == OutputText {
			fmt.Printf("== %s ==\nStatus: UNPARSEABLE\n  %v\n\n", src, r.Err)
		}
		return out, true
	}

	res := r.Handle.Resource()
	result := fc.Audit(res)
	defer result.Release()

	out.Kind = res.Kind().String()
	out.ID = res.ID()
	out.Label = res.Label()
	out.Active = res.IsActive()
	out.Valid = result.Valid
	out.Errors = result.ErrorCount()
	out.Warnings = result.WarningCount()
	for _, iss := range result.Issues {
		out.Issues = append(out.Issues, IssueOutput{
			Severity:    string(iss.Severity),
			Code:        string(iss.Code),
			Diagnostics: iss.Diagnostics,
			Expression:  iss.Expression,
		})
	}

	if config.Output == OutputText {
		printTextResult(src, res, result, config)
	}

	if config.Render {
		rendered, err := fc.Render(res)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering %s: %v\n", src, err)
			return out, true
		}
		fmt.Println(string(rendered))
	}

	return out, !result.Valid
}

func printTextResult(src string, res resource.Resource, result *fc.Result, config *Config) {
	status := "VALID"
	if result.HasErrors() {
		status = "INVALID"
	}

	fmt.Printf("== %s ==\n", src)
	fmt.Printf("%s/%s (%s)\n", res.Kind(), res.ID(), res.Label())
	fmt.Printf("Status: %s, Active: %v\n", status, res.IsActive())
	fmt.Printf("Errors: %d, Warnings: %d\n", result.ErrorCount(), result.WarningCount())

	if len(result.Issues) > 0 {
		fmt.Println("\nIssues:")
		for _, iss := range result.Issues {
			if config.Quiet && iss.Severity == fc.SeverityInformation {
				continue
			}
			location := ""
			if len(iss.Expression) > 0 {
				location = fmt.Sprintf(" @ %s", strings.Join(iss.Expression, ", "))
			}
			fmt.Printf("  %s [%s] %s%s\n", severityIcon(iss.Severity), iss.Code, iss.Diagnostics, location)
		}
	}

	fmt.Println()
}

func severityIcon(severity fc.IssueSeverity) string {
	switch severity {
	case fc.SeverityFatal, fc.SeverityError:
		return "ERROR"
	case fc.SeverityWarning:
		return "WARN "
	case fc.SeverityInformation:
		return "INFO "
	default:
		return "     "
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentx-labs/frictionless/internal/friction"
	"github.com/fatih/color"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

var printer = message.NewPrinter(language.English)

var (
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func severityLabel(s float64) string {
	label := fmt.Sprintf("%.2f", s)
	switch {
	case s >= friction.SeverityCore:
		return red(label)
	case s >= friction.SeverityDefault:
		return yellow(label)
	default:
		return cyan(label)
	}
}

func formatLocation(root string, loc friction.Location) string {
	file := loc.File
	if rel, err := filepath.Rel(root, file); err == nil && filepath.IsAbs(file) && !strings.HasPrefix(rel, "..") {
		file = rel
	}
	if loc.Line > 0 {
		return fmt.Sprintf("%s:%d:%d", file, loc.Line, loc.Column)
	}
	return file
}

// renderPoints prints detected friction points.
func renderPoints(w io.Writer, format, root string, points []*friction.Point) error {
	if format != outputText {
		if points == nil {
			points = []*friction.Point{}
		}
		return writeStructured(w, format, points)
	}

	if len(points) == 0 {
		fmt.Fprintln(w, green("✓ No dependency friction found."))
		return nil
	}

	for _, p := range points {
		fmt.Fprintf(w, "%s %s  %s  severity %s  %s\n",
			red("✗"), p.DependencyName, p.DependencyType, severityLabel(p.Severity), gray(formatLocation(root, p.Location)))
		fmt.Fprintf(w, "    %s\n", p.Description)
		if p.InstallCommand != "" {
			mode := "manual"
			if p.AutoInstallable {
				mode = "auto"
			}
			fmt.Fprintf(w, "    fix: %s (%s)\n", p.InstallCommand, mode)
		}
		if len(p.Suggestions) > 0 {
			fmt.Fprintf(w, "    suggestions: %s\n", strings.Join(p.Suggestions, "; "))
		}
	}
	fmt.Fprintln(w)
	printer.Fprintf(w, "%d friction point(s) found.\n", len(points))
	return nil
}

// outcome is the structured form of one elimination.
type outcome struct {
	Dependency string `json:"dependency" yaml:"dependency"`
	Eliminated bool   `json:"eliminated" yaml:"eliminated"`
	Command    string `json:"command,omitempty" yaml:"command,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`
}

func outcomeOf(p *friction.Point) outcome {
	o := outcome{Dependency: p.DependencyName, Eliminated: p.Eliminated}
	if r := p.LastInstall; r != nil {
		o.Command = r.Command
		o.Error = r.Error
		o.DurationMS = r.Duration.Milliseconds()
	}
	return o
}

// renderOutcome prints one elimination result as it happens.
func renderOutcome(w io.Writer, p *friction.Point) {
	o := outcomeOf(p)
	switch {
	case o.Eliminated:
		fmt.Fprintf(w, "  %s %s\n", green("✓"), o.Dependency)
	case !p.AutoInstallable:
		fmt.Fprintf(w, "  %s %s: manual fix required (%s)\n", yellow("!"), o.Dependency, p.InstallCommand)
	case o.Error != "":
		fmt.Fprintf(w, "  %s %s: %s\n", red("✗"), o.Dependency, o.Error)
	default:
		fmt.Fprintf(w, "  %s %s\n", red("✗"), o.Dependency)
	}
}

// renderStats prints aggregate statistics.
func renderStats(w io.Writer, format string, s friction.Stats) error {
	if format != outputText {
		return writeStructured(w, format, s)
	}

	active := s.ActivePackageManager
	if active == "" {
		active = "none"
	}
	fmt.Fprintf(w, "Friction statistics (package manager: %s)\n", active)
	printer.Fprintf(w, "  Total:            %d\n", s.Total)
	printer.Fprintf(w, "  Eliminated:       %d\n", s.Eliminated)
	printer.Fprintf(w, "  Failed:           %d\n", s.Failed)
	printer.Fprintf(w, "  Auto-installable: %d\n", s.AutoInstallable)

	if len(s.ByType) > 0 {
		fmt.Fprintln(w, "  By type:")
		types := make([]string, 0, len(s.ByType))
		for t := range s.ByType {
			types = append(types, string(t))
		}
		sort.Strings(types)
		for _, t := range types {
			printer.Fprintf(w, "    %-18s %d\n", t, s.ByType[friction.DependencyType(t)])
		}
	}
	if len(s.ByPackageManager) > 0 {
		fmt.Fprintln(w, "  By package manager:")
		names := make([]string, 0, len(s.ByPackageManager))
		for n := range s.ByPackageManager {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			printer.Fprintf(w, "    %-18s %d\n", n, s.ByPackageManager[n])
		}
	}
	return nil
}

package cli

import (
	"bytes"
	"testing"

	"github.com/agentx-labs/frictionless/internal/friction"
	"github.com/agentx-labs/frictionless/internal/pkgmgr"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterPoints(t *testing.T) {
	points := []*friction.Point{
		{DependencyName: "lodash"},
		{DependencyName: "axios"},
		{DependencyName: "lodash"},
	}

	tests := []struct {
		name  string
		names []string
		want  int
	}{
		{"no names keeps all", nil, 3},
		{"single name", []string{"lodash"}, 2},
		{"several names", []string{"lodash", "axios"}, 3},
		{"unknown name", []string{"react"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterPoints(points, tt.names)
			if len(got) != tt.want {
				t.Errorf("filterPoints(%v) kept %d, want %d", tt.names, len(got), tt.want)
			}
		})
	}
}

func TestPointKey(t *testing.T) {
	a := &friction.Point{DependencyName: "x", DependencyType: friction.Missing, Location: friction.Location{File: "a.js", Line: 1}}
	b := &friction.Point{DependencyName: "x", DependencyType: friction.Missing, Location: friction.Location{File: "a.js", Line: 9}}
	c := &friction.Point{DependencyName: "x", DependencyType: friction.Missing, Location: friction.Location{File: "b.js"}}

	assert.Equal(t, pointKey(a), pointKey(b))
	assert.NotEqual(t, pointKey(a), pointKey(c))
}

func TestFormatLocation(t *testing.T) {
	tests := []struct {
		name string
		loc  friction.Location
		want string
	}{
		{"relative to root", friction.Location{File: "/proj/src/a.js", Line: 3, Column: 8}, "src/a.js:3:8"},
		{"no line", friction.Location{File: "/proj/package.json"}, "package.json"},
		{"outside root", friction.Location{File: "/other/a.js", Line: 1, Column: 1}, "/other/a.js:1:1"},
		{"already relative", friction.Location{File: "a.js"}, "a.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatLocation("/proj", tt.loc); got != tt.want {
				t.Errorf("formatLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderStats(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	err := renderStats(&buf, outputText, friction.Stats{
		Total:                1500,
		Eliminated:           1200,
		Failed:               300,
		AutoInstallable:      1400,
		ByType:               map[friction.DependencyType]int{friction.Missing: 1000, friction.DevDependency: 500},
		ByPackageManager:     map[string]int{"npm": 1500},
		ActivePackageManager: "npm",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Total:            1,500")
	assert.Contains(t, out, "Eliminated:       1,200")
	assert.Contains(t, out, "dev_dependency")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("dev_dependency")), bytes.Index(buf.Bytes(), []byte("missing")))
}

func TestRenderOutcome(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name  string
		point *friction.Point
		want  string
	}{
		{"eliminated", &friction.Point{DependencyName: "a", AutoInstallable: true, Eliminated: true}, "✓ a"},
		{"manual", &friction.Point{DependencyName: "b", InstallCommand: "npm install b"}, "b: manual fix required (npm install b)"},
		{"failed", &friction.Point{DependencyName: "c", AutoInstallable: true, LastInstall: &pkgmgr.InstallResult{Error: "E404"}}, "✗ c: E404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			renderOutcome(&buf, tt.point)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

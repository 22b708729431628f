package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func install(t *testing.T, root, name string) {
	t.Helper()
	writeFile(t, filepath.Join(root, "node_modules", filepath.FromSlash(name), "package.json"),
		`{"name":"`+name+`","version":"1.0.0"}`)
}

func TestDependencyIssues_Missing(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	s.AddFile("src/app.js", "import _ from 'lodash';\nimport _fp from 'lodash/fp';\n")

	issues := s.DependencyIssues()
	require.Len(t, issues, 1)
	issue := issues[0]
	assert.Equal(t, TypeMissingDependency, issue.Type)
	assert.Equal(t, "src/app.js", issue.File)
	assert.Equal(t, 1, issue.Line)
	assert.Equal(t, []string{TagMissing, TagImport, "lodash"}, issue.Metadata.Tags)
	assert.Contains(t, issue.Message, "lodash")
}

func TestDependencyIssues_InstalledAndUndeclared(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"),
		`{"name":"app","dependencies":{"react":"^18.0.0"},"peerDependencies":{"react-dom":"^18.0.0"}}`)
	install(t, root, "react")
	install(t, root, "chalk")

	s := New(root)
	s.AddFile("a.js", "import React from 'react';\nconst chalk = require('chalk');\nimport { render } from 'react-dom';\n")

	issues := s.DependencyIssues()
	require.Len(t, issues, 2)

	assert.Equal(t, TypeUndeclaredDependency, issues[0].Type)
	assert.Equal(t, []string{TagUndeclared, TagRequire, "chalk"}, issues[0].Metadata.Tags)

	assert.Equal(t, TypeMissingDependency, issues[1].Type)
	assert.Equal(t, []string{TagMissing, TagImport, TagPeer, "react-dom"}, issues[1].Metadata.Tags)
}

func TestDependencyIssues_PerFile(t *testing.T) {
	s := New(t.TempDir())
	s.AddFile("b.js", "require('axios')")
	s.AddFile("a.js", "require('axios')")

	issues := s.DependencyIssues()
	require.Len(t, issues, 2)
	assert.Equal(t, "a.js", issues[0].File)
	assert.Equal(t, "b.js", issues[1].File)

	s.RemoveFile("a.js")
	assert.Len(t, s.DependencyIssues(), 1)
	assert.Empty(t, s.References("a.js"))
	assert.Len(t, s.References("b.js"), 1)
}

func TestAddFile_Reindexes(t *testing.T) {
	s := New(t.TempDir())
	s.AddFile("a.js", "require('axios')")
	s.AddFile("a.js", "// nothing here")
	assert.Empty(t, s.DependencyIssues())
}

func TestWalk(t *testing.T) {
	root := t.TempDir()
	for _, f := range []string{
		"index.js", "src/app.tsx", "src/types.d.ts", "src/readme.md",
		"node_modules/x/index.js", ".git/hooks/a.js", "dist/bundle.js", "lib/util.mjs",
	} {
		writeFile(t, filepath.Join(root, f), "")
	}

	files, err := Walk(root)
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	sort.Strings(rel)
	assert.Equal(t, []string{"index.js", "lib/util.mjs", "src/app.tsx"}, rel)
}

func TestSkipDir(t *testing.T) {
	for name, want := range map[string]bool{
		"node_modules": true, "dist": true, "coverage": true, "src": false, "lib": false,
	} {
		assert.Equal(t, want, SkipDir(name), name)
	}
}

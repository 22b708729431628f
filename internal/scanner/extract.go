package scanner

import (
	"regexp"
	"sort"
	"strings"
)

var patterns = []struct {
	kind string
	re   *regexp.Regexp
}{
	{TagImport, regexp.MustCompile(`(?m)^[ \t]*import\s+(?:type\s+)?(?:[\w$*{}\s,]+?\s+from\s+)?['"]([^'"\n]+)['"]`)},
	{TagExport, regexp.MustCompile(`(?m)^[ \t]*export\s+(?:type\s+)?(?:\*(?:\s+as\s+[\w$]+)?|\{[^}]*\})\s+from\s+['"]([^'"\n]+)['"]`)},
	{TagDynamic, regexp.MustCompile(`\bimport\(\s*['"]([^'"\n]+)['"]\s*\)`)},
	{TagRequire, regexp.MustCompile(`\brequire\(\s*['"]([^'"\n]+)['"]\s*\)`)},
}

// builtins are Node.js core modules that never need installing.
var builtins = map[string]bool{
	"assert": true, "async_hooks": true, "buffer": true, "child_process": true,
	"cluster": true, "console": true, "constants": true, "crypto": true,
	"dgram": true, "diagnostics_channel": true, "dns": true, "domain": true,
	"events": true, "fs": true, "http": true, "http2": true, "https": true,
	"inspector": true, "module": true, "net": true, "os": true, "path": true,
	"perf_hooks": true, "process": true, "punycode": true, "querystring": true,
	"readline": true, "repl": true, "stream": true, "string_decoder": true,
	"sys": true, "timers": true, "tls": true, "trace_events": true, "tty": true,
	"url": true, "util": true, "v8": true, "vm": true, "wasi": true,
	"worker_threads": true, "zlib": true,
}

// Extract returns the third-party package references in content, ordered by
// position. Relative paths, Node built-ins and comments are skipped.
func Extract(content string) []Reference {
	var refs []Reference
	seen := make(map[int]bool)
	code := maskComments(content)

	for _, p := range patterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(code, -1) {
			start, end := m[2], m[3]
			if seen[start] {
				continue
			}
			spec := content[start:end]
			pkg, ok := PackageName(spec)
			if !ok {
				continue
			}
			seen[start] = true
			line, col := position(content, m[0]+leadingSpace(content[m[0]:m[1]]))
			refs = append(refs, Reference{
				Package: pkg,
				Spec:    spec,
				Kind:    p.kind,
				Line:    line,
				Column:  col,
			})
		}
	}

	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Line != refs[j].Line {
			return refs[i].Line < refs[j].Line
		}
		return refs[i].Column < refs[j].Column
	})
	return refs
}

// PackageName maps a module specifier to the package that provides it:
// "lodash/fp" is provided by "lodash", "@scope/pkg/sub" by "@scope/pkg".
// It reports false for relative or absolute paths, URLs, path aliases and
// Node built-ins.
func PackageName(spec string) (string, bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", false
	}
	switch {
	case strings.HasPrefix(spec, "."), strings.HasPrefix(spec, "/"),
		strings.HasPrefix(spec, "~"), strings.HasPrefix(spec, "#"),
		strings.HasPrefix(spec, "@/"), strings.HasPrefix(spec, "node:"),
		strings.Contains(spec, "://"):
		return "", false
	}

	parts := strings.Split(spec, "/")
	name := parts[0]
	if strings.HasPrefix(name, "@") {
		if len(parts) < 2 || parts[1] == "" {
			return "", false
		}
		name = parts[0] + "/" + parts[1]
	}
	if builtins[name] {
		return "", false
	}
	return name, true
}

// maskComments blanks out line and block comments, keeping newlines and
// byte offsets. String literals are tracked so "//" or "/*" inside quotes
// (URLs, globs) do not start a comment.
func maskComments(content string) string {
	const (
		code = iota
		line
		block
		str
	)
	b := []byte(content)
	state := code
	var quote byte
	for i := 0; i < len(b); i++ {
		c := b[i]
		next := byte(0)
		if i+1 < len(b) {
			next = b[i+1]
		}
		switch state {
		case code:
			switch {
			case c == '/' && next == '/':
				state = line
				b[i] = ' '
			case c == '/' && next == '*':
				state = block
				b[i], b[i+1] = ' ', ' '
				i++
			case c == '\'', c == '"', c == '`':
				state, quote = str, c
			}
		case line:
			if c == '\n' {
				state = code
			} else {
				b[i] = ' '
			}
		case block:
			switch {
			case c == '*' && next == '/':
				b[i], b[i+1] = ' ', ' '
				i++
				state = code
			case c != '\n':
				b[i] = ' '
			}
		case str:
			switch {
			case c == '\\':
				i++
			case c == quote:
				state = code
			case c == '\n' && quote != '`':
				state = code
			}
		}
	}
	return string(b)
}

// position converts a byte offset to a 1-based line and column.
func position(content string, offset int) (int, int) {
	line := strings.Count(content[:offset], "\n") + 1
	lineStart := strings.LastIndexByte(content[:offset], '\n') + 1
	return line, len([]rune(content[lineStart:offset])) + 1
}

func leadingSpace(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t\r\n"))
}

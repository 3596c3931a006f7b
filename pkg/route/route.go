// Package route resolves named routes into request paths.
//
// Patterns use the chi placeholder syntax, so the same pattern can be registered in a chi router
// and reversed in a test:
//
//	var routes route.Table
//	r.Get(routes.Register("stuff-detail", "/stuff/{id}/"), showStuff)
//	path, err := routes.Reverse("stuff-detail", "42") // "/stuff/42/"
package route

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"go.llib.dev/frameless/pkg/errorkit"
)

const ErrNoReverseMatch errorkit.Error = "no reverse match"

// Reverser turns a route name and its positional arguments into a path.
type Reverser interface {
	Reverse(name string, args ...string) (string, error)
}

// Table is a Reverser backed by a name to pattern registry.
// The zero value is ready to use.
type Table struct {
	m        sync.RWMutex
	patterns map[string]string
}

// Register adds a named pattern to the table, and returns the pattern.
func (t *Table) Register(name, pattern string) string {
	t.m.Lock()
	defer t.m.Unlock()
	if t.patterns == nil {
		t.patterns = make(map[string]string)
	}
	t.patterns[name] = pattern
	return pattern
}

// Names lists the registered route names.
func (t *Table) Names() []string {
	t.m.RLock()
	defer t.m.RUnlock()
	names := make([]string, 0, len(t.patterns))
	for name := range t.patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Table) Reverse(name string, args ...string) (string, error) {
	t.m.RLock()
	pattern, ok := t.patterns[name]
	t.m.RUnlock()
	if !ok {
		return "", ErrNoReverseMatch.F("unknown route name: %s", name)
	}
	var (
		out  strings.Builder
		used int
		rest = pattern
	)
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			out.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return "", fmt.Errorf("route %s has a malformed pattern: %s", name, pattern)
		}
		out.WriteString(rest[:start])
		if used >= len(args) {
			return "", ErrNoReverseMatch.F("%s expects more than %d argument(s)", name, len(args))
		}
		out.WriteString(url.PathEscape(args[used]))
		used++
		rest = rest[start+end+1:]
	}
	if used != len(args) {
		return "", ErrNoReverseMatch.F("%s expects %d argument(s), got %d", name, used, len(args))
	}
	return out.String(), nil
}

// Func is a function based Reverser.
type Func func(name string, args ...string) (string, error)

func (fn Func) Reverse(name string, args ...string) (string, error) { return fn(name, args...) }

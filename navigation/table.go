package navigation

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	autherrors "github.com/gongxings/ai-creator/internal/errors"
)

// Location is a resolved navigation target.
type Location struct {
	Name        string
	Path        string
	Query       url.Values
	Params      map[string]string
	Requirement Requirement // OR of every matched record
	Matched     []string    // Names of the matched records, outermost first; layouts are ""
}

// FullPath is the path with its encoded query, e.g. "/history?page=2".
func (l Location) FullPath() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

type matcher struct {
	segments    []string
	name        string
	requirement Requirement
	matched     []string
}

// Table resolves paths against a route table.
type Table struct {
	matchers []matcher
}

func NewTable(routes []Route) (*Table, error) {
	t := &Table{}
	if err := t.add(routes, "/", Requirement{}, nil); err != nil {
		return nil, err
	}
	if len(t.matchers) == 0 {
		return nil, fmt.Errorf("[navigation NewTable] no routable records")
	}
	return t, nil
}

func (t *Table) add(routes []Route, parent string, inherited Requirement, chain []string) error {
	for _, r := range routes {
		full := r.Path
		if !strings.HasPrefix(full, "/") {
			full = path.Join(parent, full)
		}
		full = cleanPath(full)
		req := inherited.Or(r.Meta)
		names := append(append([]string(nil), chain...), r.Name)

		if len(r.Children) > 0 {
			if err := t.add(r.Children, full, req, names); err != nil {
				return err
			}
			continue
		}
		if r.Name == "" {
			return fmt.Errorf("[navigation NewTable] route %q has no name", full)
		}
		t.matchers = append(t.matchers, matcher{
			segments:    splitPath(full),
			name:        r.Name,
			requirement: req,
			matched:     names,
		})
	}
	return nil
}

// Resolve matches a path (which may carry a query) against the table. Static
// segments win over ":param" segments at the same position.
func (t *Table) Resolve(target string) (Location, error) {
	p, rawQuery, _ := strings.Cut(target, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return Location{}, fmt.Errorf("[navigation Resolve] %q: %w", target, err)
	}
	p = cleanPath(p)
	segments := splitPath(p)

	var best *matcher
	var bestParams map[string]string
	bestScore := -1
	for i := range t.matchers {
		m := &t.matchers[i]
		params, score, ok := m.match(segments)
		if ok && score > bestScore {
			best, bestParams, bestScore = m, params, score
		}
	}
	if best == nil {
		return Location{}, fmt.Errorf("%q: %w", p, autherrors.ErrRouteNotFound)
	}
	if len(query) == 0 {
		query = nil
	}
	return Location{
		Name:        best.name,
		Path:        p,
		Query:       query,
		Params:      bestParams,
		Requirement: best.requirement,
		Matched:     append([]string(nil), best.matched...),
	}, nil
}

func (m *matcher) match(segments []string) (map[string]string, int, bool) {
	if len(segments) != len(m.segments) {
		return nil, 0, false
	}
	var params map[string]string
	score := 0
	for i, seg := range m.segments {
		if strings.HasPrefix(seg, ":") {
			if params == nil {
				params = make(map[string]string)
			}
			v, err := url.PathUnescape(segments[i])
			if err != nil {
				return nil, 0, false
			}
			params[seg[1:]] = v
			continue
		}
		if seg != segments[i] {
			return nil, 0, false
		}
		score++
	}
	return params, score, true
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

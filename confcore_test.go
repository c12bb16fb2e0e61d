package confcore

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"testing"
)

// memStorage serves configuration bytes from a map keyed by full path, so
// loader tests never touch the real filesystem.
type memStorage struct {
	files map[string]string
}

func (m memStorage) Read(p string) ([]byte, error) {
	s, ok := m.files[p]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(s), nil
}

func (m memStorage) List(dir string, pattern *regexp.Regexp) ([]string, error) {
	prefix := dir + "/"
	var names []string
	found := false
	for p := range m.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		found = true
		name := p[len(prefix):]
		if !strings.Contains(name, "/") && pattern.MatchString(name) {
			names = append(names, name)
		}
	}
	if !found {
		return nil, ErrNotFound
	}
	sort.Strings(names)
	return names, nil
}

// memSink records warning messages so tests can assert on warn-and-skip
// behavior.
type memSink struct {
	warnings []string
}

func (s *memSink) Warn(msg string, kv ...any) {
	s.warnings = append(s.warnings, msg)
}

func (s *memSink) contains(substr string) bool {
	for _, w := range s.warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func parseAll(t *testing.T, argv, env []string, files map[string]string) (*Config, *memSink, error) {
	t.Helper()
	sink := &memSink{}
	cfg, err := ParseWith(DefaultRuleTable, argv, env, memStorage{files}, iniV1Parser{}, sink, false)
	return cfg, sink, err
}

func kindOf(t *testing.T, err error) ErrorKind {
	t.Helper()
	var pe ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a ParseError, got %T: %v", err, err)
	}
	return pe.Kind()
}

func newTestState() *parseState {
	return newParseState(DefaultRuleTable, discardSink{})
}

func setParam(ps *parseState, id string, values ...string) {
	v := ps.option(id).at(0)
	v.Found = true
	v.Source = SourceParam
	v.Values = values
}

func setParamAt(ps *parseState, id string, keyIndex int, values ...string) {
	v := ps.option(id).at(keyIndex)
	v.Found = true
	v.Source = SourceParam
	v.Values = values
}

func negateParam(ps *parseState, id string) {
	v := ps.option(id).at(0)
	v.Found = true
	v.Negate = true
	v.Source = SourceParam
}

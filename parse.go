package confcore

import "os"

// Parse resolves argv, the process environment and the configuration files
// into a Config.
//
// argv follows the os.Args convention (argv[0] is the executable path).
// When resetLog is true, warnings are discarded instead of routed through
// the configured LogSink -- for callers that want a silent dry-run, e.g.
// re-parsing to render help text.
func Parse(argv []string, resetLog bool) (*Config, error) {
	return ParseWith(DefaultRuleTable, argv, os.Environ(), OSStorage{}, iniV1Parser{}, NewZerologSink(), resetLog)
}

// ParseWith is the fully-injectable form of Parse, used by tests and by
// callers that want a non-default Storage/INIParser/LogSink or rule table.
func ParseWith(rt *RuleTable, argv []string, environ []string, storage Storage, parser INIParser, sink LogSink, resetLog bool) (*Config, error) {
	if resetLog || sink == nil {
		sink = discardSink{}
	}

	ps := newParseState(rt, sink)

	if err := parseArgv(rt, argv, ps); err != nil {
		return nil, err
	}

	if err := importEnv(rt, environ, ps); err != nil {
		return nil, err
	}

	doc, err := loadFiles(rt, ps, storage, parser)
	if err != nil {
		return nil, err
	}

	if err := mergeSources(rt, ps, doc, sink); err != nil {
		return nil, err
	}

	if err := enforceCommandValidity(rt, ps); err != nil {
		return nil, err
	}

	groups, err := resolveGroups(rt, ps)
	if err != nil {
		return nil, err
	}

	return materialise(rt, ps, groups)
}

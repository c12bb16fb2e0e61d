package confcore

import "strings"

// importEnv scans the environment for PGBACKREST_-prefixed entries and maps
// them onto the parse state. environ follows os.Environ's "KEY=VALUE"
// shape and entries are processed in the order the host provides them.
//
// An entry's suffix is lowercased and "_" becomes "-" to form the option
// name. Unknown names, negate/reset spellings, command-line-only options
// and options the active command does not accept are warned about and
// skipped. An empty value is a hard error. Values never override a slot
// argv already set.
func importEnv(rt *RuleTable, environ []string, ps *parseState) error {
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if !strings.HasPrefix(key, envPrefix) {
			continue
		}
		suffix := key[len(envPrefix):]
		if suffix == "" {
			continue
		}
		name := strings.ReplaceAll(strings.ToLower(suffix), "_", "-")

		alias, ok := rt.ResolveName(name)
		if !ok {
			ps.sink.Warn("unknown option in environment", "name", name)
			continue
		}
		if alias.Negate {
			ps.sink.Warn("negate alias not valid in environment", "name", name)
			continue
		}
		if alias.Reset {
			ps.sink.Warn("reset alias not valid in environment", "name", name)
			continue
		}
		opt, ok := rt.Option(alias.OptionID)
		if !ok {
			assertError("alias %q resolves to undeclared option %q", name, alias.OptionID)
		}
		if opt.Section == SectionCommandLineOnly {
			ps.sink.Warn("option is command-line only", "name", name)
			continue
		}
		if !rt.ValidForCommand(alias.OptionID, ps.commandID) {
			ps.sink.Warn("option not valid for command", "name", name, "command", ps.commandID)
			continue
		}

		if value == "" {
			return errOptionInvalidValue("environment variable '%s' may not be empty", key)
		}

		po := ps.option(alias.OptionID)
		v := po.at(alias.KeyIndex)
		if v.Found {
			// argv already claimed this slot
			continue
		}

		if alias.Deprecated != "" {
			ps.warnDeprecated(alias.Deprecated)
		}

		if opt.Type == OptionTypeBoolean {
			b, ok := parseBoolToken(value)
			if !ok {
				return errOptionInvalidValue("environment variable '%s' must be 'y' or 'n'", key)
			}
			v.Found = true
			v.Source = SourceEnv
			v.Negate = !b
			v.Values = []string{value}
			continue
		}

		if opt.Multi {
			v.Values = strings.Split(value, ":")
		} else {
			v.Values = []string{value}
		}
		v.Found = true
		v.Source = SourceEnv
	}
	return nil
}

package confcore

import (
	"strings"
)

// activeStanza reads the stanza option's raw value as merged so far from
// argv/env. Section search needs the stanza name before typed
// materialisation runs, and by the time files are consulted only argv or
// env can have supplied it.
func activeStanza(ps *parseState) string {
	po, ok := ps.options["stanza"]
	if !ok {
		return ""
	}
	v, ok := po.get(0)
	if !ok || !v.Found || v.Reset || len(v.Values) == 0 {
		return ""
	}
	return v.Values[0]
}

// sectionSearchOrder returns the section names to consult, highest
// precedence first: [stanza:command], [stanza], [global:command],
// [global]. commandScoped[i] reports whether order[i] carries a command
// suffix.
func sectionSearchOrder(stanza, commandID string) (order []string, commandScoped []bool) {
	if stanza != "" {
		order = append(order, stanza+":"+commandID)
		commandScoped = append(commandScoped, true)
		order = append(order, stanza)
		commandScoped = append(commandScoped, false)
	}
	order = append(order, "global:"+commandID)
	commandScoped = append(commandScoped, true)
	order = append(order, "global")
	commandScoped = append(commandScoped, false)
	return order, commandScoped
}

// mergeSources merges the parsed configuration document into the parse
// state, walking sections in search order so an earlier section wins over a
// later one and argv/env always win over the file. doc may be nil (no
// config file was loaded), in which case this is a no-op.
func mergeSources(rt *RuleTable, ps *parseState, doc *IniDocument, sink LogSink) error {
	if doc == nil {
		return nil
	}
	stanza := activeStanza(ps)
	order, commandScoped := sectionSearchOrder(stanza, ps.commandID)

	for idx, section := range order {
		if !containsSection(doc, section) {
			continue
		}
		if err := mergeSection(rt, ps, doc, section, commandScoped[idx], sink); err != nil {
			return err
		}
	}
	return nil
}

func containsSection(doc *IniDocument, name string) bool {
	for _, s := range doc.Sections() {
		if s == name {
			return true
		}
	}
	return false
}

// mergeSection merges one INI section, tracking which (option, key index)
// slots have already been claimed within it so the same logical option
// spelled two ways (e.g. a current name and its deprecated alias) is
// reported rather than silently merged.
func mergeSection(rt *RuleTable, ps *parseState, doc *IniDocument, section string, commandScoped bool, sink LogSink) error {
	type slotKey struct {
		optID    string
		keyIndex int
	}
	claimedBy := make(map[slotKey]string)

	for _, key := range doc.Keys(section) {
		alias, ok := rt.ResolveName(key)
		if !ok {
			sink.Warn("unknown option in configuration file", "section", section, "key", key)
			continue
		}
		opt, ok := rt.Option(alias.OptionID)
		if !ok {
			assertError("alias %q resolves to undeclared option %q", key, alias.OptionID)
		}
		if alias.Negate || alias.Reset || opt.Section == SectionCommandLineOnly {
			sink.Warn("option not valid in configuration file", "section", section, "key", key)
			continue
		}

		slot := slotKey{alias.OptionID, alias.KeyIndex}
		if prior, dup := claimedBy[slot]; dup && prior != key {
			return errOptionInvalid("configuration file contains duplicate options ('%s', '%s') in section '[%s]'", prior, key, section)
		}
		claimedBy[slot] = key

		if commandScoped && !rt.ValidForCommand(alias.OptionID, ps.commandID) {
			sink.Warn("option not valid for command", "section", section, "key", key, "command", ps.commandID)
			continue
		}
		if opt.Section == SectionStanza && strings.HasPrefix(section, "global") {
			sink.Warn("stanza-only option not valid in global section", "section", section, "key", key)
			continue
		}

		po := ps.option(alias.OptionID)
		v := po.at(alias.KeyIndex)
		if v.Found {
			// an earlier section or a higher-precedence source won
			continue
		}

		values, _ := doc.Get(section, key)

		if alias.Deprecated != "" {
			ps.warnDeprecated(alias.Deprecated)
		}

		if opt.Type == OptionTypeBoolean {
			if len(values) != 1 {
				return errOptionInvalidValue("option '%s' must be a single 'y'/'n' value", key)
			}
			b, ok := parseBoolToken(values[0])
			if !ok {
				return errOptionInvalidValue("option '%s' must be 'y' or 'n'", key)
			}
			v.Found = true
			v.Source = SourceConfig
			v.Negate = !b
			v.Values = values
			continue
		}

		if len(values) > 1 && !opt.Multi {
			return errOptionInvalidValue("option '%s' does not accept multiple values", key)
		}
		for _, val := range values {
			if val == "" {
				return errOptionInvalidValue("option '%s' may not have an empty value", key)
			}
		}

		v.Found = true
		v.Source = SourceConfig
		v.Values = values
	}
	return nil
}

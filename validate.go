package confcore

import (
	"fmt"
	"strconv"
	"strings"
)

// materialise walks options in the rule table's dependency-respecting
// resolve order and produces the final Config: depends checked, raw tokens
// parsed by type, ranges and allow-lists enforced, defaults applied,
// required options enforced.
func materialise(rt *RuleTable, ps *parseState, groups map[string]*GroupState) (*Config, error) {
	cfg := &Config{
		rt:          rt,
		Command:     ps.commandID,
		CommandRole: ps.commandRole,
		Help:        ps.help,
		Exe:         ps.exe,
		ParamList:   ps.paramList,
		options:     make(map[string]*OptionConfigState, len(rt.Options())),
		groups:      make(map[string]*GroupConfigState, len(groups)),
	}
	for name, gs := range groups {
		cfg.groups[name] = &GroupConfigState{
			Valid:              gs.Valid,
			Name:               name,
			IndexTotal:         gs.IndexTotal,
			IndexMap:           append([]int(nil), gs.IndexMap...),
			IndexDefault:       gs.IndexDefault,
			IndexDefaultExists: gs.IndexDefaultExists,
		}
	}

	resolved := make(map[string][]ConfigOptionValue, len(rt.Options()))

	for _, optID := range rt.ResolveOrder() {
		opt, ok := rt.Option(optID)
		if !ok {
			assertError("resolve order references undeclared option %q", optID)
		}

		var keyIndexes []int
		if opt.Group != "" {
			gs := groups[opt.Group]
			keyIndexes = gs.IndexMap
		} else {
			keyIndexes = []int{0}
		}

		valid := rt.ValidForCommand(optID, ps.commandID)
		out := make([]ConfigOptionValue, len(keyIndexes))
		po := ps.options[optID]

		if valid {
			for listIdx, keyIndex := range keyIndexes {
				v := zeroValue(po, keyIndex)

				cov, err := materialiseSlot(rt, ps, opt, listIdx, keyIndex, v, resolved)
				if err != nil {
					return nil, err
				}
				out[listIdx] = cov
			}
		}

		resolved[optID] = out

		cfg.options[optID] = &OptionConfigState{
			Valid:   valid,
			Group:   opt.Group != "",
			GroupID: groupIndexOf(rt, opt.Group),
			Name:    opt.Name,
			Index:   out,
		}
	}

	return cfg, nil
}

func zeroValue(po *ParseOption, keyIndex int) ParseOptionValue {
	if po == nil {
		return ParseOptionValue{}
	}
	v, ok := po.get(keyIndex)
	if !ok {
		return ParseOptionValue{}
	}
	return *v
}

func groupIndexOf(rt *RuleTable, group string) int {
	if group == "" {
		return -1
	}
	i, ok := rt.groupByName[group]
	if !ok {
		return -1
	}
	return i
}

// publicSource maps an internal provenance tag to the one exposed on the
// final Config. Environment variables are config in every externally
// observable way except precedence, which has already been applied by the
// time a slot materialises.
func publicSource(s Source) Source {
	if s == SourceEnv {
		return SourceConfig
	}
	return s
}

// materialiseSlot resolves one (option, list index) pair into its final
// ConfigOptionValue.
func materialiseSlot(rt *RuleTable, ps *parseState, opt *OptionRule, listIdx, keyIndex int, v ParseOptionValue, resolved map[string][]ConfigOptionValue) (ConfigOptionValue, error) {
	optionSet := v.Found && (opt.Type == OptionTypeBoolean || !v.Negate) && !v.Reset

	if rec, ok := opt.dependFor(ps.commandID); ok {
		ok, err := checkDepend(rt, ps, opt, rec, listIdx, optionSet, v.Source, resolved)
		if err != nil {
			return ConfigOptionValue{}, err
		}
		if !ok {
			return ConfigOptionValue{Source: SourceNone}, nil
		}
	}

	switch {
	case !v.Found || v.Reset:
		cov, err := applyDefault(rt, ps, opt, keyIndex)
		if err != nil {
			return ConfigOptionValue{}, err
		}
		cov.Reset = v.Reset
		return cov, nil
	case opt.Type != OptionTypeBoolean && v.Negate:
		// explicitly switched off: no value, but provenance kept so the
		// consumer can tell "off" from "never mentioned"
		return ConfigOptionValue{Value: nil, Source: publicSource(v.Source), Negate: true}, nil
	default:
		return parseTyped(rt, ps, opt, keyIndex, v)
	}
}

// checkDepend reads the already-materialised value of the option this one
// depends on and decides whether the dependent may take effect. An
// unsatisfied depend is fatal only when the dependent was set on the
// command line; from env or config it is silently dropped.
func checkDepend(rt *RuleTable, ps *parseState, opt *OptionRule, rec optionRecord, listIdx int, optionSet bool, source Source, resolved map[string][]ConfigOptionValue) (bool, error) {
	dependOpt, ok := rt.Option(rec.dependOption)
	if !ok {
		assertError("depend record on %q references undeclared option %q", opt.ID, rec.dependOption)
	}
	dependValues, ok := resolved[rec.dependOption]
	if !ok {
		assertError("depend record on %q resolved before its target %q", opt.ID, rec.dependOption)
	}

	depKeyIndex := listIdx
	if dependOpt.Group == "" {
		depKeyIndex = 0
	}
	if depKeyIndex < 0 || depKeyIndex >= len(dependValues) {
		return dependUnresolved(opt, dependOpt, rec, optionSet, source)
	}
	dv := dependValues[depKeyIndex]
	if dv.Value == nil {
		return dependUnresolved(opt, dependOpt, rec, optionSet, source)
	}

	if len(rec.dependAllow) == 0 {
		return true, nil
	}

	// booleans compare as "0"/"1" so the allow list can name either state
	var asString string
	if dependOpt.Type == OptionTypeBoolean {
		b, _ := dv.Value.(bool)
		if b {
			asString = "1"
		} else {
			asString = "0"
		}
	} else {
		asString = fmt.Sprintf("%v", dv.Value)
	}
	for _, allowed := range rec.dependAllow {
		if allowed == asString {
			return true, nil
		}
	}
	return dependUnresolved(opt, dependOpt, rec, optionSet, source)
}

func dependUnresolved(opt, dependOpt *OptionRule, rec optionRecord, optionSet bool, source Source) (bool, error) {
	if optionSet && source == SourceParam {
		return false, errOptionInvalid("%s", formatDependError(opt, dependOpt, rec))
	}
	return false, nil
}

// formatDependError renders the depend-unsatisfied message as a
// comma-joined candidate list: boolean candidates render as the bare option
// name ("no-<name>" for false), non-boolean ones quoted.
func formatDependError(opt, dependOpt *OptionRule, rec optionRecord) string {
	if len(rec.dependAllow) == 0 {
		return fmt.Sprintf("option '%s' not valid without option '%s'", opt.Name, dependOpt.Name)
	}
	candidates := make([]string, len(rec.dependAllow))
	for i, allowed := range rec.dependAllow {
		if dependOpt.Type == OptionTypeBoolean {
			if allowed == "0" {
				candidates[i] = "no-" + dependOpt.Name
			} else {
				candidates[i] = dependOpt.Name
			}
		} else {
			candidates[i] = "'" + allowed + "'"
		}
	}
	return fmt.Sprintf("option '%s' not valid without option '%s' in (%s)", opt.Name, dependOpt.Name, strings.Join(candidates, ", "))
}

// applyDefault fills an unset slot from the rule table's default. With no
// default, an option required for the command (outside help) is reported as
// missing; any other option stays unset.
func applyDefault(rt *RuleTable, ps *parseState, opt *OptionRule, keyIndex int) (ConfigOptionValue, error) {
	defStr, ok := opt.defaultFor(ps.commandID)
	if ok {
		if opt.Type == OptionTypeBoolean {
			return ConfigOptionValue{Value: defStr == "1", Source: SourceDefault}, nil
		}
		val, err := parseByType(opt, []string{defStr})
		if err != nil {
			assertError("rule table default for %q fails type parse: %v", opt.ID, err)
		}
		return ConfigOptionValue{Value: val, Source: SourceDefault}, nil
	}

	if opt.requiredFor(ps.commandID) && !ps.help {
		name := formatKeyIdxName(rt, opt, keyIndex)
		hint := ""
		if opt.Section == SectionStanza {
			hint = " (does this stanza exist?)"
		}
		return ConfigOptionValue{}, errOptionRequired("option '%s' required but not provided%s", name, hint)
	}

	return ConfigOptionValue{Value: nil, Source: SourceNone}, nil
}

// parseTyped parses a set slot's raw tokens by the option's type and
// enforces range / allow-list restrictions.
func parseTyped(rt *RuleTable, ps *parseState, opt *OptionRule, keyIndex int, v ParseOptionValue) (ConfigOptionValue, error) {
	name := formatKeyIdxName(rt, opt, keyIndex)

	if opt.Type == OptionTypeBoolean {
		return ConfigOptionValue{Value: !v.Negate, Source: publicSource(v.Source)}, nil
	}

	val, err := parseByType(opt, v.Values)
	if err != nil {
		return ConfigOptionValue{}, errOptionInvalidValue("'%s' is not valid for '%s' option", firstOf(v.Values), name)
	}

	switch opt.Type {
	case OptionTypeInteger, OptionTypeSize, OptionTypeTime:
		if min, max, ok := opt.allowRange(ps.commandID); ok {
			n := val.(int64)
			if n < min || n > max {
				return ConfigOptionValue{}, errOptionInvalidValue("'%s' is out of range for '%s' option", v.Values[0], name)
			}
		}
	case OptionTypeString, OptionTypePath:
		if allow, ok := opt.allowList(ps.commandID); ok {
			s := val.(string)
			if !contains(allow, s) {
				return ConfigOptionValue{}, errOptionInvalidValue("'%s' is not allowed for '%s' option", s, name)
			}
		}
	}

	return ConfigOptionValue{Value: val, Source: publicSource(v.Source)}, nil
}

// parseByType parses raw token(s) according to opt.Type.
func parseByType(opt *OptionRule, values []string) (any, error) {
	switch opt.Type {
	case OptionTypeHash:
		h, ok := parseHash(values)
		if !ok {
			return nil, fmt.Errorf("malformed hash token")
		}
		return h, nil
	case OptionTypeList:
		return append([]string(nil), values...), nil
	case OptionTypeInteger:
		n, err := strconv.ParseInt(firstOf(values), 10, 64)
		if err != nil {
			return nil, err
		}
		return n, nil
	case OptionTypeSize:
		n, ok := convertToByte(firstOf(values))
		if !ok {
			return nil, fmt.Errorf("malformed size token")
		}
		return n, nil
	case OptionTypeTime:
		n, ok := convertToMillis(firstOf(values))
		if !ok {
			return nil, fmt.Errorf("malformed time token")
		}
		return n, nil
	case OptionTypePath:
		p, ok := parsePath(firstOf(values))
		if !ok {
			return nil, fmt.Errorf("malformed path token")
		}
		return p, nil
	case OptionTypeString:
		s := firstOf(values)
		if s == "" {
			return nil, fmt.Errorf("empty string value")
		}
		return s, nil
	default:
		assertError("parseByType: unhandled option type %v", opt.Type)
		return nil, nil
	}
}

func firstOf(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

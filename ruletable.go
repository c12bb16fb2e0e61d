package confcore

import (
	"fmt"
	"regexp"
	"strconv"
)

// RuleTable is the static, read-only description of every command, option,
// group and alias the engine knows about, plus a pre-computed
// dependency-respecting order in which options must be materialised.
//
// A RuleTable is built once (see ruletable_data.go for the concrete
// pgbackrest-shaped instance) via NewRuleTable, which rejects duplicate
// aliases and cyclic Depend graphs up front.
type RuleTable struct {
	commands []CommandRule
	groups   []GroupRule
	options  []OptionRule
	aliases  map[string]OptionAlias

	// validCommands restricts which commands may use a given option id.
	// An option id absent from this map is valid for every command (the
	// common case for global options); an option id present is valid only
	// for the listed command ids.
	validCommands map[string][]string

	commandByID map[string]int
	groupByName map[string]int
	optionByID  map[string]int

	// groupMembers[groupName][fullName] -> option id, where fullName is the
	// group's display-name template with the key digits removed (e.g.
	// "pg-path"). Precomputed so resolveGroupedName doesn't linear-scan
	// rt.options on every CLI token.
	groupMembers map[string]map[string]string

	resolveOrder []string // option ids, dependency-respecting
}

// keyIndexPattern matches the leading run of decimal digits in a
// key-indexed option token, e.g. the "7" in "pg7-path".
var keyIndexPattern = regexp.MustCompile(`^[0-9]+`)

const maxKeyIndex = 256 // user-facing keys run [1, 256)

// keyIndexForUserKey converts a 1-based user-facing key into the 0-based
// internal key index, honoring the pg group's historical reservation of
// key index 0.
func keyIndexForUserKey(group GroupRule, userKey int) int {
	if group.ReservedKey1 {
		return userKey
	}
	return userKey - 1
}

// userKeyForKeyIndex is the inverse of keyIndexForUserKey, used to render
// display names in diagnostics.
func userKeyForKeyIndex(group GroupRule, keyIndex int) int {
	if group.ReservedKey1 {
		return keyIndex
	}
	return keyIndex + 1
}

// NewRuleTable constructs a RuleTable from its raw declarative pieces and
// validates it. It panics on a malformed table, since an invalid static
// rule table is a programmer error, not a runtime condition.
func NewRuleTable(commands []CommandRule, groups []GroupRule, options []OptionRule, aliases map[string]OptionAlias, validCommands map[string][]string) *RuleTable {
	rt := &RuleTable{
		commands:      commands,
		groups:        groups,
		options:       options,
		aliases:       make(map[string]OptionAlias, len(aliases)),
		validCommands: validCommands,
		commandByID:   make(map[string]int, len(commands)),
		groupByName:   make(map[string]int, len(groups)),
		optionByID:    make(map[string]int, len(options)),
	}
	for i, c := range commands {
		rt.commandByID[c.ID] = i
	}
	for i, g := range groups {
		rt.groupByName[g.Name] = i
	}
	for i, o := range options {
		rt.optionByID[o.ID] = i
	}

	rt.groupMembers = make(map[string]map[string]string, len(groups))
	for _, g := range groups {
		rt.groupMembers[g.Name] = make(map[string]string)
	}
	for _, o := range options {
		if o.Group == "" {
			continue
		}
		members, ok := rt.groupMembers[o.Group]
		if !ok {
			panic(fmt.Errorf("rule table build error: option %q references undeclared group %q", o.ID, o.Group))
		}
		members[o.Name] = o.ID
	}

	for name, a := range aliases {
		if _, dup := rt.aliases[name]; dup {
			panic(fmt.Errorf("rule table build error: duplicate alias %q", name))
		}
		rt.aliases[name] = a
	}

	rt.resolveOrder = rt.computeResolveOrder()
	return rt
}

// Command looks up a CommandRule by id.
func (rt *RuleTable) Command(id string) (CommandRule, bool) {
	i, ok := rt.commandByID[id]
	if !ok {
		return CommandRule{}, false
	}
	return rt.commands[i], true
}

// Option looks up an OptionRule by id.
func (rt *RuleTable) Option(id string) (*OptionRule, bool) {
	i, ok := rt.optionByID[id]
	if !ok {
		return nil, false
	}
	return &rt.options[i], true
}

// Group looks up a GroupRule by name.
func (rt *RuleTable) Group(name string) (GroupRule, bool) {
	i, ok := rt.groupByName[name]
	if !ok {
		return GroupRule{}, false
	}
	return rt.groups[i], true
}

// Alias resolves a textual option name (as typed on argv/env/config) to its
// OptionAlias tuple. It does not itself perform negate/reset prefix
// stripping or key-indexed group matching; use ResolveName for that.
func (rt *RuleTable) Alias(name string) (OptionAlias, bool) {
	a, ok := rt.aliases[name]
	return a, ok
}

// ResolveName is the single entry point the argv, env and file readers all
// funnel textual option tokens through: it strips a "no-" or "reset-"
// prefix (recording negate/reset), then resolves the remaining base name
// either via the flat alias table (ungrouped options, deprecated aliases,
// group default-select scalars) or, failing that, via key-indexed
// group-member pattern matching (e.g. "pg7-path" -> option "pg-path",
// key index 7).
func (rt *RuleTable) ResolveName(token string) (OptionAlias, bool) {
	base := token
	var negate, reset bool
	switch {
	case len(base) > 3 && base[:3] == "no-":
		negate = true
		base = base[3:]
	case len(base) > 6 && base[:6] == "reset-":
		reset = true
		base = base[6:]
	}

	if a, ok := rt.aliases[base]; ok {
		a.Negate = a.Negate || negate
		a.Reset = a.Reset || reset
		return a, true
	}

	if a, ok := rt.resolveGroupedName(base); ok {
		a.Negate = negate
		a.Reset = reset
		return a, true
	}

	return OptionAlias{}, false
}

// resolveGroupedName matches a key-indexed option token like "pg7-path"
// against the group prefix + digits + suffix shape. A group-member name
// written without a key, e.g. "repo-cipher-pass", addresses key 1 -- the
// historical single-instance spelling from before groups were indexed.
func (rt *RuleTable) resolveGroupedName(base string) (OptionAlias, bool) {
	for _, g := range rt.groups {
		if len(base) <= len(g.Name) || base[:len(g.Name)] != g.Name {
			continue
		}
		rest := base[len(g.Name):]
		digits := keyIndexPattern.FindString(rest)
		userKey := 1
		if digits != "" {
			k, err := strconv.Atoi(digits)
			if err != nil || k < 1 || k >= maxKeyIndex {
				continue
			}
			userKey = k
		}
		fullName := g.Name + rest[len(digits):]
		optID, ok := rt.groupMembers[g.Name][fullName]
		if !ok {
			continue
		}
		return OptionAlias{OptionID: optID, KeyIndex: keyIndexForUserKey(g, userKey)}, true
	}
	return OptionAlias{}, false
}

// Options returns every OptionRule, in declaration order.
func (rt *RuleTable) Options() []OptionRule { return rt.options }

// ResolveOrder returns the dependency-respecting option materialise order.
func (rt *RuleTable) ResolveOrder() []string { return rt.resolveOrder }

// ValidForCommand reports whether option optID is usable under commandID.
func (rt *RuleTable) ValidForCommand(optID, commandID string) bool {
	allow, restricted := rt.validCommands[optID]
	if !restricted {
		return true
	}
	for _, c := range allow {
		if c == commandID {
			return true
		}
	}
	return false
}

// computeResolveOrder performs a topological sort of the Depend graph
// (option -> the option its Depend record reads), panicking if a cycle is
// found: a cyclic table can never materialise and must not ship.
func (rt *RuleTable) computeResolveOrder() []string {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(rt.options))
	order := make([]string, 0, len(rt.options))

	var visit func(id string)
	visit = func(id string) {
		switch color[id] {
		case black:
			return
		case gray:
			panic(fmt.Errorf("rule table build error: dependency cycle involving option %q", id))
		}
		color[id] = gray
		if i, ok := rt.optionByID[id]; ok {
			for _, rec := range rt.options[i].records {
				if rec.tag == RecordDepend {
					visit(rec.dependOption)
				}
			}
		}
		color[id] = black
		order = append(order, id)
	}

	for _, o := range rt.options {
		visit(o.ID)
	}
	return order
}

package confcore

// ConfigOptionValue is one materialised (option, key index) slot.
type ConfigOptionValue struct {
	Value  any // nil, bool, int64, string, []string, or map[string]string
	Source Source
	Negate bool
	Reset  bool
}

// OptionConfigState is the final, per-option view inside Config.
type OptionConfigState struct {
	Valid   bool
	Group   bool
	GroupID int
	Name    string
	Index   []ConfigOptionValue
}

// GroupConfigState is the final, per-group view inside Config.
type GroupConfigState struct {
	Valid              bool
	Name               string
	IndexTotal         int
	IndexMap           []int
	IndexDefault       int
	IndexDefaultExists bool
}

// Config is the fully validated, typed output of Parse. Callers only ever
// see a finished Config; there is no mutation surface.
type Config struct {
	rt *RuleTable

	Command     string
	CommandRole RoleMask
	Help        bool
	Exe         string
	ParamList   []string

	options map[string]*OptionConfigState
	groups  map[string]*GroupConfigState
}

func (c *Config) slot(name string, keyIndex int) (ConfigOptionValue, bool) {
	st, ok := c.options[name]
	if !ok || keyIndex < 0 || keyIndex >= len(st.Index) {
		return ConfigOptionValue{}, false
	}
	return st.Index[keyIndex], true
}

// String returns name's value at list index keyIndex as a string, or "" if
// unset/not a string-like type.
func (c *Config) String(name string, keyIndex int) string {
	v, ok := c.slot(name, keyIndex)
	if !ok {
		return ""
	}
	s, _ := v.Value.(string)
	return s
}

// Bool returns name's value at list index keyIndex as a bool.
func (c *Config) Bool(name string, keyIndex int) bool {
	v, ok := c.slot(name, keyIndex)
	if !ok {
		return false
	}
	b, _ := v.Value.(bool)
	return b
}

// Int returns name's integer-typed value, and whether it is set.
func (c *Config) Int(name string, keyIndex int) (int64, bool) {
	v, ok := c.slot(name, keyIndex)
	if !ok || v.Value == nil {
		return 0, false
	}
	n, ok := v.Value.(int64)
	return n, ok
}

// Bytes returns name's size-typed value in bytes, and whether it is set.
func (c *Config) Bytes(name string, keyIndex int) (int64, bool) {
	return c.Int(name, keyIndex)
}

// BytesHuman renders name's size-typed value in human-readable form, e.g.
// for inclusion in diagnostics; returns "" if unset.
func (c *Config) BytesHuman(name string, keyIndex int) string {
	n, ok := c.Bytes(name, keyIndex)
	if !ok {
		return ""
	}
	return humanizeBytes(n)
}

// Millis returns name's time-typed value in milliseconds, and whether it
// is set.
func (c *Config) Millis(name string, keyIndex int) (int64, bool) {
	return c.Int(name, keyIndex)
}

// StringList returns name's list-typed value, or nil if unset.
func (c *Config) StringList(name string, keyIndex int) []string {
	v, ok := c.slot(name, keyIndex)
	if !ok || v.Value == nil {
		return nil
	}
	l, _ := v.Value.([]string)
	return l
}

// Hash returns name's hash-typed value, or nil if unset.
func (c *Config) Hash(name string, keyIndex int) map[string]string {
	v, ok := c.slot(name, keyIndex)
	if !ok || v.Value == nil {
		return nil
	}
	h, _ := v.Value.(map[string]string)
	return h
}

// Source reports the provenance of name's value at list index keyIndex.
func (c *Config) Source(name string, keyIndex int) Source {
	v, ok := c.slot(name, keyIndex)
	if !ok {
		return SourceNone
	}
	return v.Source
}

// Valid reports whether option name is usable under the active command.
func (c *Config) Valid(name string) bool {
	st, ok := c.options[name]
	return ok && st.Valid
}

// GroupIndexes returns the resolved keys (1-based, in index-map order) for
// groupName, for iterating a group's active instances.
func (c *Config) GroupIndexes(groupName string) []int {
	gs, ok := c.groups[groupName]
	if !ok {
		return nil
	}
	g, ok := c.rt.Group(groupName)
	if !ok {
		return nil
	}
	out := make([]int, len(gs.IndexMap))
	for i, k := range gs.IndexMap {
		out[i] = userKeyForKeyIndex(g, k)
	}
	return out
}

// Group returns the resolved GroupConfigState for groupName.
func (c *Config) Group(groupName string) (GroupConfigState, bool) {
	gs, ok := c.groups[groupName]
	if !ok {
		return GroupConfigState{}, false
	}
	return *gs, true
}

// Option returns the resolved OptionConfigState for name.
func (c *Config) Option(name string) (OptionConfigState, bool) {
	st, ok := c.options[name]
	if !ok {
		return OptionConfigState{}, false
	}
	return *st, true
}

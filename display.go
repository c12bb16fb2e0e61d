package confcore

import "strconv"

// formatKeyIdxName renders an option's user-visible, key-indexed display
// name. For a grouped option the group prefix in Name is replaced by
// prefix+key, e.g. "repo-path" at key index 2 (user key 3) becomes
// "repo3-path". Ungrouped options are returned as-is.
func formatKeyIdxName(rt *RuleTable, opt *OptionRule, keyIndex int) string {
	if opt.Group == "" {
		return opt.Name
	}
	g, ok := rt.Group(opt.Group)
	if !ok {
		assertError("option %s references undeclared group %s", opt.ID, opt.Group)
	}
	userKey := userKeyForKeyIndex(g, keyIndex)
	return g.Name + strconv.Itoa(userKey) + opt.Name[len(g.Name):]
}

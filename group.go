package confcore

import "strconv"

// GroupState is the per-group result of group resolution: which sparse key
// indexes are actually in use, densely mapped, plus which of them is the
// default instance.
type GroupState struct {
	Valid              bool
	IndexTotal         int
	IndexMap           []int // ascending, 0-based key indexes
	IndexDefault       int   // position within IndexMap
	IndexDefaultExists bool
}

// enforceCommandValidity sweeps every option after all sources are merged:
// a slot set on the command line for an option the active command does not
// accept is a hard error; the same slot from env or config is silently
// cleared. Runs before group resolution so a cleared slot cannot claim a
// key index.
func enforceCommandValidity(rt *RuleTable, ps *parseState) error {
	for i := range rt.Options() {
		opt := &rt.Options()[i]
		if rt.ValidForCommand(opt.ID, ps.commandID) {
			continue
		}
		po := ps.options[opt.ID]
		if po == nil {
			continue
		}
		for k, v := range po.slots {
			if !v.Found {
				continue
			}
			if v.Source == SourceParam {
				return errOptionInvalid("option '%s' not valid for command '%s'", formatKeyIdxName(rt, opt, k), ps.commandID)
			}
			*v = ParseOptionValue{}
		}
	}
	return nil
}

// resolveGroups computes a GroupState for every declared group.
func resolveGroups(rt *RuleTable, ps *parseState) (map[string]*GroupState, error) {
	result := make(map[string]*GroupState, len(rt.groups))

	for _, g := range rt.groups {
		used := map[int]bool{}
		for _, opt := range rt.Options() {
			if opt.Group != g.Name {
				continue
			}
			po := ps.options[opt.ID]
			if po == nil {
				continue
			}
			for _, k := range po.usedKeyIndexes() {
				if g.ReservedKey1 && k == 0 {
					continue
				}
				used[k] = true
			}
		}

		indexMap := make([]int, 0, len(used))
		for k := range used {
			indexMap = append(indexMap, k)
		}
		sortInts(indexMap)

		// no instance configured: keep one slot so defaults still land
		if len(indexMap) == 0 {
			if g.ReservedKey1 {
				indexMap = []int{1}
			} else {
				indexMap = []int{0}
			}
		}

		gs := &GroupState{
			Valid:      true,
			IndexTotal: len(indexMap),
			IndexMap:   indexMap,
		}

		if g.AlwaysHasIndex {
			gs.IndexDefaultExists = true
		} else if g.DefaultSelect != "" && rt.ValidForCommand(g.DefaultSelect, ps.commandID) {
			gs.IndexDefaultExists = true
		}

		if g.DefaultSelect != "" {
			if po := ps.options[g.DefaultSelect]; po != nil {
				if v, ok := po.get(0); ok && v.Found && !v.Reset && len(v.Values) > 0 {
					userKey, err := strconv.Atoi(v.Values[0])
					if err != nil {
						return nil, errOptionInvalidValue("'%s' is not a valid integer for '%s' option", v.Values[0], g.DefaultSelect)
					}
					wantKeyIndex := keyIndexForUserKey(g, userKey)
					pos := indexOf(indexMap, wantKeyIndex)
					if pos < 0 {
						return nil, errOptionInvalidValue("key '%d' is not valid for '%s' option", userKey, g.DefaultSelect)
					}
					gs.IndexDefault = pos
				}
			}
		}

		result[g.Name] = gs
	}

	return result, nil
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

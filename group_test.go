package confcore

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveGroupsSparseIndexes(t *testing.T) {
	ps := newTestState()
	ps.commandID = "backup"
	setParamAt(ps, "pg-path", 1, "/db")
	setParamAt(ps, "pg-path", 3, "/alt")
	setParamAt(ps, "pg-port", 7, "5444")

	groups, err := resolveGroups(DefaultRuleTable, ps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pg := groups["pg"]
	if diff := cmp.Diff([]int{1, 3, 7}, pg.IndexMap); diff != "" {
		t.Errorf("pg index map (-want +got):\n%s", diff)
	}
	if pg.IndexTotal != 3 {
		t.Errorf("IndexTotal = %d", pg.IndexTotal)
	}
	if !pg.IndexDefaultExists {
		t.Error("pg group always has a default index")
	}
}

func TestResolveGroupsEmptyGroupKeepsOneSlot(t *testing.T) {
	groups, err := resolveGroups(DefaultRuleTable, newTestState())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{1}, groups["pg"].IndexMap); diff != "" {
		t.Errorf("empty pg group starts at the reserved key-1 slot (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0}, groups["repo"].IndexMap); diff != "" {
		t.Errorf("empty repo group (-want +got):\n%s", diff)
	}
}

func TestResolveGroupsResetExcludesIndex(t *testing.T) {
	ps := newTestState()
	setParamAt(ps, "pg-path", 1, "/db")
	v := ps.option("pg-path").at(3)
	v.Found = true
	v.Reset = true
	v.Source = SourceParam

	groups, err := resolveGroups(DefaultRuleTable, ps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{1}, groups["pg"].IndexMap); diff != "" {
		t.Errorf("reset slot must not claim an index (-want +got):\n%s", diff)
	}
}

func TestResolveGroupsDefaultSelect(t *testing.T) {
	ps := newTestState()
	setParamAt(ps, "repo-path", 0, "/r1")
	setParamAt(ps, "repo-path", 1, "/r2")
	setParam(ps, "repo", "2")

	groups, err := resolveGroups(DefaultRuleTable, ps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if groups["repo"].IndexDefault != 1 {
		t.Errorf("repo=2 should select dense slot 1, got %d", groups["repo"].IndexDefault)
	}

	// selecting a key that is not configured is an error
	ps = newTestState()
	setParamAt(ps, "repo-path", 1, "/r2")
	setParam(ps, "repo", "3")
	_, err = resolveGroups(DefaultRuleTable, ps)
	if err == nil || kindOf(t, err) != KindOptionInvalidValue {
		t.Fatalf("unconfigured default key: got %v", err)
	}
	if want := "key '3' is not valid for 'repo' option"; err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}

	ps = newTestState()
	setParam(ps, "repo", "x")
	if _, err = resolveGroups(DefaultRuleTable, ps); err == nil || kindOf(t, err) != KindOptionInvalidValue {
		t.Errorf("non-integer default key: got %v", err)
	}
}

func TestEnforceCommandValidity(t *testing.T) {
	// argv-sourced invalid option is fatal and names the key-indexed form
	ps := newTestState()
	ps.commandID = "info"
	setParam(ps, "delta")
	err := enforceCommandValidity(DefaultRuleTable, ps)
	if err == nil || kindOf(t, err) != KindOptionInvalid {
		t.Fatalf("argv-sourced invalid option: got %v", err)
	}
	if !strings.Contains(err.Error(), "option 'delta' not valid for command 'info'") {
		t.Errorf("message = %q", err.Error())
	}

	// env/config-sourced invalid options are silently cleared
	ps = newTestState()
	ps.commandID = "info"
	v := ps.option("delta").at(0)
	v.Found = true
	v.Source = SourceConfig
	v.Values = []string{"y"}
	if err := enforceCommandValidity(DefaultRuleTable, ps); err != nil {
		t.Fatalf("config-sourced invalid option must not error: %v", err)
	}
	if v, _ := ps.option("delta").get(0); v.Found {
		t.Errorf("config-sourced invalid option not cleared: %+v", v)
	}
}

func TestEnforceCommandValidityGroupedName(t *testing.T) {
	ps := newTestState()
	ps.commandID = "info"
	setParamAt(ps, "repo-retention-full", 1, "2")
	err := enforceCommandValidity(DefaultRuleTable, ps)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "'repo2-retention-full'") {
		t.Errorf("message should use the key-indexed name: %q", err.Error())
	}
}

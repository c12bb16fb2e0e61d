package confcore

import "testing"

func importTestEnv(t *testing.T, command string, environ []string) (*parseState, *memSink, error) {
	t.Helper()
	sink := &memSink{}
	ps := newParseState(DefaultRuleTable, sink)
	ps.commandID = command
	err := importEnv(DefaultRuleTable, environ, ps)
	return ps, sink, err
}

func TestImportEnvBasic(t *testing.T) {
	ps, _, err := importTestEnv(t, "backup", []string{
		"PATH=/usr/bin",
		"PGBACKREST_STANZA=demo",
		"PGBACKREST_LOG_LEVEL_CONSOLE=debug",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := ps.option("stanza").get(0)
	if !v.Found || v.Source != SourceEnv || v.Values[0] != "demo" {
		t.Errorf("stanza from env: %+v", v)
	}
	if v, _ := ps.option("log-level-console").get(0); v == nil || v.Values[0] != "debug" {
		t.Errorf("underscore-to-dash mangling failed: %+v", v)
	}
}

func TestImportEnvGroupedKey(t *testing.T) {
	ps, _, err := importTestEnv(t, "backup", []string{"PGBACKREST_PG2_PATH=/db2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := ps.option("pg-path").get(2); v == nil || v.Values[0] != "/db2" {
		t.Errorf("pg2-path from env: %+v", v)
	}
}

func TestImportEnvRejectionsWarn(t *testing.T) {
	ps, sink, err := importTestEnv(t, "backup", []string{
		"PGBACKREST_BOGUS=1",
		"PGBACKREST_NO_DELTA=y",
		"PGBACKREST_RESET_DELTA=y",
		"PGBACKREST_CONFIG=/x",
		"PGBACKREST_RECOVERY_OPTION=a=b",
	})
	if err != nil {
		t.Fatalf("warn-and-skip entries must not error: %v", err)
	}
	if !sink.contains("unknown option") {
		t.Error("missing unknown-option warning")
	}
	if !sink.contains("negate") || !sink.contains("reset") {
		t.Errorf("missing negate/reset warnings: %v", sink.warnings)
	}
	if !sink.contains("command-line only") {
		t.Error("missing command-line-only warning")
	}
	if !sink.contains("not valid for command") {
		t.Error("missing not-valid-for-command warning")
	}
	for _, id := range []string{"delta", "config", "recovery-option"} {
		if v, ok := ps.option(id).get(0); ok && v.Found {
			t.Errorf("rejected env entry still set %s: %+v", id, v)
		}
	}
}

func TestImportEnvEmptyValueFatal(t *testing.T) {
	_, _, err := importTestEnv(t, "backup", []string{"PGBACKREST_STANZA="})
	if kindOf(t, err) != KindOptionInvalidValue {
		t.Errorf("empty env value: got %v", err)
	}
}

func TestImportEnvBooleans(t *testing.T) {
	ps, _, err := importTestEnv(t, "backup", []string{"PGBACKREST_DELTA=y", "PGBACKREST_ONLINE=n"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := ps.option("delta").get(0); v == nil || v.Negate {
		t.Errorf("delta=y: %+v", v)
	}
	if v, _ := ps.option("online").get(0); v == nil || !v.Negate {
		t.Errorf("online=n: %+v", v)
	}

	if _, _, err = importTestEnv(t, "backup", []string{"PGBACKREST_DELTA=true"}); kindOf(t, err) != KindOptionInvalidValue {
		t.Errorf("boolean env value other than y/n: got %v", err)
	}
}

func TestImportEnvMultiSplitsOnColon(t *testing.T) {
	ps, _, err := importTestEnv(t, "restore", []string{"PGBACKREST_DB_INCLUDE=db1:db2:db3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := ps.option("db-include").get(0)
	if len(v.Values) != 3 || v.Values[2] != "db3" {
		t.Errorf("colon split: %v", v.Values)
	}
}

func TestImportEnvNeverOverridesArgv(t *testing.T) {
	sink := &memSink{}
	ps := newParseState(DefaultRuleTable, sink)
	ps.commandID = "backup"
	setParam(ps, "stanza", "from-cli")
	if err := importEnv(DefaultRuleTable, []string{"PGBACKREST_STANZA=from-env"}, ps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := ps.option("stanza").get(0)
	if v.Source != SourceParam || v.Values[0] != "from-cli" {
		t.Errorf("env overrode argv: %+v", v)
	}
}

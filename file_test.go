package confcore

import (
	"strings"
	"testing"
)

func loadTestFiles(t *testing.T, ps *parseState, files map[string]string) (*IniDocument, error) {
	t.Helper()
	return loadFiles(DefaultRuleTable, ps, memStorage{files}, iniV1Parser{})
}

func TestLoadFilesNothingPresent(t *testing.T) {
	doc, err := loadTestFiles(t, newTestState(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc != nil {
		t.Error("expected a nil document when no source exists")
	}
}

func TestLoadFilesDefaultMain(t *testing.T) {
	doc, err := loadTestFiles(t, newTestState(), map[string]string{
		defaultConfigPath: "[global]\ncompress-type=lz4\n",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values, ok := doc.Get("global", "compress-type")
	if !ok || values[0] != "lz4" {
		t.Errorf("main file content missing: %v", values)
	}
}

func TestLoadFilesLegacyFallback(t *testing.T) {
	doc, err := loadTestFiles(t, newTestState(), map[string]string{
		origDefaultPath: "[global]\ncompress-type=zst\n",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values, _ := doc.Get("global", "compress-type"); len(values) == 0 || values[0] != "zst" {
		t.Errorf("legacy fallback not read: %v", values)
	}
}

func TestLoadFilesUserConfigMissingIsFatal(t *testing.T) {
	ps := newTestState()
	setParam(ps, "config", "/nonexistent/pgbackrest.conf")
	_, err := loadTestFiles(t, ps, nil)
	if err == nil || kindOf(t, err) != KindFormatError {
		t.Fatalf("missing user-supplied config: got %v", err)
	}
	if !strings.Contains(err.Error(), "/nonexistent/pgbackrest.conf") {
		t.Errorf("message should name the path: %q", err.Error())
	}
}

func TestLoadFilesConfigAloneSkipsInclude(t *testing.T) {
	ps := newTestState()
	setParam(ps, "config", "/one/file.conf")
	doc, err := loadTestFiles(t, ps, map[string]string{
		"/one/file.conf":                "[global]\ncompress-type=lz4\n",
		defaultIncludePath + "/a.conf": "[global]\nprocess-max=4\n",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := doc.Get("global", "process-max"); ok {
		t.Error("include directory should be skipped when only --config is given")
	}
}

func TestLoadFilesConfigPathRewritesDefaults(t *testing.T) {
	ps := newTestState()
	setParam(ps, "config-path", "/opt/pgbr")
	doc, err := loadTestFiles(t, ps, map[string]string{
		"/opt/pgbr/pgbackrest.conf": "[global]\ncompress-type=lz4\n",
		"/opt/pgbr/conf.d/10.conf":  "[global]\nprocess-max=4\n",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := doc.Get("global", "compress-type"); !ok {
		t.Error("rewritten main path not read")
	}
	if _, ok := doc.Get("global", "process-max"); !ok {
		t.Error("rewritten include path not read")
	}
}

func TestLoadFilesIncludeOrderingAndFilter(t *testing.T) {
	ps := newTestState()
	doc, err := loadTestFiles(t, ps, map[string]string{
		defaultIncludePath + "/b.conf":   "[global]\nprocess-max=8\n",
		defaultIncludePath + "/a.conf":   "[global]\nprocess-max=4\n",
		defaultIncludePath + "/skip.txt": "[global]\nprocess-max=99\n",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values, _ := doc.Get("global", "process-max")
	if len(values) != 2 || values[0] != "4" || values[1] != "8" {
		t.Errorf("include files must concatenate in lexicographic order: %v", values)
	}
}

func TestLoadFilesUserIncludeMissingIsFatal(t *testing.T) {
	ps := newTestState()
	setParam(ps, "config-include-path", "/nonexistent/conf.d")
	_, err := loadTestFiles(t, ps, nil)
	if err == nil || kindOf(t, err) != KindFormatError {
		t.Fatalf("missing user-supplied include dir: got %v", err)
	}
}

func TestLoadFilesNoConfigSkipsMainOnly(t *testing.T) {
	ps := newTestState()
	negateParam(ps, "config")
	doc, err := loadTestFiles(t, ps, map[string]string{
		defaultConfigPath:              "[global]\ncompress-type=lz4\n",
		defaultIncludePath + "/a.conf": "[global]\nprocess-max=4\n",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := doc.Get("global", "compress-type"); ok {
		t.Error("--no-config should skip the main file")
	}
	if _, ok := doc.Get("global", "process-max"); !ok {
		t.Error("--no-config should still read the include directory")
	}
}

func TestLoadFilesBadPartIsFatal(t *testing.T) {
	_, err := loadTestFiles(t, newTestState(), map[string]string{
		defaultConfigPath: "this line has no delimiter\n",
	})
	if err == nil {
		t.Fatal("malformed configuration part should fail")
	}
}

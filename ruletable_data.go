package confcore

// This file is the concrete, hand-declared rule table for a representative
// slice of the pgbackrest option surface: enough commands, groups, options,
// depends and aliases to drive the engine end to end without carrying the
// full ~150-option catalogue. It is package-level static data, built once
// at init time via NewRuleTable.

const envPrefix = "PGBACKREST_"

// defaultConfigPath / defaultIncludePath are the baked-in file locations;
// origDefaultPath is the legacy single-file location still honored when the
// main path is left at its default.
const (
	defaultConfigPath  = "/etc/pgbackrest/pgbackrest.conf"
	defaultIncludePath = "/etc/pgbackrest/conf.d"
	origDefaultPath    = "/etc/pgbackrest.conf"
)

func defR(commandID, value string) optionRecord {
	return optionRecord{tag: RecordDefault, commandID: commandID, defaultValue: value}
}

func rangeR(commandID string, min, max int64) optionRecord {
	return optionRecord{tag: RecordAllowRange, commandID: commandID, rangeMin: min, rangeMax: max}
}

func listR(commandID string, values ...string) optionRecord {
	return optionRecord{tag: RecordAllowList, commandID: commandID, allowList: values}
}

func depR(commandID, dependOption string, allow ...string) optionRecord {
	return optionRecord{tag: RecordDepend, commandID: commandID, dependOption: dependOption, dependAllow: allow}
}

// reqR records a per-command Required override; rangeMin doubles as the
// bool payload (0=false, 1=true) since optionRecord has no dedicated bool
// field and Required is the only tag that needs one.
func reqR(commandID string, required bool) optionRecord {
	var v int64
	if required {
		v = 1
	}
	return optionRecord{tag: RecordRequired, commandID: commandID, rangeMin: v}
}

// needsStanzaPG lists the commands that operate against an actual database
// cluster, and therefore require `stanza`. A primary `pg-path` is required
// only by stanza-create and stanza-upgrade (see the pg-path records below).
var needsStanzaPG = []string{
	"backup", "restore", "archive-push", "archive-get", "expire",
	"check", "stanza-create", "stanza-upgrade", "stanza-delete",
}

func requiredFor(commandIDs []string) []optionRecord {
	recs := make([]optionRecord, len(commandIDs))
	for i, c := range commandIDs {
		recs[i] = reqR(c, true)
	}
	return recs
}

var ruleCommands = []CommandRule{
	{ID: "backup", Name: "backup", ValidRoles: RoleDefault | RoleLocal | RoleRemote, ParametersAllowed: false},
	{ID: "restore", Name: "restore", ValidRoles: RoleDefault | RoleLocal | RoleRemote, ParametersAllowed: false},
	{ID: "archive-push", Name: "archive-push", ValidRoles: RoleDefault | RoleAsync, ParametersAllowed: true},
	{ID: "archive-get", Name: "archive-get", ValidRoles: RoleDefault | RoleAsync, ParametersAllowed: true},
	{ID: "expire", Name: "expire", ValidRoles: RoleDefault, ParametersAllowed: false},
	{ID: "check", Name: "check", ValidRoles: RoleDefault, ParametersAllowed: false},
	{ID: "info", Name: "info", ValidRoles: RoleDefault, ParametersAllowed: false},
	{ID: "stanza-create", Name: "stanza-create", ValidRoles: RoleDefault, ParametersAllowed: false},
	{ID: "stanza-upgrade", Name: "stanza-upgrade", ValidRoles: RoleDefault, ParametersAllowed: false},
	{ID: "stanza-delete", Name: "stanza-delete", ValidRoles: RoleDefault, ParametersAllowed: false},
	{ID: "repo-ls", Name: "repo-ls", ValidRoles: RoleDefault, ParametersAllowed: true},
	{ID: "version", Name: "version", ValidRoles: RoleDefault, ParametersAllowed: false},
	{ID: "help", Name: "help", ValidRoles: RoleDefault, ParametersAllowed: true},
}

var ruleGroups = []GroupRule{
	// Key index 0 of the pg group is reserved; key 1 keeps its historical
	// meaning as the primary cluster. TODO: drop the reservation once a
	// migration for existing key-1 configurations exists.
	{Name: "pg", DefaultSelect: "pg", ReservedKey1: true, AlwaysHasIndex: true},
	{Name: "repo", DefaultSelect: "repo", ReservedKey1: false, AlwaysHasIndex: false},
}

var ruleOptions = []OptionRule{
	// --- pg group ---
	{
		ID: "pg-path", Name: "pg-path", Type: OptionTypePath, Section: SectionGlobal, Group: "pg",
		records: requiredFor([]string{"stanza-create", "stanza-upgrade"}),
	},
	{
		ID: "pg-port", Name: "pg-port", Type: OptionTypeInteger, Section: SectionGlobal, Group: "pg",
		records: []optionRecord{defR("", "5432"), rangeR("", 1, 65535)},
	},
	{
		ID: "pg-socket-path", Name: "pg-socket-path", Type: OptionTypePath, Section: SectionGlobal, Group: "pg",
	},
	{
		ID: "pg-user", Name: "pg-user", Type: OptionTypeString, Section: SectionGlobal, Group: "pg",
		records: []optionRecord{defR("", "postgres")},
	},
	// scalar that picks which pg key is the default instance
	{ID: "pg", Name: "pg", Type: OptionTypeInteger, Section: SectionGlobal},

	// --- repo group ---
	{
		ID: "repo-path", Name: "repo-path", Type: OptionTypePath, Section: SectionGlobal, Group: "repo",
		records: []optionRecord{defR("", "/var/lib/pgbackrest")},
	},
	{
		ID: "repo-type", Name: "repo-type", Type: OptionTypeString, Section: SectionGlobal, Group: "repo",
		records: []optionRecord{defR("", "posix"), listR("", "posix", "s3", "azure", "gcs")},
	},
	{
		ID: "repo-cipher-type", Name: "repo-cipher-type", Type: OptionTypeString, Section: SectionGlobal, Group: "repo",
		records: []optionRecord{defR("", "none"), listR("", "none", "aes-256-cbc")},
	},
	{
		ID: "repo-cipher-pass", Name: "repo-cipher-pass", Type: OptionTypeString, Section: SectionGlobal, Group: "repo",
		Secure:  true,
		records: []optionRecord{depR("", "repo-cipher-type", "aes-256-cbc")},
	},
	{
		ID: "repo-retention-full", Name: "repo-retention-full", Type: OptionTypeInteger, Section: SectionGlobal, Group: "repo",
		records: []optionRecord{rangeR("", 1, 9999999)},
	},
	// scalar that picks which repo key is the default instance
	{ID: "repo", Name: "repo", Type: OptionTypeInteger, Section: SectionGlobal},

	// --- ungrouped ---
	{
		ID: "stanza", Name: "stanza", Type: OptionTypeString, Section: SectionStanza,
		records: requiredFor(needsStanzaPG),
	},
	{ID: "config", Name: "config", Type: OptionTypeString, Section: SectionCommandLineOnly},
	{ID: "config-path", Name: "config-path", Type: OptionTypeString, Section: SectionCommandLineOnly},
	{ID: "config-include-path", Name: "config-include-path", Type: OptionTypeString, Section: SectionCommandLineOnly},
	{
		ID: "buffer-size", Name: "buffer-size", Type: OptionTypeSize, Section: SectionGlobal,
		records: []optionRecord{defR("", "1048576"), rangeR("", 16384, 1073741824)},
	},
	{
		ID: "compress-type", Name: "compress-type", Type: OptionTypeString, Section: SectionGlobal,
		records: []optionRecord{defR("", "gz"), listR("", "none", "gz", "lz4", "zst")},
	},
	{
		ID: "archive-async", Name: "archive-async", Type: OptionTypeBoolean, Section: SectionGlobal,
		records: []optionRecord{defR("", "0")},
	},
	{
		ID: "spool-path", Name: "spool-path", Type: OptionTypePath, Section: SectionGlobal,
		records: []optionRecord{depR("", "archive-async", "1")},
	},
	{
		ID: "delta", Name: "delta", Type: OptionTypeBoolean, Section: SectionGlobal,
		records: []optionRecord{defR("", "0")},
	},
	{
		ID: "online", Name: "online", Type: OptionTypeBoolean, Section: SectionGlobal,
		records: []optionRecord{defR("", "1")},
	},
	{
		ID: "process-max", Name: "process-max", Type: OptionTypeInteger, Section: SectionGlobal,
		records: []optionRecord{defR("", "1"), rangeR("", 1, 96)},
	},
	{
		ID: "db-timeout", Name: "db-timeout", Type: OptionTypeTime, Section: SectionGlobal,
		records: []optionRecord{defR("", "1800")},
	},
	{
		ID: "log-level-console", Name: "log-level-console", Type: OptionTypeString, Section: SectionGlobal,
		records: []optionRecord{
			defR("", "warn"),
			listR("", "off", "error", "warn", "info", "detail", "debug", "trace"),
		},
	},
	{
		ID: "recovery-option", Name: "recovery-option", Type: OptionTypeHash, Section: SectionGlobal, Multi: true,
	},
	{
		ID: "db-include", Name: "db-include", Type: OptionTypeList, Section: SectionGlobal, Multi: true,
	},
}

// ruleAliases is the flat lookup table: ungrouped option names, the group
// default-select scalars, and deprecated aliases. Key-indexed grouped names
// (pg7-path, repo3-cipher-type, ...) are not listed here -- they resolve at
// runtime via RuleTable.resolveGroupedName.
var ruleAliases = map[string]OptionAlias{
	"stanza":              {OptionID: "stanza"},
	"config":              {OptionID: "config"},
	"config-path":         {OptionID: "config-path"},
	"config-include-path": {OptionID: "config-include-path"},
	"buffer-size":         {OptionID: "buffer-size"},
	"compress-type":       {OptionID: "compress-type"},
	"archive-async":       {OptionID: "archive-async"},
	"spool-path":          {OptionID: "spool-path"},
	"delta":               {OptionID: "delta"},
	"online":              {OptionID: "online"},
	"process-max":         {OptionID: "process-max"},
	"db-timeout":          {OptionID: "db-timeout"},
	"log-level-console":   {OptionID: "log-level-console"},
	"recovery-option":     {OptionID: "recovery-option"},
	"db-include":          {OptionID: "db-include"},
	"pg":                  {OptionID: "pg"},
	"repo":                {OptionID: "repo"},

	// db-path is the historical name for the primary (key 1) pg-path.
	// A non-empty Deprecated string means "warn on use".
	"db-path": {OptionID: "pg-path", KeyIndex: 1, Deprecated: "db-path is deprecated, use pg1-path instead"},
}

// ruleValidCommands restricts a handful of options to the commands that
// actually consume them; every option id absent here is valid everywhere.
var ruleValidCommands = map[string][]string{
	"delta":               {"backup", "restore"},
	"archive-async":       {"archive-push", "archive-get", "backup"},
	"spool-path":          {"archive-push", "archive-get", "backup"},
	"online":              {"backup"},
	"process-max":         {"backup", "restore", "archive-push", "archive-get", "expire", "check"},
	"db-timeout":          {"backup", "restore", "check"},
	"repo-retention-full": {"backup", "expire"},
	"recovery-option":     {"restore"},
	"db-include":          {"restore"},
}

// DefaultRuleTable is the rule table exercised by Parse and by this
// package's tests.
var DefaultRuleTable = NewRuleTable(ruleCommands, ruleGroups, ruleOptions, ruleAliases, ruleValidCommands)

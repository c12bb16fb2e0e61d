package confcore

import (
	"strings"

	"gopkg.in/ini.v1"
)

// IniDocument is the parsed view of a configuration document: sections in
// file order, each mapping key -> one or more values.
type IniDocument struct {
	order    []string // section names, in file order, "" first
	sections map[string]map[string][]string
	keyOrder map[string][]string // section -> key names in file order
}

// Sections returns section names in file order (the unnamed leading
// section, if any, is named "").
func (d *IniDocument) Sections() []string { return d.order }

// Get returns every value recorded for (section, key) -- more than one
// entry means either a repeated "key=" line or a "key[]=" multi-value
// declaration; the merger decides which interpretation applies based on
// the option's Multi flag.
func (d *IniDocument) Get(section, key string) ([]string, bool) {
	sec, ok := d.sections[section]
	if !ok {
		return nil, false
	}
	values, ok := sec[key]
	return values, ok
}

// Keys returns the key names present in section, in file order -- the
// merger relies on this order to decide which of two duplicate aliases was
// seen first for its error message.
func (d *IniDocument) Keys(section string) []string {
	return d.keyOrder[section]
}

// INIParser turns raw file bytes into an IniDocument.
type INIParser interface {
	Parse(data []byte) (*IniDocument, error)
}

// iniV1Parser is the default INIParser, backed by gopkg.in/ini.v1. The
// AllowShadows load option preserves repeated "key=value" lines under one
// section (as shadow values) rather than silently overwriting. A "key[]"
// spelling folds into "key" so both multi-value forms read the same.
type iniV1Parser struct{}

func (iniV1Parser) Parse(data []byte) (*IniDocument, error) {
	if len(data) == 0 {
		return &IniDocument{sections: map[string]map[string][]string{}, keyOrder: map[string][]string{}}, nil
	}
	cfg, err := ini.LoadSources(ini.LoadOptions{
		AllowShadows:           true,
		AllowNonUniqueSections: true,
	}, data)
	if err != nil {
		return nil, errFormatError("ini: %s", err)
	}

	doc := &IniDocument{
		sections: make(map[string]map[string][]string),
		keyOrder: make(map[string][]string),
	}
	for _, sec := range cfg.Sections() {
		name := sec.Name()
		if name == ini.DefaultSection {
			name = ""
		}
		if _, ok := doc.sections[name]; !ok {
			doc.order = append(doc.order, name)
			doc.sections[name] = make(map[string][]string)
		}
		for _, key := range sec.Keys() {
			values := key.ValueWithShadows()
			if len(values) == 0 {
				values = []string{key.String()}
			}
			keyName := strings.TrimSuffix(key.Name(), "[]")
			if _, exists := doc.sections[name][keyName]; !exists {
				doc.keyOrder[name] = append(doc.keyOrder[name], keyName)
			}
			doc.sections[name][keyName] = append(doc.sections[name][keyName], values...)
		}
	}
	return doc, nil
}

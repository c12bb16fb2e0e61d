package confcore

import (
	"bytes"
	"errors"
	"path"
	"regexp"
	"sort"
)

// includeFilePattern selects which entries of the include directory are
// loaded.
var includeFilePattern = regexp.MustCompile(`.+\.conf$`)

// loadFiles locates, reads and concatenates the main configuration file and
// the include directory, returning the parsed result. ps must already have
// argv merged in: --config, --config-path and --config-include-path are
// command-line-only, so argv is the only source that can ever set them.
// Returns (nil, nil) when no source was loaded.
//
// Path resolution: --config-path rewrites both baked-in defaults, keeping
// their basenames. --no-config skips the main file entirely. --config alone
// (without --config-path or --config-include-path) also skips the include
// directory, since the user asked for exactly one file. A user-supplied
// path that is missing is fatal; a missing default is silent, and the
// legacy single-file location is tried before giving up on the main file.
func loadFiles(rt *RuleTable, ps *parseState, storage Storage, parser INIParser) (*IniDocument, error) {
	configDefault := defaultConfigPath
	includeDefault := defaultIncludePath

	configPath, configPathSet := stringOpt(ps, "config-path")
	if configPathSet {
		configDefault = path.Join(configPath, path.Base(defaultConfigPath))
		includeDefault = path.Join(configPath, path.Base(defaultIncludePath))
	}

	skipMain := optNegated(ps, "config")

	configArg, configArgSet := stringOpt(ps, "config")
	includeArg, includeArgSet := stringOpt(ps, "config-include-path")

	mainPath := configDefault
	mainFatal := false
	if configArgSet {
		mainPath = configArg
		mainFatal = true
	}

	skipInclude := configArgSet && !configPathSet && !includeArgSet

	includeDir := includeDefault
	includeFatal := false
	if includeArgSet {
		includeDir = includeArg
		includeFatal = true
	}

	var buf bytes.Buffer

	if !skipMain {
		mainData, err := storage.Read(mainPath)
		switch {
		case err == nil:
			if err := validatePart(parser, mainData); err != nil {
				return nil, err
			}
			buf.Write(mainData)
		case errors.Is(err, ErrNotFound):
			if mainFatal {
				return nil, errFormatError("unable to open '%s': no such file or directory", mainPath)
			}
			if mainPath == configDefault {
				if origData, origErr := storage.Read(origDefaultPath); origErr == nil {
					if err := validatePart(parser, origData); err != nil {
						return nil, err
					}
					buf.Write(origData)
				}
			}
		default:
			return nil, err
		}
	}

	if !skipInclude {
		names, err := storage.List(includeDir, includeFilePattern)
		switch {
		case err == nil:
			sort.Strings(names)
			for _, name := range names {
				data, err := storage.Read(joinPath(includeDir, name))
				if err != nil {
					return nil, err
				}
				if err := validatePart(parser, data); err != nil {
					return nil, err
				}
				// separator only between parts, never leading
				if buf.Len() > 0 {
					buf.WriteByte('\n')
				}
				buf.Write(data)
			}
		case errors.Is(err, ErrNotFound):
			if includeFatal {
				return nil, errFormatError("unable to open include directory '%s': no such file or directory", includeDir)
			}
		default:
			return nil, err
		}
	}

	if buf.Len() == 0 {
		return nil, nil
	}
	return parser.Parse(buf.Bytes())
}

// validatePart checks that a single concatenation part parses on its own,
// so a syntax error is attributed to the file that contains it rather than
// to the combined document.
func validatePart(parser INIParser, data []byte) error {
	_, err := parser.Parse(data)
	return err
}

// stringOpt reads a command-line-only scalar option straight out of the
// in-progress parse state; the file loader runs before typed
// materialisation, so raw values are all it has.
func stringOpt(ps *parseState, optID string) (string, bool) {
	po, ok := ps.options[optID]
	if !ok {
		return "", false
	}
	v, ok := po.get(0)
	if !ok || !v.Found || v.Reset || v.Negate || len(v.Values) == 0 {
		return "", false
	}
	return v.Values[0], true
}

// optNegated reports whether the option was explicitly switched off
// (--no-<name>).
func optNegated(ps *parseState, optID string) bool {
	po, ok := ps.options[optID]
	if !ok {
		return false
	}
	v, ok := po.get(0)
	return ok && v.Found && v.Negate
}

package confcore

import "strings"

// parseArgv tokenises args (args[0] is the executable path, matching the
// os.Args convention) and populates ps with every long-option sighting plus
// the resolved command, role, help flag and parameter list.
//
// The first non-option positional is the command, optionally suffixed
// ":role". Later positionals become command parameters. No positionals at
// all means the user gets help.
func parseArgv(rt *RuleTable, args []string, ps *parseState) error {
	if len(args) == 0 {
		return errCommandRequired("no command-line supplied")
	}
	ps.exe = args[0]
	rest := args[1:]

	var commandToken string
	var haveCommand bool
	var params []string

	i := 0
	for i < len(rest) {
		tok := rest[i]
		switch {
		case tok == "--":
			i++
			for ; i < len(rest); i++ {
				if !haveCommand {
					commandToken = rest[i]
					haveCommand = true
				} else {
					params = append(params, rest[i])
				}
			}

		case strings.HasPrefix(tok, "--"):
			consumed, err := parseLongOption(rt, tok[2:], rest[i+1:], ps)
			if err != nil {
				return err
			}
			i += 1 + consumed

		default:
			if !haveCommand {
				commandToken = tok
				haveCommand = true
			} else {
				params = append(params, tok)
			}
			i++
		}
	}

	if !haveCommand {
		ps.commandID = "help"
		ps.commandRole = RoleDefault
		ps.help = true
		return nil
	}

	name, role, err := splitCommandRole(commandToken)
	if err != nil {
		return err
	}
	cmd, ok := rt.Command(name)
	if !ok {
		return errCommandInvalid("invalid command '%s'", name)
	}
	if !cmd.ValidRoles.has(role) {
		return errCommandInvalid("invalid role for command '%s'", name)
	}
	ps.commandID = cmd.ID
	ps.commandRole = role
	if cmd.ID == "help" {
		ps.help = true
	}

	if len(params) > 0 && !cmd.ParametersAllowed {
		return errParamInvalid("command '%s' does not allow parameters", name)
	}
	ps.paramList = params
	return nil
}

// splitCommandRole splits "command" or "command:role".
func splitCommandRole(token string) (string, RoleMask, error) {
	name, roleStr, hasRole := strings.Cut(token, ":")
	if !hasRole {
		return name, RoleDefault, nil
	}
	role, ok := roleNames[roleStr]
	if !ok {
		return "", 0, errCommandInvalid("invalid role '%s' for command '%s'", roleStr, name)
	}
	return name, role, nil
}

// parseLongOption handles one "--name", "--name=value", "--no-name",
// "--reset-name" token (the "--" prefix already stripped), consuming a
// following bare-value token when the option requires one and none was
// given via "=". It returns how many of the following tokens it consumed.
func parseLongOption(rt *RuleTable, body string, following []string, ps *parseState) (int, error) {
	name, value, hasValue := strings.Cut(body, "=")

	alias, ok := rt.ResolveName(name)
	if !ok {
		return 0, errOptionInvalid("invalid option '--%s'", name)
	}
	opt, ok := rt.Option(alias.OptionID)
	if !ok {
		assertError("alias %q resolves to undeclared option %q", name, alias.OptionID)
	}

	if alias.Deprecated != "" {
		ps.warnDeprecated(alias.Deprecated)
	}

	if opt.Secure {
		return 0, errOptionInvalid("option '%s' is not allowed on the command-line -- specify via environment variable or configuration file instead", opt.Name)
	}

	if alias.Reset {
		if hasValue {
			return 0, errOptionInvalid("option '%s' does not allow a value to be specified (reset)", name)
		}
		if alias.Negate {
			return 0, errOptionInvalid("option '%s' cannot combine negate and reset", name)
		}
		po := ps.option(alias.OptionID)
		v := po.at(alias.KeyIndex)
		v.Found = true
		v.Reset = true
		v.Source = SourceParam
		return 0, nil
	}

	// Negation takes no value, for booleans and non-booleans alike: a
	// negated string-ish option (e.g. --no-config) records "explicitly
	// switched off" rather than a value.
	if alias.Negate || opt.Type == OptionTypeBoolean {
		if hasValue && alias.Negate {
			return 0, errOptionInvalid("option '%s' does not allow a value with negation", name)
		}
		if hasValue {
			return 0, errOptionInvalid("option '%s' is a boolean and takes no value", name)
		}
		po := ps.option(alias.OptionID)
		v := po.at(alias.KeyIndex)
		if v.Found && v.Source == SourceParam {
			return 0, errOptionInvalid("option '%s' cannot be set multiple times", name)
		}
		v.Found = true
		v.Negate = alias.Negate
		v.Source = SourceParam
		if opt.Type == OptionTypeBoolean {
			v.Values = []string{"1"}
		}
		return 0, nil
	}

	consumed := 0
	if !hasValue {
		if len(following) == 0 || strings.HasPrefix(following[0], "--") {
			return 0, errOptionInvalid("option '%s' requires a value", name)
		}
		value = following[0]
		consumed = 1
	}

	po := ps.option(alias.OptionID)
	v := po.at(alias.KeyIndex)
	if opt.Multi {
		if v.Found && v.Source == SourceParam {
			v.Values = append(v.Values, value)
		} else {
			v.Found = true
			v.Source = SourceParam
			v.Values = []string{value}
		}
	} else {
		if v.Found && v.Source == SourceParam {
			return 0, errOptionInvalid("option '%s' cannot be set multiple times", name)
		}
		v.Found = true
		v.Source = SourceParam
		v.Values = []string{value}
	}
	return consumed, nil
}

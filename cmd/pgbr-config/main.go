// Command pgbr-config resolves a pgbackrest-style command line against the
// environment and configuration files, then prints the materialised result.
// It exists to exercise the resolution engine end to end; it does not run
// any backup commands itself.
package main

import (
	"errors"
	"fmt"
	"os"

	confcore "github.com/pgguru/pgbackrest-config"
)

// exitCode maps the error taxonomy onto stable non-zero process exits.
func exitCode(err error) int {
	var pe confcore.ParseError
	if errors.As(err, &pe) {
		return 30 + int(pe.Kind())
	}
	return 1
}

func main() {
	cfg, err := confcore.Parse(os.Args, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(exitCode(err))
	}

	fmt.Printf("command: %s", cfg.Command)
	if cfg.CommandRole != confcore.RoleDefault {
		fmt.Printf(" (role %d)", cfg.CommandRole)
	}
	fmt.Println()
	if len(cfg.ParamList) > 0 {
		fmt.Printf("params: %v\n", cfg.ParamList)
	}
	if stanza := cfg.String("stanza", 0); stanza != "" {
		fmt.Printf("stanza: %s\n", stanza)
	}

	for _, group := range []string{"pg", "repo"} {
		gs, ok := cfg.Group(group)
		if !ok {
			continue
		}
		fmt.Printf("%s instances: %v (default slot %d)\n", group, cfg.GroupIndexes(group), gs.IndexDefault)
	}
	for i, key := range cfg.GroupIndexes("pg") {
		if p := cfg.String("pg-path", i); p != "" {
			fmt.Printf("  pg%d-path: %s\n", key, p)
		}
	}
	for i, key := range cfg.GroupIndexes("repo") {
		fmt.Printf("  repo%d-type: %s path: %s\n", key, cfg.String("repo-type", i), cfg.String("repo-path", i))
	}

	if _, ok := cfg.Bytes("buffer-size", 0); ok {
		fmt.Printf("buffer-size: %s (source %s)\n", cfg.BytesHuman("buffer-size", 0), cfg.Source("buffer-size", 0))
	}
	if ms, ok := cfg.Millis("db-timeout", 0); ok {
		fmt.Printf("db-timeout: %dms\n", ms)
	}
}

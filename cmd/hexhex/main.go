// Command hexhex is a thin front end over package hex: it loads a
// config file, opens the backend it names to confirm it resolves, and
// reports the configuration along with every registered backend and
// oracle name. There is no program-text parser in
// this tree (see SPEC_FULL's package map), so this command stops short
// of actually running a program; wiring a parser's output into
// hex.New's (reg, rules) arguments is the next command to grow here.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hexhex/core/backend"
	"github.com/hexhex/core/hex/config"
	"github.com/hexhex/core/oracle"
)

func main() {
	cfgPath := flag.String("config", "", "path to a hex.yaml config file (defaults to config.Default())")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hexhex: loading %s: %v\n", *cfgPath, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if _, err := backend.Open(cfg.Backend, cfg.BackendConfig); err != nil {
		fmt.Fprintf(os.Stderr, "hexhex: opening backend %q: %v\n", cfg.Backend, err)
		os.Exit(1)
	}

	fmt.Printf("heuristic:       %s\n", cfg.Heuristic)
	fmt.Printf("backend:         %s (available: %v)\n", cfg.Backend, backend.Names())
	fmt.Printf("registered oracles: %v\n", oracle.Names())
	fmt.Printf("log level:       %s\n", cfg.LogLevel)
}

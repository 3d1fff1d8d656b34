package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"
)

// initCmd writes a starter configuration file.
type initCmd struct {
	force bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "write a starter configuration file" }
func (*initCmd) Usage() string {
	return `cdp init [-f]

  Writes the default settings to the configuration file (see -config) so they
  can be edited. Refuses to overwrite an existing file unless -f is given.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "f", false, "Overwrite an existing configuration file.")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := os.Stat(*configFile); err == nil && !c.force {
		fmt.Fprintf(os.Stderr, "%s already exists, use -f to overwrite\n", *configFile)
		return subcommands.ExitFailure
	}

	s, err := LoadSettings(os.DevNull) // defaults only
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(*configFile, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", *configFile, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Wrote default settings to %s\n", *configFile)
	return subcommands.ExitSuccess
}

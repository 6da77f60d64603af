// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package main implements the asn2eth compiler: it translates an ASN.1
// schema into the C source of a protocol dissector.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/maloquacious/semver"
	"github.com/playbymail/asn2eth/internal/config"
	"github.com/spf13/cobra"
)

var (
	version = semver.Version{
		Major: 0,
		Minor: 3,
		Patch: 2,
		Build: semver.Commit(),
	}
	globalConfig *config.Config
)

// exit codes: 0 success, 2 argument error, 1 any fatal compile error.
const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func main() {
	// if version is on the command line, show it and exit
	for _, arg := range os.Args {
		if arg == "-version" || arg == "--version" {
			fmt.Printf("%s\n", version.Short())
			return
		} else if arg == "-build-info" || arg == "--build-info" {
			fmt.Printf("%s\n", version.String())
			return
		} else if arg == "-h" || arg == "-?" || arg == "--help" {
			_ = cmdRoot.Usage()
			os.Exit(exitUsage)
		}
	}
	log.SetFlags(log.Lshortfile | log.Ltime)

	const configFileName = "asn2eth.json"
	// set the debug flag only if there is a configuration file to debug
	debugConfigFile := false
	if sb, err := os.Stat(configFileName); err == nil && sb.Mode().IsRegular() {
		debugConfigFile = true
	}
	cfg, err := config.Load(configFileName, debugConfigFile)
	if err != nil && debugConfigFile {
		log.Printf("[config] %q: %v\n", configFileName, err)
	}

	os.Exit(Execute(cfg))
}

func Execute(cfg *config.Config) int {
	cmdRoot.AddCommand(cmdVersion)
	cmdRoot.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	if cfg == nil || !cfg.AllowConfig {
		globalConfig = config.Default()
	} else {
		globalConfig = cfg
	}

	if err := cmdRoot.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			return exitUsage
		}
		return exitFatal
	}
	return exitOK
}

// usageError marks argument problems so main can exit 2 instead of 1.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

var cmdRoot = &cobra.Command{
	Use:           "asn2eth [flags] file.asn",
	Short:         "compile an ASN.1 schema into dissector C source",
	Long:          `Compile an ASN.1 module into the C fragments of a protocol dissector.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return &usageError{msg: "exactly one ASN.1 input file is required"}
		}
		return nil
	},
	RunE: runCompile,
}

// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/playbymail/asn2eth/cerrs"
	"github.com/playbymail/asn2eth/internal/conform"
	"github.com/playbymail/asn2eth/internal/emit"
	"github.com/playbymail/asn2eth/internal/parser"
	"github.com/playbymail/asn2eth/internal/registry"
	"github.com/playbymail/asn2eth/internal/splice"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var argsCompile struct {
	ber       bool
	legacyAPI bool
	proto     string
	output    string
	conform   []string
	exports   bool
	splice    string
	debug     string
}

func init() {
	cmdRoot.Flags().BoolVarP(&argsCompile.ber, "ber", "b", false, "use BER encoding (default PER)")
	cmdRoot.Flags().BoolVarP(&argsCompile.legacyAPI, "legacy-api", "X", false, "generate for the legacy dissector API")
	cmdRoot.Flags().StringVarP(&argsCompile.proto, "proto", "p", "", "protocol name (default: input basename)")
	cmdRoot.Flags().StringVarP(&argsCompile.output, "output", "o", "", "output file stem (default: protocol name)")
	cmdRoot.Flags().StringArrayVarP(&argsCompile.conform, "conform", "c", nil, "read conformance file (may repeat)")
	cmdRoot.Flags().BoolVarP(&argsCompile.exports, "export", "e", false, "also emit the -exp.h and -exp.cnf export surfaces")
	cmdRoot.Flags().StringVarP(&argsCompile.splice, "splice", "s", "", "splice generated fragments into STEM.c and STEM.h")
	cmdRoot.Flags().StringVarP(&argsCompile.debug, "debug", "d", "", "debug flags (l=lex, y=yacc, s=AST, a=assignments, t=tables)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg := globalConfig
	input := args[0]
	if ok, err := isfile(input); err != nil {
		return fmt.Errorf("%s: %w", input, err)
	} else if !ok {
		return fmt.Errorf("%s: %w", input, cerrs.ErrNotAFile)
	}

	// flags win over the configuration file
	encoding := emit.PER
	if argsCompile.ber || (!cmd.Flags().Changed("ber") && cfg.Compiler.Encoding == "ber") {
		encoding = emit.BER
	}
	legacy := argsCompile.legacyAPI || (!cmd.Flags().Changed("legacy-api") && cfg.Compiler.LegacyAPI)
	// the BER call shapes predate the new API; BER always emits legacy
	// signatures
	if encoding == emit.BER {
		legacy = true
	}
	proto := argsCompile.proto
	if proto == "" {
		proto = cfg.Compiler.Proto
	}
	if proto == "" {
		base := filepath.Base(input)
		proto = strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	}
	outStem := argsCompile.output
	if outStem == "" {
		outStem = cfg.Compiler.Output
	}
	if outStem == "" {
		outStem = proto
	}
	conformFiles := append(append([]string{}, cfg.Compiler.Conform...), argsCompile.conform...)
	exports := argsCompile.exports || cfg.Compiler.Exports

	dbg := func(c byte) bool { return strings.IndexByte(argsCompile.debug, c) >= 0 }

	warnlog := logrus.New()
	warnlog.SetOutput(os.Stderr)
	warnlog.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	src, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	mod, err := parser.Parse(src, parser.Config{
		DebugLexer:  dbg('l') || cfg.DebugFlags.Lexer,
		DebugParser: dbg('y') || cfg.DebugFlags.Parser,
	})
	if err != nil {
		return err
	}
	if dbg('s') || cfg.DebugFlags.Ast {
		spew.Fdump(os.Stderr, mod)
	}

	fs := afero.NewOsFs()
	cf := conform.New(warnlog)
	for _, name := range conformFiles {
		if err := cf.ReadFile(fs, name); err != nil {
			return err
		}
	}

	reg := registry.New(proto, cf, warnlog)
	if err := reg.RegisterModule(mod); err != nil {
		return err
	}
	reg.Prepare()
	if dbg('a') || cfg.DebugFlags.Assignments {
		reg.DumpAssignments(os.Stderr)
	}
	if dbg('t') || cfg.DebugFlags.Tables {
		reg.DumpTables(os.Stderr)
	}

	e := &emit.Emitter{
		Fs:       fs,
		Reg:      reg,
		Proto:    proto,
		OutStem:  outStem,
		Encoding: encoding,
		NewAPI:   !legacy,
		Input:    input,
		Argv:     os.Args,
	}
	if err := e.Output(exports); err != nil {
		return err
	}
	cf.UnusedReport()

	if stem := argsCompile.splice; stem != "" {
		fragments := []string{
			e.Fname("hf", "c"), e.Fname("hfarr", "c"),
			e.Fname("ett", "c"), e.Fname("ettarr", "c"),
			e.Fname("fn", "c"), e.Fname("val", "h"),
			e.Fname("valexp", "h"), e.Fname("exp", "h"),
		}
		for _, target := range []string{stem + ".c", stem + ".h"} {
			if ok, _ := isfile(target); !ok {
				continue
			}
			if err := splice.File(fs, target, target, fragments); err != nil {
				return err
			}
		}
	}
	return nil
}

func isfile(path string) (bool, error) {
	sb, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	} else if sb.IsDir() || !sb.Mode().IsRegular() {
		return false, nil
	}
	return true, nil
}

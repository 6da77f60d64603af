// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"reflect"

	"github.com/playbymail/asn2eth/cerrs"
)

// Config allows a project to pin compiler defaults next to its ASN.1
// sources instead of repeating them on every invocation. Command-line
// flags always win over the file.
type Config struct {
	AllowConfig bool         `json:"AllowConfig,omitempty"`
	Compiler    Compiler_t   `json:"Compiler"`
	DebugFlags  DebugFlags_t `json:"DebugFlags"`
}

type Compiler_t struct {
	Encoding  string   `json:"Encoding,omitempty"` // "ber" or "per"
	LegacyAPI bool     `json:"LegacyAPI,omitempty"`
	Proto     string   `json:"Proto,omitempty"`
	Output    string   `json:"Output,omitempty"`
	Conform   []string `json:"Conform,omitempty"`
	Exports   bool     `json:"Exports,omitempty"`
}

type DebugFlags_t struct {
	Lexer       bool `json:"Lexer,omitempty"`
	Parser      bool `json:"Parser,omitempty"`
	Ast         bool `json:"Ast,omitempty"`
	Assignments bool `json:"Assignments,omitempty"`
	Tables      bool `json:"Tables,omitempty"`
	LogFile     bool `json:"LogFile,omitempty"`
	LogTime     bool `json:"LogTime,omitempty"`
}

const (
	ErrIsDirectory = cerrs.Error("is directory")
	ErrIsNotAFile  = cerrs.Error("is not a file")
)

func Default() *Config {
	return &Config{
		Compiler: Compiler_t{
			Encoding: "per",
		},
	}
}

func Load(name string, debug bool) (*Config, error) {
	if debug {
		log.Printf("[config] %q: loading configuration...\n", name)
	}
	// create a config with default values for the application
	cfg := Default()
	if sb, err := os.Stat(name); errors.Is(err, os.ErrNotExist) || os.IsNotExist(err) {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if sb.Mode().IsDir() {
		return cfg, ErrIsDirectory
	} else if !sb.Mode().IsRegular() {
		return cfg, ErrIsNotAFile
	}

	var tmp Config
	if data, err := os.ReadFile(name); err != nil {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if err = json.Unmarshal(data, &tmp); err != nil {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if debug {
		if nice, err := json.MarshalIndent(tmp, "", "  "); err == nil {
			log.Printf("[config] %s\n", nice)
		} else {
			log.Printf("[config] %q: loaded %s\n", name, string(data))
		}
	}

	// copy over every value from tmp to config that isn't the default (zero) value
	copyNonZeroFields(&tmp, cfg)

	return cfg, nil
}

// copyNonZeroFields recursively copies non-zero fields from src to dst using reflection
func copyNonZeroFields(src, dst interface{}) {
	srcVal := reflect.ValueOf(src)
	dstVal := reflect.ValueOf(dst)

	// Dereference pointers
	if srcVal.Kind() == reflect.Ptr {
		srcVal = srcVal.Elem()
	}
	if dstVal.Kind() == reflect.Ptr {
		dstVal = dstVal.Elem()
	}

	// Only work with structs
	if srcVal.Kind() != reflect.Struct || dstVal.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < srcVal.NumField(); i++ {
		srcField := srcVal.Field(i)
		dstField := dstVal.Field(i)

		// Skip unexported fields
		if !srcField.CanInterface() || !dstField.CanSet() {
			continue
		}

		// Check if source field is zero value
		if srcField.IsZero() {
			continue
		}

		// Handle different field types
		switch srcField.Kind() {
		case reflect.Struct:
			// Recursively copy struct fields
			copyNonZeroFields(srcField.Interface(), dstField.Addr().Interface())
		default:
			// Copy primitive types and other values
			dstField.Set(srcField)
		}
	}
}

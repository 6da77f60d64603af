// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package config loads the optional asn2eth.json configuration file. The
// file supplies default values for the compiler flags and debug switches;
// values given on the command line always override it. The driver uses the
// file only when it sets AllowConfig to true. A missing or malformed file
// silently falls back to the built-in defaults.
package config

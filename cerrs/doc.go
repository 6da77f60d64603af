// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package cerrs defines constant error types using a custom Error string type.
// It centralizes common error messages used throughout the compiler for
// domain-specific failures such as duplicate registrations, bad paths, and
// missing template fragments. The Error type supports comparison via errors.Is().
package cerrs

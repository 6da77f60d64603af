// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package conform reads conformance files: line-oriented overlays that
// augment or override compiler decisions without touching the ASN.1
// source. Directives start a table context with "#.NAME"; rows populate
// the table until the next directive or "#.END". Duplicate and unused rows
// are reported as warnings, never as errors.
package conform

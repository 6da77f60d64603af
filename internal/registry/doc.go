// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package registry is the semantic middle of the compiler. It walks the
// parsed module, assigns a canonical path to every declared and anonymous
// type, field, and value, resolves cross-module imports, detects
// duplicates, and prepares the emission model: stable wire names with
// collision resolution, merged attribute bags, a dependency-ordered type
// list, and the explicit list of dependency cycles.
package registry

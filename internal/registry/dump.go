// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package registry

import (
	"fmt"
	"io"
	"strings"
)

// DumpAssignments writes the assignment lists for the -d a debug flag.
func (r *Registry) DumpAssignments(w io.Writer) {
	fmt.Fprintf(w, "Assignments:\n")
	for _, a := range r.AssignOrd {
		fmt.Fprintf(w, "  %s\n", a)
	}
	fmt.Fprintf(w, "Value assignments:\n")
	for _, v := range r.VAssignOrd {
		fmt.Fprintf(w, "  %s\n", v)
	}
}

// DumpTables writes the resolved tables for the -d t debug flag.
func (r *Registry) DumpTables(w io.Writer) {
	fmt.Fprintf(w, "Types:\n")
	for _, t := range r.TypeOrd {
		e := r.Types[t]
		fmt.Fprintf(w, "  %-40s %-24s exp=%02x usr=%02x noemit=%02x\n", t, e.EthName, e.Export, e.UserDef, e.NoEmit)
	}
	fmt.Fprintf(w, "Imported types:\n")
	for _, t := range r.TypeImp {
		e := r.Types[t]
		fmt.Fprintf(w, "  %-40s from %s (%s)\n", t, e.Import, e.Proto)
	}
	fmt.Fprintf(w, "Fields:\n")
	for _, f := range r.FieldOrd {
		e := r.Fields[f]
		fmt.Fprintf(w, "  %-40s %-24s type=%s impl=%v\n", f, e.EthName, e.Type, e.Impl)
	}
	fmt.Fprintf(w, "Values:\n")
	for _, v := range r.ValueOrd {
		e := r.Values[v]
		fmt.Fprintf(w, "  %-40s %-24s exp=%02x\n", v, e.EthName, e.Export)
	}
	fmt.Fprintf(w, "Emission order:\n  %s\n", strings.Join(r.EthTypeOrd1, " "))
	for _, cyc := range r.DepCycles {
		fmt.Fprintf(w, "Cycle: %s -> %s\n", strings.Join(cyc, " -> "), cyc[0])
	}
}

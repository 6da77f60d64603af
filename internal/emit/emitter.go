// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package emit

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/playbymail/asn2eth/internal/registry"
	"github.com/spf13/afero"
)

// Encoding selects the decoder primitives the generated code calls.
type Encoding string

const (
	BER Encoding = "ber"
	PER Encoding = "per"
)

// Emitter renders the resolved registry as C fragment files. One Emitter
// serves one invocation.
type Emitter struct {
	Fs       afero.Fs
	Reg      *registry.Registry
	Proto    string
	OutStem  string
	Encoding Encoding
	NewAPI   bool
	Input    string   // input file name, for generated headers
	Argv     []string // invocation, for generated headers
}

// pvp is the PER dissector version postfix.
func (e *Emitter) pvp() string {
	if e.NewAPI {
		return "_new"
	}
	return ""
}

func (e *Emitter) ber() bool  { return e.Encoding == BER }
func (e *Emitter) per() bool  { return e.Encoding == PER }
func (e *Emitter) oBer() bool { return !e.NewAPI && e.ber() }
func (e *Emitter) oPer() bool { return !e.NewAPI && e.per() }
func (e *Emitter) nPer() bool { return e.NewAPI && e.per() }

// Fname builds an output file name: packet-<stem>-<kind>.<ext>. The
// "packet-" prefix is dropped for conformance outputs.
func (e *Emitter) Fname(kind, ext string) string {
	fn := ""
	if ext != "cnf" {
		fn = "packet-"
	}
	fn += e.OutStem
	if kind != "" {
		fn += "-" + kind
	}
	return fn + "." + ext
}

// fileHeader is the fixed do-not-edit banner at the top of every output.
func (e *Emitter) fileHeader(fn, comment string) string {
	var sb strings.Builder
	line := func(s string) {
		if comment == "#" {
			sb.WriteString(fmt.Sprintf("# %s\n", s))
		} else {
			sb.WriteString(fmt.Sprintf("/* %-70s */\n", s))
		}
	}
	line("Do not modify this file.")
	line("It is created automatically by the ASN.1 to dissector compiler")
	line(fn)
	line(strings.Join(e.Argv, " "))
	line("Input file: " + e.Input)
	sb.WriteString("\n")
	return sb.String()
}

// writeOrRemove writes the file when the body is non-empty, otherwise
// removes any stale copy so no empty fragment survives the run.
func (e *Emitter) writeOrRemove(fn, header string, body []byte) error {
	if len(body) == 0 {
		if ok, _ := afero.Exists(e.Fs, fn); ok {
			return e.Fs.Remove(fn)
		}
		return nil
	}
	return afero.WriteFile(e.Fs, fn, append([]byte(header), body...), 0644)
}

// Output writes the six sibling fragment files, plus the export surfaces
// when exports is set.
func (e *Emitter) Output(exports bool) error {
	if err := e.outputHF(); err != nil {
		return err
	}
	if err := e.outputHFArr(); err != nil {
		return err
	}
	if err := e.outputEtt(); err != nil {
		return err
	}
	if err := e.outputEttArr(); err != nil {
		return err
	}
	if err := e.outputTypes(); err != nil {
		return err
	}
	if err := e.outputVal(); err != nil {
		return err
	}
	if exports {
		if err := e.outputValExp(); err != nil {
			return err
		}
		if err := e.outputExport(); err != nil {
			return err
		}
		if err := e.outputExpCnf(); err != nil {
			return err
		}
	}
	return nil
}

// outputHF writes the header-field handle declarations.
func (e *Emitter) outputHF() error {
	r := e.Reg
	var buf bytes.Buffer
	for _, f := range r.EthHFOrd {
		decl := fmt.Sprintf("static int %s = -1;  ", r.EthHFs[f].FullName)
		fmt.Fprintf(&buf, "%-50s/* %s */\n", decl, r.EthHFs[f].EthType)
	}
	if len(r.NamedBits) > 0 {
		fmt.Fprintf(&buf, "/* named bits */\n")
	}
	for _, nb := range r.NamedBits {
		fmt.Fprintf(&buf, "static int %s = -1;\n", nb.EthName)
	}
	fn := e.Fname("hf", "c")
	return e.writeOrRemove(fn, e.fileHeader(fn, ""), buf.Bytes())
}

// outputHFArr writes the field registration array rows.
func (e *Emitter) outputHFArr() error {
	r := e.Reg
	var buf bytes.Buffer
	for _, f := range r.EthHFOrd {
		hf := r.EthHFs[f]
		blurb := `""`
		if len(hf.Ref) == 1 {
			blurb = `"` + hf.Ref[0] + `"`
		}
		attr := make(map[string]string, len(hf.Attr))
		for k, v := range hf.Attr {
			attr[k] = v
		}
		attr["ABBREV"] = fmt.Sprintf("%q", e.Proto+"."+attr["ABBREV"])
		if _, ok := attr["BLURB"]; !ok {
			attr["BLURB"] = blurb
		}
		fmt.Fprintf(&buf, "    { &%s,\n", hf.FullName)
		fmt.Fprintf(&buf, "      { %s, %s,\n", attr["NAME"], attr["ABBREV"])
		fmt.Fprintf(&buf, "        %s, %s, %s, %s,\n", attr["TYPE"], attr["DISPLAY"], attr["STRINGS"], attr["BITMASK"])
		fmt.Fprintf(&buf, "        %s, HFILL }},\n", attr["BLURB"])
	}
	for _, nb := range r.NamedBits {
		fmt.Fprintf(&buf, "    { &%s,\n", nb.EthName)
		fmt.Fprintf(&buf, "      { \"%s\", \"%s.%s\",\n", nb.Name, e.Proto, nb.Name)
		fmt.Fprintf(&buf, "        %s, %s, %s, %s,\n", nb.FType, nb.Display, nb.Strings, nb.Bitmask)
		fmt.Fprintf(&buf, "        \"\", HFILL }},\n")
	}
	fn := e.Fname("hfarr", "c")
	return e.writeOrRemove(fn, e.fileHeader(fn, ""), buf.Bytes())
}

// outputEtt writes the subtree handle declarations.
func (e *Emitter) outputEtt() error {
	r := e.Reg
	var buf bytes.Buffer
	for _, t := range r.EthTypeOrd {
		if tree := r.EthTypes[t].Tree; tree != "" {
			fmt.Fprintf(&buf, "static gint %s = -1;\n", tree)
		}
	}
	fn := e.Fname("ett", "c")
	return e.writeOrRemove(fn, e.fileHeader(fn, ""), buf.Bytes())
}

// outputEttArr writes the subtree registration array rows.
func (e *Emitter) outputEttArr() error {
	r := e.Reg
	var buf bytes.Buffer
	for _, t := range r.EthTypeOrd {
		if tree := r.EthTypes[t].Tree; tree != "" {
			fmt.Fprintf(&buf, "    &%s,\n", tree)
		}
	}
	fn := e.Fname("ettarr", "c")
	return e.writeOrRemove(fn, e.fileHeader(fn, ""), buf.Bytes())
}

// outputVal writes the #define block for local value assignments.
func (e *Emitter) outputVal() error {
	r := e.Reg
	var buf bytes.Buffer
	for _, v := range r.EthValueOrd1 {
		fmt.Fprintf(&buf, "#define %-30s %s\n", v, r.EthValues[v].Value)
	}
	fn := e.Fname("val", "h")
	return e.writeOrRemove(fn, e.fileHeader(fn, ""), buf.Bytes())
}

// outputValExp writes the #define block for exported values.
func (e *Emitter) outputValExp() error {
	r := e.Reg
	var buf bytes.Buffer
	for _, v := range r.EthVExportOrd {
		fmt.Fprintf(&buf, "#define %-30s %s\n", v, r.EthValues[v].Value)
	}
	fn := e.Fname("valexp", "h")
	return e.writeOrRemove(fn, e.fileHeader(fn, ""), buf.Bytes())
}

// outputExport writes the export header: extern value tables and function
// declarations for every exported type.
func (e *Emitter) outputExport() error {
	r := e.Reg
	var buf bytes.Buffer
	for _, t := range r.EthExportOrd {
		et := r.EthTypes[t]
		if et.Export&0x02 != 0 && registry.HasVals(et.Val) {
			fmt.Fprintf(&buf, "extern const value_string %s_vals[];\n", t)
		}
	}
	for _, t := range r.EthExportOrd {
		if r.EthTypes[t].Export&0x01 != 0 {
			buf.WriteString(e.fnDecl(t))
		}
	}
	fn := e.Fname("exp", "h")
	return e.writeOrRemove(fn, e.fileHeader(fn, ""), buf.Bytes())
}

// outputExpCnf writes the conformance surface other dissectors read:
// IMPORT_TAG rows under BER, and TYPE_ATTR rows.
func (e *Emitter) outputExpCnf() error {
	r := e.Reg
	var buf bytes.Buffer
	if e.ber() {
		fmt.Fprintf(&buf, "#.IMPORT_TAG\n")
		for _, t := range r.EthExportOrd {
			et := r.EthTypes[t]
			if et.Export&0x01 != 0 {
				cls, num := r.GetTag(et.Val)
				fmt.Fprintf(&buf, "%-24s %s %s\n", t, cls, num)
			}
		}
		fmt.Fprintf(&buf, "#.END\n\n")
	}
	fmt.Fprintf(&buf, "#.TYPE_ATTR\n")
	for _, t := range r.EthExportOrd {
		et := r.EthTypes[t]
		if et.Export&0x01 != 0 {
			attr := r.EthGetTypeAttr(et.Ref[0])
			fmt.Fprintf(&buf, "%-24s TYPE = %-9s  DISPLAY = %-9s  STRINGS = %s  BITMASK = %s\n",
				t, attr["TYPE"], attr["DISPLAY"], attr["STRINGS"], attr["BITMASK"])
		}
	}
	fmt.Fprintf(&buf, "#.END\n\n")
	fn := e.Fname("exp", "cnf")
	return e.writeOrRemove(fn, e.fileHeader(fn, "#"), buf.Bytes())
}

// fieldWrapper writes the legacy-API per-field wrapper functions that
// forward to a type's dissector.
func (e *Emitter) fieldWrapper(f string) string {
	r := e.Reg
	hf := r.EthHFs[f]
	t := hf.EthType
	var impls []bool
	if e.ber() {
		seen := make(map[bool]bool)
		for _, ref := range hf.Ref {
			seen[r.Fields[ref].Impl] = true
		}
		for _, b := range []bool{false, true} {
			if seen[b] {
				impls = append(impls, b)
			}
		}
	} else {
		impls = []bool{false}
	}
	var out strings.Builder
	for _, impl := range impls {
		if e.ber() {
			postfix, implArg := "", "FALSE"
			if impl {
				postfix, implArg = "_impl", "TRUE"
			}
			out.WriteString("static int dissect_" + f + postfix + "(packet_info *pinfo, proto_tree *tree, tvbuff_t *tvb, int offset) {\n")
			out.WriteString(fnCall(fmt.Sprintf("dissect_%s_%s", r.EthTypes[t].Proto, t), "return",
				[][]string{{implArg, "tvb", "offset", "pinfo", "tree", hf.FullName}}))
		} else {
			out.WriteString("static int dissect_" + f + "(tvbuff_t *tvb, int offset, packet_info *pinfo, proto_tree *tree) {\n")
			out.WriteString(fnCall(fmt.Sprintf("dissect_%s_%s", r.EthTypes[t].Proto, t), "return",
				[][]string{{"tvb", "offset", "pinfo", "tree", hf.FullName}}))
		}
		out.WriteString("}\n")
	}
	return out.String()
}

// outputTypes writes packet-P-fn.c: forward declarations for cycles,
// legacy wrappers for imported types, then every type in dependency
// order.
func (e *Emitter) outputTypes() error {
	r := e.Reg
	var buf bytes.Buffer

	if len(r.DepCycles) > 0 {
		fmt.Fprintf(&buf, "/*--- Cyclic dependencies ---*/\n\n")
		done := make(map[string]bool)
		for _, cyc := range r.DepCycles {
			head := r.Types[cyc[0]].EthName
			if done[head] {
				continue
			}
			done[head] = true
			for _, i := range r.CycleHead[head] {
				c := r.DepCycles[i]
				fmt.Fprintf(&buf, "/* %s -> %s */\n", strings.Join(c, " -> "), c[0])
			}
			buf.WriteString(e.fnDecl(head))
			if !e.NewAPI {
				buf.WriteString("\n")
				for _, f := range r.EthHFOrd {
					if r.EthHFs[f].EthType == head {
						buf.WriteString(e.fieldWrapper(f))
					}
				}
			}
			buf.WriteString("\n")
		}
		buf.WriteString("\n")
	}

	if !e.NewAPI {
		var wrapped []string
		for _, f := range r.EthHFOrd {
			if r.EthTypes[r.EthHFs[f].EthType].Import != "" {
				wrapped = append(wrapped, f)
			}
		}
		if len(wrapped) > 0 {
			fmt.Fprintf(&buf, "/*--- Fields for imported types ---*/\n\n")
			for _, f := range wrapped {
				buf.WriteString(e.fieldWrapper(f))
			}
			buf.WriteString("\n")
		}
	}

	for _, t := range r.EthTypeOrd1 {
		et := r.EthTypes[t]
		if et.Import != "" {
			continue
		}
		if registry.HasVals(et.Val) {
			switch {
			case et.NoEmit&0x02 != 0:
			case et.UserDef&0x02 != 0:
				fmt.Fprintf(&buf, "extern const value_string %s_vals[];\n", t)
			default:
				buf.WriteString(e.typeVals(t, et))
			}
		}
		switch {
		case et.NoEmit&0x01 != 0:
		case et.UserDef&0x01 != 0:
			buf.WriteString(e.fnDecl(t))
		default:
			buf.WriteString(e.typeFn(t, et))
		}
		if !e.NewAPI && len(r.CycleHead[t]) == 0 {
			for _, f := range r.EthHFOrd {
				if r.EthHFs[f].EthType == t {
					buf.WriteString(e.fieldWrapper(f))
				}
			}
		}
		buf.WriteString("\n")
	}

	fn := e.Fname("fn", "c")
	return e.writeOrRemove(fn, e.fileHeader(fn, ""), buf.Bytes())
}

// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/playbymail/asn2eth/internal/ast"
	"github.com/playbymail/asn2eth/internal/conform"
	"github.com/playbymail/asn2eth/internal/registry"
)

// fnCall renders one C call statement with the original tool's argument
// grouping: groups joined on one line, continuation lines aligned under
// the opening parenthesis.
func fnCall(fname, ret string, par [][]string) string {
	out := "  "
	switch ret {
	case "":
	case "return":
		out += "return "
	default:
		out += ret + " = "
	}
	out += fname + "("
	ind := len(out)
	for i, group := range par {
		if i > 0 {
			out += strings.Repeat(" ", ind)
		}
		out += strings.Join(group, ", ")
		if i < len(par)-1 {
			out += ",\n"
		}
	}
	out += ");\n"
	return out
}

// fnSig renders the dissector signature for the selected encoding and API
// pair. unused adds the _U_ markers used on definitions.
func (e *Emitter) fnSig(tname string, unused bool) string {
	u := ""
	if unused {
		u = " _U_"
	}
	name := fmt.Sprintf("dissect_%s_%s", e.Proto, tname)
	switch {
	case e.ber():
		return fmt.Sprintf("%s(gboolean implicit_tag%s, tvbuff_t *tvb, int offset, packet_info *pinfo%s, proto_tree *tree, int hf_index)", name, u, u)
	case e.nPer():
		return fmt.Sprintf("%s(tvbuff_t *tvb, int offset, packet_info *pinfo%s, proto_tree *tree, int hf_index, proto_item **item, void *private_data)", name, u)
	default:
		return fmt.Sprintf("%s(tvbuff_t *tvb, int offset, packet_info *pinfo%s, proto_tree *tree, int hf_index)", name, u)
	}
}

// fnDecl renders the header-only declaration of a type's dissector.
func (e *Emitter) fnDecl(tname string) string {
	out := ""
	if e.Reg.EthTypes[tname].Export&0x01 == 0 {
		out += "static "
	}
	return out + "int " + e.fnSig(tname, false) + ";\n"
}

// fnKey resolves which name carries user function text for a type: its
// first ASN.1 path, or its wire name after a rename.
func (e *Emitter) fnKey(tname string, et *registry.EthType) string {
	if e.Reg.Conform.FnPresent(et.Ref[0]) {
		return et.Ref[0]
	}
	if e.Reg.Conform.FnPresent(tname) {
		return tname
	}
	return ""
}

// fnHdr opens the dissector function and splices any FN_HDR text.
func (e *Emitter) fnHdr(tname string, et *registry.EthType) string {
	out := "\n"
	if et.Export&0x01 == 0 {
		out += "static "
	}
	out += "int\n" + e.fnSig(tname, true) + " {\n"
	if key := e.fnKey(tname, et); key != "" {
		out += e.Reg.Conform.FnText(key, conform.FnHdr)
	}
	return out
}

// fnFtr splices any FN_FTR text and closes the function.
func (e *Emitter) fnFtr(tname string, et *registry.EthType) string {
	out := "\n"
	if key := e.fnKey(tname, et); key != "" {
		out += e.Reg.Conform.FnText(key, conform.FnFtr)
	}
	return out + "  return offset;\n}\n"
}

// fnBody returns the FN_BODY override when one exists, otherwise the
// computed body.
func (e *Emitter) fnBody(tname string, et *registry.EthType, body string) string {
	if key := e.fnKey(tname, et); key != "" && e.Reg.Conform.FnBodyPresent(key) {
		return e.Reg.Conform.FnText(key, conform.FnBody)
	}
	return body
}

type valRow struct {
	val string
	id  string
}

// valsTable renders a value_string table. static is dropped when the
// table is exported.
func (e *Emitter) valsTable(tname string, vals []valRow) string {
	out := ""
	if e.Reg.EthTypes[tname].Export&0x02 == 0 {
		out += "static "
	}
	out += fmt.Sprintf("const value_string %s_vals[] = {\n", tname)
	for _, v := range vals {
		out += fmt.Sprintf("  { %3s, \"%s\" },\n", v.val, v.id)
	}
	out += "  { 0, NULL }\n};\n"
	return out
}

// bitsTable renders the named-bit table of a BIT STRING.
func (e *Emitter) bitsTable(tname string, bits []ast.NamedNumber) string {
	out := "static asn_namedbit " + tname + "_bits[] = {\n"
	for _, b := range bits {
		out += fmt.Sprintf("  { %2s, &hf_%s_%s_%s, -1, -1, NULL, NULL },\n", b.Val, e.Proto, tname, b.Ident)
	}
	out += "  { 0, NULL, 0, 0, NULL, NULL }\n};\n"
	return out
}

// sizeTriple returns the (min, max, ext) bounds of a size constraint as C
// arguments.
func sizeTriple(t ast.Type) (string, string, string) {
	return registry.SizeConstr(t)
}

// typeVals emits the value-string table for variants that carry named
// alternatives.
func (e *Emitter) typeVals(tname string, et *registry.EthType) string {
	switch v := et.Val.(type) {
	case *ast.Integer:
		if len(v.Named) == 0 {
			return ""
		}
		var vals []valRow
		for _, n := range v.Named {
			vals = append(vals, valRow{val: n.Val, id: n.Ident})
		}
		return "\n" + e.valsTable(tname, vals)
	case *ast.Enumerated:
		vals, _ := enumVals(v)
		return "\n" + e.valsTable(tname, vals)
	case *ast.Choice:
		return "\n" + e.valsTable(tname, e.choiceVals(v))
	}
	return ""
}

// enumVals numbers the enumeration items: explicit numbers first, then
// the lowest unused value for each bare item. The returned maximum drives
// the PER constrained-integer call.
func enumVals(en *ast.Enumerated) (vals []valRow, maxv int) {
	used := make(map[int]bool)
	lastv := 0
	number := func(items []ast.NamedNumber) {
		for _, it := range items {
			if it.Val != "" {
				v, _ := strconv.Atoi(it.Val)
				used[v] = true
			}
		}
		for _, it := range items {
			var v int
			if it.Val != "" {
				v, _ = strconv.Atoi(it.Val)
			} else {
				for used[lastv] {
					lastv++
				}
				v = lastv
				used[v] = true
			}
			vals = append(vals, valRow{val: strconv.Itoa(v), id: it.Ident})
			if v > maxv {
				maxv = v
			}
		}
	}
	number(en.Items)
	number(en.Ext)
	return vals, maxv
}

// choiceTagval reports whether BER choice discriminants are the tag
// numbers: every alternative must share one non-universal class.
func (e *Emitter) choiceTagval(ch *ast.Choice) bool {
	if !e.ber() {
		return false
	}
	alts := append(append([]ast.Type{}, ch.Alts...), ch.Ext...)
	if len(alts) == 0 {
		return false
	}
	cls, _ := e.Reg.GetTag(alts[0])
	if cls == "BER_CLASS_UNI" {
		return false
	}
	for _, a := range alts {
		if c, _ := e.Reg.GetTag(a); c != cls {
			return false
		}
	}
	return true
}

func (e *Emitter) choiceVals(ch *ast.Choice) []valRow {
	tagval := e.choiceTagval(ch)
	var vals []valRow
	cnt := 0
	add := func(alts []ast.Type) {
		for _, a := range alts {
			val := strconv.Itoa(cnt)
			if tagval {
				_, val = e.Reg.GetTag(a)
			}
			vals = append(vals, valRow{val: val, id: a.Base().FieldName})
			cnt++
		}
	}
	add(ch.Alts)
	add(ch.Ext)
	return vals
}

// berElemFlags builds the BER_FLAGS column of an element-table row.
func (e *Emitter) berElemFlags(val ast.Type, optional bool) string {
	var flags []string
	if optional {
		flags = append(flags, "BER_FLAGS_OPTIONAL")
	}
	if !val.Base().HasOwnTag() {
		flags = append(flags, "BER_FLAGS_NOOWNTAG")
	} else if e.Reg.ImplicitTagOf(val) {
		flags = append(flags, "BER_FLAGS_IMPLTAG")
	}
	if e.Reg.IndetermTag(val) {
		flags = append(flags, "BER_FLAGS_NOTCHKTAG")
	}
	if len(flags) == 0 {
		return "0"
	}
	return strings.Join(flags, "|")
}

// elemRow renders one row of a sequence or set element table.
func (e *Emitter) elemRow(fieldKey string, val ast.Type, optional bool, ext string) string {
	r := e.Reg
	ef := r.Fields[fieldKey].EthName
	efd := ef
	if e.oBer() && r.Fields[fieldKey].Impl {
		efd += "_impl"
	}
	switch {
	case e.ber():
		tc, tn := r.GetTag(val)
		return fmt.Sprintf("  { %-13s, %s, %s, dissect_%s },\n", tc, tn, e.berElemFlags(val, optional), efd)
	case e.nPer():
		opt := "ASN1_NOT_OPTIONAL"
		if optional {
			opt = "ASN1_OPTIONAL"
		}
		hf := r.EthHFs[ef]
		return fmt.Sprintf("  { &%-30s, %-23s, %-17s, dissect_%s_%s },\n",
			hf.FullName, ext, opt, r.EthTypes[hf.EthType].Proto, hf.EthType)
	default:
		opt := "ASN1_NOT_OPTIONAL"
		if optional {
			opt = "ASN1_OPTIONAL"
		}
		return fmt.Sprintf("  { %-30s, %-23s, %-17s, dissect_%s },\n",
			`"`+val.Base().FieldName+`"`, ext, opt, efd)
	}
}

// typeFn renders the dissector function, with its static element tables,
// for one type variant.
func (e *Emitter) typeFn(tname string, et *registry.EthType) string {
	switch v := et.Val.(type) {
	case *ast.TypeRef:
		return e.typeRefFn(tname, et, v)
	case *ast.Boolean:
		return e.booleanFn(tname, et)
	case *ast.Integer:
		return e.integerFn(tname, et, v)
	case *ast.Enumerated:
		return e.enumeratedFn(tname, et, v)
	case *ast.Null:
		return e.nullFn(tname, et)
	case *ast.Real:
		return e.notDecodedFn(tname, et)
	case *ast.ObjectIdentifier:
		return e.oidFn(tname, et)
	case *ast.OctetString:
		return e.octetStringFn(tname, et, v)
	case *ast.BitString:
		return e.bitStringFn(tname, et, v)
	case *ast.CharString:
		return e.charStringFn(tname, et, v)
	case *ast.Sequence:
		return e.sequenceFn(tname, et, v)
	case *ast.Set:
		return e.setFn(tname, et, v)
	case *ast.Choice:
		return e.choiceFn(tname, et, v)
	case *ast.SequenceOf:
		return e.seqOfFn(tname, et, v.Item, true)
	case *ast.SetOf:
		return e.seqOfFn(tname, et, v.Item, false)
	}
	return e.notDecodedFn(tname, et)
}

func (e *Emitter) typeRefFn(tname string, et *registry.EthType, ref *ast.TypeRef) string {
	r := e.Reg
	target := r.Types[ref.Val].EthName
	callee := fmt.Sprintf("dissect_%s_%s", r.EthTypes[target].Proto, target)
	var body string
	switch {
	case e.ber():
		body = fnCall(callee, "offset", [][]string{{"implicit_tag", "tvb", "offset", "pinfo", "tree", "hf_index"}})
	case e.nPer():
		body = fnCall(callee, "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree"},
			{"hf_index", "item", "private_data"}})
	default:
		body = fnCall(callee, "offset", [][]string{{"tvb", "offset", "pinfo", "tree", "hf_index"}})
	}
	return e.fnHdr(tname, et) + e.fnBody(tname, et, body) + e.fnFtr(tname, et)
}

func (e *Emitter) booleanFn(tname string, et *registry.EthType) string {
	var body string
	switch {
	case e.ber():
		body = fnCall("dissect_ber_boolean"+e.pvp(), "offset",
			[][]string{{"pinfo", "tree", "tvb", "offset", "hf_index"}})
	case e.nPer():
		body = fnCall("dissect_per_boolean"+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree"},
			{"hf_index", "item", "NULL"}})
	default:
		body = fnCall("dissect_per_boolean"+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree", "hf_index"},
			{"NULL", "NULL"}})
	}
	return e.fnHdr(tname, et) + e.fnBody(tname, et, body) + e.fnFtr(tname, et)
}

// uBound appends the unsigned suffix to decimal bounds.
func uBound(b string) string {
	for i := 0; i < len(b); i++ {
		if b[i] < '0' || b[i] > '9' {
			return b
		}
	}
	if b == "" {
		return b
	}
	return b + "U"
}

func (e *Emitter) integerFn(tname string, et *registry.EthType, in *ast.Integer) string {
	out := "\n" + e.fnHdr(tname, et)
	var body string
	c := in.Base().Constraint
	switch {
	case e.ber():
		body = fnCall("dissect_ber_integer"+e.pvp(), "offset",
			[][]string{{"pinfo", "tree", "tvb", "offset", "hf_index", "NULL"}})
	case c == nil || (c.Kind != ast.SingleValue && c.Kind != ast.ValueRange):
		if e.NewAPI {
			body = fnCall("dissect_per_integer"+e.pvp(), "offset", [][]string{
				{"tvb", "offset", "pinfo", "tree"},
				{"hf_index", "item", "private_data"},
				{"NULL"}})
		} else {
			body = fnCall("dissect_per_integer"+e.pvp(), "offset", [][]string{
				{"tvb", "offset", "pinfo", "tree", "hf_index"},
				{"NULL", "NULL"}})
		}
	default:
		minv, maxv, extFlag, _ := c.RangeBounds()
		ext := "FALSE"
		if extFlag {
			ext = "TRUE"
		}
		minv, maxv = uBound(minv), uBound(maxv)
		if e.NewAPI {
			body = fnCall("dissect_per_constrained_integer"+e.pvp(), "offset", [][]string{
				{"tvb", "offset", "pinfo", "tree"},
				{"hf_index", "item", "private_data"},
				{minv, maxv, ext},
				{"NULL"}})
		} else {
			body = fnCall("dissect_per_constrained_integer"+e.pvp(), "offset", [][]string{
				{"tvb", "offset", "pinfo", "tree", "hf_index"},
				{minv, maxv, "NULL", "NULL", ext}})
		}
	}
	return out + e.fnBody(tname, et, body) + e.fnFtr(tname, et)
}

func (e *Emitter) enumeratedFn(tname string, et *registry.EthType, en *ast.Enumerated) string {
	_, maxv := enumVals(en)
	ext := "FALSE"
	if en.HasExt {
		ext = "TRUE"
	}
	out := "\n" + e.fnHdr(tname, et)
	var body string
	switch {
	case e.ber():
		body = fnCall("dissect_ber_integer"+e.pvp(), "offset",
			[][]string{{"pinfo", "tree", "tvb", "offset", "hf_index", "NULL"}})
	case e.nPer():
		body = fnCall("dissect_per_constrained_integer"+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree"},
			{"hf_index", "item", "private_data"},
			{"0", strconv.Itoa(maxv), ext},
			{"NULL"}})
	default:
		body = fnCall("dissect_per_constrained_integer"+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree", "hf_index"},
			{"0", strconv.Itoa(maxv), "NULL", "NULL", ext}})
	}
	return out + e.fnBody(tname, et, body) + e.fnFtr(tname, et)
}

func (e *Emitter) nullFn(tname string, et *registry.EthType) string {
	var body string
	if e.NewAPI {
		body = fnCall("dissect_per_null"+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree"},
			{"hf_index", "item", "NULL"}})
	} else {
		body = "  { proto_item *ti_tmp;\n"
		body += fnCall("proto_tree_add_item", "ti_tmp",
			[][]string{{"tree", "hf_index", "tvb", "offset>>8", "0", "FALSE"}})
		body += fnCall("proto_item_append_text", "",
			[][]string{{"ti_tmp", `": NULL"`}})
		body += "  }\n"
	}
	return e.fnHdr(tname, et) + e.fnBody(tname, et, body) + e.fnFtr(tname, et)
}

// notDecodedFn covers variants the runtime has no decoder for.
func (e *Emitter) notDecodedFn(tname string, et *registry.EthType) string {
	body := fmt.Sprintf("  NOT_DECODED_YET(\"%s\");\n", tname)
	return e.fnHdr(tname, et) + e.fnBody(tname, et, body) + e.fnFtr(tname, et)
}

func (e *Emitter) oidFn(tname string, et *registry.EthType) string {
	var body string
	switch {
	case e.ber():
		body = fnCall("dissect_ber_object_identifier"+e.pvp(), "offset", [][]string{
			{"implicit_tag", "pinfo", "tree", "tvb", "offset"},
			{"hf_index", "NULL"}})
	case e.nPer():
		body = fnCall("dissect_per_object_identifier"+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree"},
			{"hf_index", "item", "NULL"}})
	default:
		body = fnCall("dissect_per_object_identifier"+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree", "hf_index"},
			{"NULL"}})
	}
	return e.fnHdr(tname, et) + e.fnBody(tname, et, body) + e.fnFtr(tname, et)
}

func (e *Emitter) octetStringFn(tname string, et *registry.EthType, os *ast.OctetString) string {
	minv, maxv, ext := sizeTriple(os)
	var body string
	switch {
	case e.ber():
		body = fnCall("dissect_ber_octet_string"+e.pvp(), "offset", [][]string{
			{"implicit_tag", "pinfo", "tree", "tvb", "offset", "hf_index"},
			{"NULL"}})
	case e.nPer():
		body = fnCall("dissect_per_octet_string"+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree"},
			{"hf_index", "item", "private_data"},
			{minv, maxv, ext},
			{"NULL", "NULL"}})
	default:
		body = fnCall("dissect_per_octet_string"+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree", "hf_index"},
			{minv, maxv},
			{"NULL", "NULL"}})
	}
	return e.fnHdr(tname, et) + e.fnBody(tname, et, body) + e.fnFtr(tname, et)
}

func (e *Emitter) bitStringFn(tname string, et *registry.EthType, bs *ast.BitString) string {
	out := ""
	bitsp := "NULL"
	if len(bs.Named) > 0 {
		out += e.bitsTable(tname, bs.Named)
		bitsp = tname + "_bits"
	}
	out += e.fnHdr(tname, et)
	minv, maxv, ext := sizeTriple(bs)
	tree := "-1"
	if et.Tree != "" {
		tree = et.Tree
	}
	var body string
	switch {
	case e.ber():
		body = fnCall("dissect_ber_bitstring"+e.pvp(), "offset", [][]string{
			{"implicit_tag", "pinfo", "tree", "tvb", "offset"},
			{bitsp, "hf_index", tree},
			{"NULL"}})
	case e.nPer():
		body = fnCall("dissect_per_bit_string"+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree"},
			{"hf_index", "item", "private_data"},
			{minv, maxv, ext},
			{"NULL", "NULL"}})
	default:
		body = fnCall("dissect_per_bit_string"+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree", "hf_index"},
			{minv, maxv}})
	}
	return out + e.fnBody(tname, et, body) + e.fnFtr(tname, et)
}

func (e *Emitter) charStringFn(tname string, et *registry.EthType, cs *ast.CharString) string {
	if cs.Kind == ast.GeneralizedTime && e.ber() {
		body := fnCall("dissect_ber_generalized_time"+e.pvp(), "offset",
			[][]string{{"pinfo", "tree", "tvb", "offset", "hf_index"}})
		return e.fnHdr(tname, et) + e.fnBody(tname, et, body) + e.fnFtr(tname, et)
	}
	if cs.Kind == ast.UnrestrictedString {
		return e.notDecodedFn(tname, et)
	}
	minv, maxv, ext := sizeTriple(cs)
	var body string
	switch {
	case e.ber():
		_, tn := e.Reg.GetTag(cs)
		body = fnCall("dissect_ber_restricted_string"+e.pvp(), "offset", [][]string{
			{"implicit_tag", tn},
			{"pinfo", "tree", "tvb", "offset", "hf_index"},
			{"NULL"}})
	case e.nPer():
		body = fnCall("dissect_per_"+cs.Kind.String()+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree"},
			{"hf_index", "item", "private_data"},
			{minv, maxv, ext},
			{"NULL", "NULL"}})
	default:
		body = fnCall("dissect_per_"+cs.Kind.String()+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree", "hf_index"},
			{minv, maxv}})
	}
	return e.fnHdr(tname, et) + e.fnBody(tname, et, body) + e.fnFtr(tname, et)
}

// elemKey resolves the canonical field key of a constructed-type member.
func elemKey(fname string, val ast.Type) string {
	if val.Base().IsNamed() {
		return fname + "/" + val.Base().FieldName
	}
	return fname + "/_item"
}

func (e *Emitter) sequenceFn(tname string, et *registry.EthType, sq *ast.Sequence) string {
	fname := et.Ref[0]
	var out string
	if e.ber() {
		out = fmt.Sprintf("static ber_sequence %s_sequence[] = {\n", tname)
	} else {
		out = fmt.Sprintf("static per_sequence%s_t %s_sequence%s[] = {\n", e.pvp(), tname, e.pvp())
	}
	rootExt := "ASN1_NO_EXTENSIONS"
	if sq.HasExt {
		rootExt = "ASN1_EXTENSION_ROOT"
	}
	for _, el := range sq.Elements {
		out += e.elemRow(elemKey(fname, el.Val), el.Val, el.Optional, rootExt)
	}
	for _, el := range sq.Ext {
		out += e.elemRow(elemKey(fname, el.Val), el.Val, el.Optional, "ASN1_NOT_EXTENSION_ROOT")
	}
	if e.ber() {
		out += "  { 0, 0, 0, NULL }\n};\n"
	} else {
		out += "  { NULL, 0, 0, NULL }\n};\n"
	}
	out += e.fnHdr(tname, et)
	var body string
	switch {
	case e.ber():
		body = fnCall("dissect_ber_sequence"+e.pvp(), "offset", [][]string{
			{"implicit_tag", "pinfo", "tree", "tvb", "offset"},
			{tname + "_sequence", "hf_index", et.Tree}})
	case e.nPer():
		body = fnCall("dissect_per_sequence"+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree"},
			{"hf_index", "item", "private_data"},
			{et.Tree, tname + "_sequence" + e.pvp(), `"` + tname + `"`}})
	default:
		body = fnCall("dissect_per_sequence"+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree", "hf_index"},
			{et.Tree, tname + "_sequence" + e.pvp()}})
	}
	return out + e.fnBody(tname, et, body) + e.fnFtr(tname, et)
}

// setFn emits a SET through the new-API PER set decoder; an empty body
// yields an empty element table.
func (e *Emitter) setFn(tname string, et *registry.EthType, st *ast.Set) string {
	fname := et.Ref[0]
	out := fmt.Sprintf("static per_set_new_t %s_sequence_new[] = {\n", tname)
	rootExt := "ASN1_NO_EXTENSIONS"
	if st.HasExt {
		rootExt = "ASN1_EXTENSION_ROOT"
	}
	for _, el := range st.Elements {
		out += e.elemRow(elemKey(fname, el.Val), el.Val, el.Optional, rootExt)
	}
	for _, el := range st.Ext {
		out += e.elemRow(elemKey(fname, el.Val), el.Val, el.Optional, "ASN1_NOT_EXTENSION_ROOT")
	}
	out += "  { NULL, 0, 0, NULL }\n};\n"
	out += e.fnHdr(tname, et)
	body := "  offset = dissect_per_set_new(tvb, offset, pinfo, tree,\n" +
		"                               hf_index, item, private_data,\n" +
		fmt.Sprintf("                               %s, %s_sequence_new, \"%s\");\n", et.Tree, tname, tname)
	return out + e.fnBody(tname, et, body) + e.fnFtr(tname, et)
}

func (e *Emitter) choiceFn(tname string, et *registry.EthType, ch *ast.Choice) string {
	r := e.Reg
	fname := et.Ref[0]
	tagval := e.choiceTagval(ch)
	out := "\n"
	if e.ber() {
		out += fmt.Sprintf("static ber_choice %s_choice[] = {\n", tname)
	} else {
		out += fmt.Sprintf("static per_choice%s_t %s_choice%s[] = {\n", e.pvp(), tname, e.pvp())
	}
	rootExt := "ASN1_NO_EXTENSIONS"
	if ch.HasExt {
		rootExt = "ASN1_EXTENSION_ROOT"
	}
	cnt := 0
	row := func(a ast.Type, ext string) string {
		val := strconv.Itoa(cnt)
		if tagval {
			_, val = r.GetTag(a)
		}
		cnt++
		f := fname + "/" + a.Base().FieldName
		ef := r.Fields[f].EthName
		efd := ef
		if r.Fields[f].Impl {
			efd += "_impl"
		}
		switch {
		case e.ber():
			tc, tn := r.GetTag(a)
			opt := "0"
			if !a.Base().HasOwnTag() {
				opt = "BER_FLAGS_NOOWNTAG"
			} else if r.ImplicitTagOf(a) {
				opt = "BER_FLAGS_IMPLTAG"
			}
			return fmt.Sprintf("  { %3s, %-13s, %s, %s, dissect_%s },\n", val, tc, tn, opt, efd)
		case e.nPer():
			hf := r.EthHFs[ef]
			return fmt.Sprintf("  { %3s, &%-30s, %-23s, dissect_%s_%s },\n",
				val, hf.FullName, ext, r.EthTypes[hf.EthType].Proto, hf.EthType)
		default:
			return fmt.Sprintf("  { %3s, %-30s, %-23s, dissect_%s },\n",
				val, `"`+a.Base().FieldName+`"`, ext, efd)
		}
	}
	for _, a := range ch.Alts {
		out += row(a, rootExt)
	}
	for _, a := range ch.Ext {
		out += row(a, "ASN1_NOT_EXTENSION_ROOT")
	}
	if e.ber() {
		out += "  { 0, 0, 0, 0, NULL }\n};\n"
	} else {
		out += "  { 0, NULL, 0, NULL }\n};\n"
	}
	out += e.fnHdr(tname, et)
	var body string
	switch {
	case e.ber():
		body = fnCall("dissect_ber_choice"+e.pvp(), "offset", [][]string{
			{"pinfo", "tree", "tvb", "offset"},
			{tname + "_choice", "hf_index", et.Tree}})
	case e.nPer():
		body = fnCall("dissect_per_choice"+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree"},
			{"hf_index", "item", "private_data"},
			{et.Tree, tname + "_choice" + e.pvp(), `"` + tname + `"`},
			{"NULL"}})
	default:
		body = fnCall("dissect_per_choice"+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree", "hf_index"},
			{et.Tree, tname + "_choice" + e.pvp(), `"` + tname + `"`},
			{"NULL"}})
	}
	return out + e.fnBody(tname, et, body) + e.fnFtr(tname, et)
}

// seqOfFn emits SEQUENCE OF and SET OF. BER gets a one-row element table;
// legacy PER SET OF has no decoder and emits an #error marker.
func (e *Emitter) seqOfFn(tname string, et *registry.EthType, item ast.Type, isSequence bool) string {
	r := e.Reg
	fname := et.Ref[0]
	f := elemKey(fname, item)
	ef := r.Fields[f].EthName
	kind := "set_of"
	if isSequence {
		kind = "sequence_of"
	}
	out := ""
	if e.ber() {
		out = fmt.Sprintf("static ber_sequence %s_%s[1] = {\n", tname, kind)
		out += e.elemRow(f, item, false, "")
		out += "};\n"
	}
	out += e.fnHdr(tname, et)
	var body string
	switch {
	case e.ber():
		body = fnCall("dissect_ber_"+kind+e.pvp(), "offset", [][]string{
			{"implicit_tag", "pinfo", "tree", "tvb", "offset"},
			{tname + "_" + kind, "hf_index", et.Tree}})
	case e.nPer():
		hf := r.EthHFs[ef]
		body = fnCall("dissect_per_"+kind+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree"},
			{"hf_index", "item", "private_data"},
			{et.Tree, hf.FullName, fmt.Sprintf("dissect_%s_%s", r.EthTypes[hf.EthType].Proto, hf.EthType)}})
	case isSequence:
		body = fnCall("dissect_per_"+kind+e.pvp(), "offset", [][]string{
			{"tvb", "offset", "pinfo", "tree", "hf_index"},
			{et.Tree, "dissect_" + ef}})
	default:
		body = fmt.Sprintf("#error Can not decode %s\n", tname)
	}
	return out + e.fnBody(tname, et, body) + e.fnFtr(tname, et)
}

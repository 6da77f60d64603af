// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package registry

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/playbymail/asn2eth/internal/ast"
	"github.com/playbymail/asn2eth/internal/conform"
)

var bitmasks = [8]string{"0x80", "0x40", "0x20", "0x10", "0x08", "0x04", "0x02", "0x01"}

// Prepare resolves the registered tables into the emission model: wire
// names with collision resolution, merged attribute bags, subtree handles,
// value-dependency export propagation, and the dependency-ordered type
// list with its cycles.
func (r *Registry) Prepare() {
	r.prepareTypes()
	r.prepareValues()
	r.prepareFields()
	r.resolveRefs()
	r.prepareTypeOrder()
	r.prepareValueOrder()
	r.duplReport()
}

// prepareTypes assigns a wire name to every registered type and merges
// the per-name flags.
func (r *Registry) prepareTypes() {
	r.EthTypes = make(map[string]*EthType)
	r.EthTypeDupl = make(map[string][]string)

	for _, t := range r.TypeImp {
		r.EthTypes[t] = &EthType{Import: r.Types[t].Import, Proto: r.Types[t].Proto, Attr: make(map[string]string)}
		r.Types[t].EthName = t
	}
	for _, t := range r.TypeOrd {
		e := r.Types[t]
		nm := e.TName
		if strings.Contains(nm, "#") ||
			(isPath(t) && r.Conform.FnPresent(t) && !r.Conform.Check(conform.TblTypeRename, t)) {
			parts := strings.Split(t, "/")
			switch {
			case len(parts) == 2 && parts[1] == itemKey:
				nm = parts[0] + parts[1]
			case parts[len(parts)-1] == itemKey:
				nm = "T_" + parts[len(parts)-2] + parts[len(parts)-1]
			default:
				nm = "T_" + parts[len(parts)-1]
			}
			nm = safeName(nm)
			if _, taken := r.EthTypes[nm]; taken {
				if _, dup := r.EthTypeDupl[nm]; !dup {
					r.EthTypeDupl[nm] = []string{r.EthTypes[nm].Ref[0], t}
				} else {
					r.EthTypeDupl[nm] = append(r.EthTypeDupl[nm], t)
				}
				nm += strconv.Itoa(len(r.EthTypeDupl[nm]) - 1)
			}
		}
		if et, ok := r.EthTypes[nm]; ok {
			et.Ref = append(et.Ref, t)
		} else {
			et = &EthType{
				Proto:   r.Proto,
				UserDef: conform.FlagWithVals,
				NoEmit:  conform.FlagWithVals,
				Val:     e.Val,
				Attr:    make(map[string]string),
				Ref:     []string{t},
			}
			mergeAttrs(et.Attr, r.Conform.UseAttrs(conform.TblETypeAttr, nm))
			if e.Attr["STRINGS"] == "$$" {
				et.Attr["STRINGS"] = fmt.Sprintf("VALS(%s_vals)", nm)
			}
			r.EthTypes[nm] = et
			r.EthTypeOrd = append(r.EthTypeOrd, nm)
		}
		e.EthName = nm
		et := r.EthTypes[nm]
		if et.Export == 0 && e.Export != 0 {
			r.EthExportOrd = append(r.EthExportOrd, nm)
		}
		et.Export |= e.Export
		et.UserDef &= e.UserDef
		et.NoEmit &= e.NoEmit
	}
	for _, nm := range r.EthTypeOrd {
		et := r.EthTypes[nm]
		for _, bit := range NamedBitsOf(et.Val) {
			val, _ := strconv.Atoi(bit.Val)
			r.NamedBits = append(r.NamedBits, NamedBit{
				Name:    bit.Ident,
				Val:     val,
				EthName: fmt.Sprintf("hf_%s_%s_%s", r.Proto, nm, bit.Ident),
				FType:   "FT_BOOLEAN",
				Display: "8",
				Strings: "NULL",
				Bitmask: bitmasks[val%8],
			})
		}
		if NeedTree(et.Val) {
			et.Tree = fmt.Sprintf("ett_%s_%s", r.Proto, nm)
		}
	}
}

// prepareValues computes value dependencies, propagates the export bit
// through the closure, and assigns value wire names.
func (r *Registry) prepareValues() {
	for _, v := range r.ValueOrd {
		if dep := valueDep(r.Values[v].Val); dep != "" {
			if _, ok := r.Values[dep]; ok {
				r.ValueDep[v] = append(r.ValueDep[v], dep)
			}
		}
	}
	for _, v := range r.ValueOrd {
		if r.Values[v].Export == 0 {
			continue
		}
		deparr := append([]string{}, r.ValueDep[v]...)
		for len(deparr) > 0 {
			d := deparr[len(deparr)-1]
			deparr = deparr[:len(deparr)-1]
			de, ok := r.Values[d]
			if !ok || de.Import != "" {
				continue
			}
			if de.Export == 0 {
				de.Export = conform.FlagWithoutVals
				deparr = append(deparr, r.ValueDep[d]...)
			}
		}
	}

	r.EthValues = make(map[string]*EthValue)
	for _, v := range r.ValueImp {
		nm := safeName(v)
		r.EthValues[nm] = &EthValue{Import: r.Values[v].Import, Proto: r.Values[v].Proto}
		r.Values[v].EthName = nm
	}
	for _, v := range r.ValueOrd {
		nm := safeName(v)
		r.EthValues[nm] = &EthValue{
			Proto:  r.Proto,
			Export: r.Values[v].Export,
			Value:  renderValue(r.Values[v].Val),
			Ref:    []string{v},
		}
		r.EthValueOrd = append(r.EthValueOrd, nm)
		r.Values[v].EthName = nm
	}
}

// dummyImport synthesises a placeholder import for a referenced type that
// was never declared and not imported.
func (r *Registry) dummyImport(t string) {
	r.Log.Warnf("dummy imported: %s", t)
	r.Types[t] = &TypeEntry{Import: dummyProto, Proto: dummyProto, EthName: t, Attr: defaultAttrs()}
	r.EthTypes[t] = &EthType{Import: dummyProto, Proto: dummyProto, Attr: make(map[string]string)}
}

// EthGetTypeAttr merges the attribute bags along a type-reference chain;
// the outermost layer wins.
func (r *Registry) EthGetTypeAttr(typeKey string) map[string]string {
	chain := []string{typeKey}
	for {
		e := r.Types[typeKey]
		if e == nil || e.Import != "" {
			break
		}
		ref, ok := e.Val.(*ast.TypeRef)
		if !ok {
			break
		}
		typeKey = ref.Val
		if _, ok := r.Types[typeKey]; !ok {
			break
		}
		chain = append(chain, typeKey)
	}
	attr := make(map[string]string)
	for i := len(chain) - 1; i >= 0; i-- {
		e := r.Types[chain[i]]
		mergeAttrs(attr, e.Attr)
		if et, ok := r.EthTypes[e.EthName]; ok {
			mergeAttrs(attr, et.Attr)
		}
	}
	return attr
}

// prepareFields assigns wire names to fields, resolving collisions by
// underlying type: a re-occurring name with the same type is shared,
// anything else gets a numeric suffix.
func (r *Registry) prepareFields() {
	r.EthHFs = make(map[string]*EthHF)
	r.EthHFDupl = make(map[string]map[string]string)

	for _, f := range r.FieldOrd {
		fe := r.Fields[f]
		var nm, name string
		if isPath(f) && lastElem(f) == itemKey {
			parts := strings.Split(f, "/")
			nm = parts[len(parts)-2] + parts[len(parts)-1]
			name = "Item"
		} else {
			nm = lastElem(f)
			name = nm
		}
		name += fe.Idx
		abbrev := safeName(nm)
		nm = safeName(r.Conform.UseString(conform.TblFieldRename, f, nm))

		t := fe.Type
		if _, ok := r.Types[t]; !ok {
			r.dummyImport(t)
		}
		ethtype := r.Types[t].EthName
		ethtypemod := ethtype + fe.Modified

		if prev, taken := r.EthHFs[nm]; taken {
			if dupl, ok := r.EthHFDupl[nm]; ok {
				if shared, ok := dupl[ethtypemod]; ok {
					r.EthHFs[shared].Ref = append(r.EthHFs[shared].Ref, f)
					fe.EthName = shared
					continue
				}
				nmx := nm + strconv.Itoa(len(dupl))
				dupl[ethtypemod] = nmx
				nm = nmx
			} else if prev.EthType+prev.Modified == ethtypemod {
				prev.Ref = append(prev.Ref, f)
				fe.EthName = nm
				continue
			} else {
				r.EthHFDupl[nm] = map[string]string{
					prev.EthType + prev.Modified: nm,
					ethtypemod:                   nm + "1",
				}
				nm += "1"
			}
		}
		attr := r.EthGetTypeAttr(fe.Type)
		mergeAttrs(attr, fe.Attr)
		attr["NAME"] = `"` + name + `"`
		attr["ABBREV"] = abbrev
		mergeAttrs(attr, r.Conform.UseAttrs(conform.TblEFieldAttr, nm))
		r.EthHFOrd = append(r.EthHFOrd, nm)
		r.EthHFs[nm] = &EthHF{
			FullName: fmt.Sprintf("hf_%s_%s", r.Proto, nm),
			EthType:  ethtype,
			Modified: fe.Modified,
			Attr:     attr,
			Ref:      []string{f},
		}
		fe.EthName = nm
	}
}

// resolveRefs synthesises dummy imports for type references that no field
// resolved: top-level aliases to types that were never declared.
func (r *Registry) resolveRefs() {
	for _, t := range r.TypeOrd {
		ref, ok := r.Types[t].Val.(*ast.TypeRef)
		if !ok {
			continue
		}
		if _, ok := r.Types[ref.Val]; !ok {
			r.dummyImport(ref.Val)
		}
	}
}

// prepareTypeOrder runs the dependency DFS: post-order (each type after the
// types it depends on) becomes the emission order, and every back-edge records a cycle canonicalised to
// start at its earliest-declared member.
func (r *Registry) prepareTypeOrder() {
	r.CycleHead = make(map[string][]int)
	ordIdx := make(map[string]int, len(r.TypeOrd))
	for i, t := range r.TypeOrd {
		ordIdx[t] = i
	}
	emitted := make(map[string]bool)
	for _, root := range r.TypeOrd {
		if emitted[r.Types[root].EthName] {
			continue
		}
		stack := []string{root}
		pending := map[string][]string{root: append([]string{}, r.TypeDep[root]...)}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if deps := pending[top]; len(deps) > 0 {
				d := deps[0]
				pending[top] = deps[1:]
				de, ok := r.Types[d]
				if !ok || de.Import != "" || emitted[de.EthName] {
					continue
				}
				if _, onStack := pending[d]; onStack {
					r.recordCycle(stack, d, ordIdx)
					continue
				}
				stack = append(stack, d)
				pending[d] = append([]string{}, r.TypeDep[d]...)
				continue
			}
			delete(pending, top)
			stack = stack[:len(stack)-1]
			if nm := r.Types[top].EthName; !emitted[nm] {
				r.EthTypeOrd1 = append(r.EthTypeOrd1, nm)
				emitted[nm] = true
			}
		}
	}
}

// recordCycle slices the DFS stack from the first occurrence of d and
// stores the cycle rotated to its minimum-index vertex.
func (r *Registry) recordCycle(stack []string, d string, ordIdx map[string]int) {
	start := 0
	for i, s := range stack {
		if s == d {
			start = i
			break
		}
	}
	cyc := append([]string{}, stack[start:]...)
	minAt := 0
	for i, s := range cyc {
		if ordIdx[s] < ordIdx[cyc[minAt]] {
			minAt = i
		}
	}
	cyc = append(cyc[minAt:], cyc[:minAt]...)
	idx := len(r.DepCycles)
	r.DepCycles = append(r.DepCycles, cyc)
	head := r.Types[cyc[0]].EthName
	r.CycleHead[head] = append(r.CycleHead[head], idx)
}

// InCycle reports whether the wire-named type is a member of any recorded
// cycle.
func (r *Registry) InCycle(ethName string) bool {
	for _, cyc := range r.DepCycles {
		for _, t := range cyc {
			if r.Types[t].EthName == ethName {
				return true
			}
		}
	}
	return false
}

// prepareValueOrder splits values into the local definition list and the
// exported list.
func (r *Registry) prepareValueOrder() {
	for _, v := range r.EthValueOrd {
		if r.EthValues[v].Export != 0 {
			r.EthVExportOrd = append(r.EthVExportOrd, v)
		} else {
			r.EthValueOrd1 = append(r.EthValueOrd1, v)
		}
	}
}

// duplReport warns about every wire name that needed suffixing; explicit
// renaming is recommended.
func (r *Registry) duplReport() {
	var names []string
	for nm := range r.EthTypeDupl {
		names = append(names, nm)
	}
	sort.Strings(names)
	for _, nm := range names {
		msg := fmt.Sprintf("the same type name %q for different types, explicit type renaming is recommended:", nm)
		for i, t := range r.EthTypeDupl[nm] {
			suffix := ""
			if i > 0 {
				suffix = strconv.Itoa(i)
			}
			msg += fmt.Sprintf(" %s=%s", nm+suffix, t)
		}
		r.Log.Warn(msg)
	}
	names = names[:0]
	for nm := range r.EthHFDupl {
		names = append(names, nm)
	}
	sort.Strings(names)
	for _, nm := range names {
		msg := fmt.Sprintf("the same field name %q for different types, explicit field renaming is recommended:", nm)
		var alts []string
		for _, alt := range r.EthHFDupl[nm] {
			alts = append(alts, alt)
		}
		sort.Strings(alts)
		for _, alt := range alts {
			msg += fmt.Sprintf(" %s=%s", alt, strings.Join(r.EthHFs[alt].Ref, ","))
		}
		r.Log.Warn(msg)
	}
}

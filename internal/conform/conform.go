// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package conform

import (
	"bufio"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Export flags. Bit 0 governs the dissector function, bit 1 the value
// table. The same flag set serves EXPORTS, USER_DEFINED, and NO_EMIT.
const (
	FlagWithoutVals = 0x01
	FlagOnlyVals    = 0x02
	FlagWithVals    = 0x03
)

// table names
const (
	TblExports        = "EXPORTS"
	TblPDU            = "PDU"
	TblUserDefined    = "USER_DEFINED"
	TblNoEmit         = "NO_EMIT"
	TblModuleImport   = "MODULE_IMPORT"
	TblOmitAssignment = "OMIT_ASSIGNMENT"
	TblTypeRename     = "TYPE_RENAME"
	TblFieldRename    = "FIELD_RENAME"
	TblImportTag      = "IMPORT_TAG"
	TblFnPars         = "FN_PARS"
	TblTypeAttr       = "TYPE_ATTR"
	TblETypeAttr      = "ETYPE_ATTR"
	TblFieldAttr      = "FIELD_ATTR"
	TblEFieldAttr     = "EFIELD_ATTR"
)

// function-text contexts
const (
	FnHdr  = "FN_HDR"
	FnFtr  = "FN_FTR"
	FnBody = "FN_BODY"
)

type tblCfg struct {
	chkDup bool
	chkUse bool
}

var tblCfgs = map[string]tblCfg{
	TblExports:        {chkDup: true, chkUse: true},
	TblPDU:            {chkDup: true, chkUse: true},
	TblUserDefined:    {chkDup: true, chkUse: true},
	TblNoEmit:         {chkDup: true, chkUse: true},
	TblModuleImport:   {chkDup: true, chkUse: true},
	TblOmitAssignment: {chkDup: true, chkUse: true},
	TblTypeRename:     {chkDup: true, chkUse: true},
	TblFieldRename:    {chkDup: true, chkUse: true},
	TblImportTag:      {chkDup: true, chkUse: false},
	TblFnPars:         {chkDup: true, chkUse: true},
	TblTypeAttr:       {chkDup: true, chkUse: false},
	TblETypeAttr:      {chkDup: true, chkUse: false},
	TblFieldAttr:      {chkDup: true, chkUse: true},
	TblEFieldAttr:     {chkDup: true, chkUse: true},
}

// row is one directive-table entry. The payload fields used depend on the
// table the row belongs to.
type row struct {
	file  string
	line  int
	used  bool
	flag  int
	text  string            // proto or new name
	omit  bool
	ttag  [2]string         // IMPORT_TAG class, number
	attrs map[string]string // attribute bags
}

type fnText struct {
	text string
	file string
	line int
	used bool
}

// Conform holds the directive tables read from conformance files. Reads
// are additive: a later file extends the tables of an earlier one.
type Conform struct {
	Log    *logrus.Logger
	tables map[string]map[string]*row
	fn     map[string]map[string]*fnText // name -> FN_HDR/FN_FTR/FN_BODY
}

func New(log *logrus.Logger) *Conform {
	if log == nil {
		log = logrus.StandardLogger()
	}
	cf := &Conform{Log: log, tables: make(map[string]map[string]*row), fn: make(map[string]map[string]*fnText)}
	for t := range tblCfgs {
		cf.tables[t] = make(map[string]*row)
	}
	return cf
}

func (cf *Conform) warnf(file string, line int, format string, args ...any) {
	cf.Log.WithFields(logrus.Fields{"file": file, "line": line}).Warnf(format, args...)
}

func (cf *Conform) add(table, key string, r *row) {
	if tblCfgs[table].chkDup {
		if prev, ok := cf.tables[table][key]; ok {
			cf.warnf(r.file, r.line, "duplicated %s for %s, previous one is at %s:%d", table, key, prev.file, prev.line)
			return
		}
	}
	cf.tables[table][key] = r
}

// Check reports whether the table has a row for key without marking it
// used.
func (cf *Conform) Check(table, key string) bool {
	_, ok := cf.tables[table][key]
	return ok
}

func (cf *Conform) use(table, key string) *row {
	r, ok := cf.tables[table][key]
	if !ok {
		return nil
	}
	r.used = true
	return r
}

// UseFlag returns the flag for key, or zero.
func (cf *Conform) UseFlag(table, key string) int {
	if r := cf.use(table, key); r != nil {
		return r.flag
	}
	return 0
}

// UseString returns the string payload for key, or dflt.
func (cf *Conform) UseString(table, key, dflt string) string {
	if r := cf.use(table, key); r != nil {
		return r.text
	}
	return dflt
}

// UseOmit reports whether the assignment is omitted.
func (cf *Conform) UseOmit(key string) bool {
	if r := cf.use(TblOmitAssignment, key); r != nil {
		return r.omit
	}
	return false
}

// UseAttrs returns the attribute bag for key; nil when absent.
func (cf *Conform) UseAttrs(table, key string) map[string]string {
	if r := cf.use(table, key); r != nil {
		return r.attrs
	}
	return nil
}

// UseTag returns the IMPORT_TAG class and number for key.
func (cf *Conform) UseTag(key string) (cls, num string, ok bool) {
	if r := cf.use(TblImportTag, key); r != nil {
		return r.ttag[0], r.ttag[1], true
	}
	return "", "", false
}

// FnPresent reports whether any function text exists for name.
func (cf *Conform) FnPresent(name string) bool {
	return len(cf.fn[name]) > 0
}

// FnBodyPresent reports whether a FN_BODY override exists for name.
func (cf *Conform) FnBodyPresent(name string) bool {
	_, ok := cf.fn[name][FnBody]
	return ok
}

// FnText returns the accumulated text for one context of name, marking it
// used. Absent text reads as the empty string.
func (cf *Conform) FnText(name, ctx string) string {
	ft, ok := cf.fn[name][ctx]
	if !ok {
		return ""
	}
	ft.used = true
	return ft.text
}

func (cf *Conform) addFnLine(name, ctx, line, file string, lineno int) {
	if cf.fn[name] == nil {
		cf.fn[name] = make(map[string]*fnText)
	}
	if ft, ok := cf.fn[name][ctx]; ok {
		ft.text += line
		return
	}
	cf.fn[name][ctx] = &fnText{text: line, file: file, line: lineno}
}

var (
	rxDirective = regexp.MustCompile(`^\s*#\.(?P<name>[A-Z_]+)\s*`)
	rxComment   = regexp.MustCompile(`^\s*#[^.]`)
	rxEmpty     = regexp.MustCompile(`^\s*$`)
	rxAttr      = regexp.MustCompile(`(^|\s)(?P<attr>[_A-Z][_A-Z0-9]*)\s*=\s*`)
)

var flagContexts = map[string]bool{TblExports: true, TblUserDefined: true, TblNoEmit: true, TblPDU: true}
var attrContexts = map[string]bool{TblTypeAttr: true, TblETypeAttr: true, TblFieldAttr: true, TblEFieldAttr: true}

// getPar splits a directive row into whitespace-separated parameters,
// honoring "-" as an absent value and "#" as an inline comment.
func (cf *Conform) getPar(line string, pmin, pmax int, file string, lineno int) []string {
	par := strings.Fields(line)
	for i := range par {
		if par[i] == "-" {
			par[i] = ""
			continue
		}
		if par[i][0] == '#' {
			par = par[:i]
			break
		}
	}
	if len(par) < pmin {
		cf.warnf(file, lineno, "too few parameters, at least %d parameters are required", pmin)
		return nil
	}
	if len(par) > pmax {
		cf.warnf(file, lineno, "too many parameters, only %d parameters are allowed", pmax)
		return par[:pmax]
	}
	return par
}

// getParNm splits one leading parameter and parses the remainder as a
// "KEY = VALUE ..." attribute bag. The "=" is literal; a value runs to the
// next KEY= or end of line.
func (cf *Conform) getParNm(line, file string, lineno int) (string, map[string]string) {
	fields := strings.SplitN(strings.TrimSpace(line), " ", 2)
	if len(fields) == 0 || fields[0] == "" || fields[0][0] == '#' {
		cf.warnf(file, lineno, "too few parameters")
		return "", nil
	}
	attrs := make(map[string]string)
	if len(fields) == 2 {
		nmpar := fields[1]
		locs := rxAttr.FindAllStringSubmatchIndex(nmpar, -1)
		for i, loc := range locs {
			key := nmpar[loc[4]:loc[5]]
			end := len(nmpar)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			attrs[key] = strings.TrimRight(nmpar[loc[1]:end], " \t")
		}
	}
	return fields[0], attrs
}

type frame struct {
	file    string
	scanner *bufio.Scanner
	closer  func() error
	lineno  int
}

// ReadFile reads one conformance file, following #.INCLUDE directives
// depth-first.
func (cf *Conform) ReadFile(fs afero.Fs, name string) error {
	push := func(fn string) (*frame, error) {
		f, err := fs.Open(fn)
		if err != nil {
			return nil, err
		}
		return &frame{file: fn, scanner: bufio.NewScanner(f), closer: f.Close}, nil
	}
	top, err := push(name)
	if err != nil {
		return err
	}
	stack := []*frame{top}
	ctx, ctxName := "", ""
	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		if !fr.scanner.Scan() {
			_ = fr.closer()
			stack = stack[:len(stack)-1]
			continue
		}
		fr.lineno++
		line := fr.scanner.Text()
		if rxComment.MatchString(line) {
			continue
		}
		if m := rxDirective.FindStringSubmatch(line); m != nil {
			dir := m[1]
			rest := line[len(m[0]):]
			switch {
			case dir == "END":
				ctx, ctxName = "", ""
			case dir == "INCLUDE":
				par := cf.getPar(rest, 1, 1, fr.file, fr.lineno)
				if par == nil {
					continue
				}
				sub, err := push(par[0])
				if err != nil {
					return fmt.Errorf("include %q: %w", par[0], err)
				}
				stack = append(stack, sub)
			case dir == FnHdr || dir == FnFtr || dir == FnBody:
				par := cf.getPar(rest, 1, 1, fr.file, fr.lineno)
				if par == nil {
					continue
				}
				ctx, ctxName = dir, par[0]
			case dir == TblFnPars:
				par := cf.getPar(rest, 0, 1, fr.file, fr.lineno)
				ctx = dir
				ctxName = ""
				if len(par) > 0 {
					ctxName = par[0]
				}
			default:
				if _, known := tblCfgs[dir]; known {
					ctx, ctxName = dir, ""
				} else {
					cf.warnf(fr.file, fr.lineno, "unknown directive %q", dir)
				}
			}
			continue
		}
		switch {
		case ctx == "":
			if !rxEmpty.MatchString(line) {
				cf.warnf(fr.file, fr.lineno, "non-empty line in empty context")
			}
		case ctx == FnHdr || ctx == FnFtr || ctx == FnBody:
			cf.addFnLine(ctxName, ctx, line+"\n", fr.file, fr.lineno)
		case rxEmpty.MatchString(line):
			// blank rows separate entries
		default:
			cf.tableRow(ctx, line, fr.file, fr.lineno)
		}
	}
	return nil
}

func (cf *Conform) tableRow(ctx, line, file string, lineno int) {
	switch {
	case flagContexts[ctx]:
		par := cf.getPar(line, 1, 2, file, lineno)
		if par == nil {
			return
		}
		flag := FlagWithVals
		if len(par) >= 2 {
			switch par[1] {
			case "WITH_VALS":
				flag = FlagWithVals
			case "WITHOUT_VALS":
				flag = FlagWithoutVals
			case "ONLY_VALS":
				flag = FlagOnlyVals
			default:
				cf.warnf(file, lineno, "unknown parameter value %q", par[1])
			}
		}
		cf.add(ctx, par[0], &row{file: file, line: lineno, flag: flag})
	case ctx == TblModuleImport:
		par := cf.getPar(line, 2, 2, file, lineno)
		if par == nil {
			return
		}
		cf.add(ctx, par[0], &row{file: file, line: lineno, text: par[1]})
	case ctx == TblImportTag:
		par := cf.getPar(line, 3, 3, file, lineno)
		if par == nil {
			return
		}
		cf.add(ctx, par[0], &row{file: file, line: lineno, ttag: [2]string{par[1], par[2]}})
	case ctx == TblOmitAssignment:
		par := cf.getPar(line, 1, 1, file, lineno)
		if par == nil {
			return
		}
		cf.add(ctx, par[0], &row{file: file, line: lineno, omit: true})
	case ctx == TblTypeRename || ctx == TblFieldRename:
		par := cf.getPar(line, 2, 2, file, lineno)
		if par == nil {
			return
		}
		cf.add(ctx, par[0], &row{file: file, line: lineno, text: par[1]})
	case attrContexts[ctx]:
		key, attrs := cf.getParNm(line, file, lineno)
		if key == "" {
			return
		}
		cf.add(ctx, key, &row{file: file, line: lineno, attrs: attrs})
	case ctx == TblFnPars:
		// accepted for compatibility; parameters have no code-generation
		// effect
	}
}

// UnusedReport warns about every unused row in usage-checked tables.
func (cf *Conform) UnusedReport() {
	var tables []string
	for t := range cf.tables {
		if tblCfgs[t].chkUse {
			tables = append(tables, t)
		}
	}
	sort.Strings(tables)
	for _, t := range tables {
		var keys []string
		for k := range cf.tables[t] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if r := cf.tables[t][k]; !r.used {
				cf.warnf(r.file, r.line, "unused %s for %s", t, k)
			}
		}
	}
}

// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package conform_test

import (
	"strings"
	"testing"

	"github.com/playbymail/asn2eth/internal/conform"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readConform(t *testing.T, files map[string]string, entry string) (*conform.Conform, *test.Hook) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0644))
	}
	log, hook := test.NewNullLogger()
	cf := conform.New(log)
	require.NoError(t, cf.ReadFile(fs, entry))
	return cf, hook
}

func warnings(hook *test.Hook) []string {
	var out []string
	for _, e := range hook.Entries {
		out = append(out, e.Message)
	}
	return out
}

func TestFlagTables(t *testing.T) {
	cf, _ := readConform(t, map[string]string{"x.cnf": `
#.EXPORTS
Alpha
Beta   WITHOUT_VALS
Gamma  ONLY_VALS
#.NO_EMIT
Delta  WITH_VALS
#.END
`}, "x.cnf")
	assert.Equal(t, conform.FlagWithVals, cf.UseFlag(conform.TblExports, "Alpha"))
	assert.Equal(t, conform.FlagWithoutVals, cf.UseFlag(conform.TblExports, "Beta"))
	assert.Equal(t, conform.FlagOnlyVals, cf.UseFlag(conform.TblExports, "Gamma"))
	assert.Equal(t, conform.FlagWithVals, cf.UseFlag(conform.TblNoEmit, "Delta"))
	assert.Equal(t, 0, cf.UseFlag(conform.TblExports, "Missing"))
}

func TestRenamesAndModuleImport(t *testing.T) {
	cf, _ := readConform(t, map[string]string{"x.cnf": `
#.TYPE_RENAME
Message  Msg
#.FIELD_RENAME
Outer/inner  innerField
#.MODULE_IMPORT
Other-Module  othermod
#.OMIT_ASSIGNMENT
Unwanted
#.END
`}, "x.cnf")
	assert.Equal(t, "Msg", cf.UseString(conform.TblTypeRename, "Message", "dflt"))
	assert.Equal(t, "innerField", cf.UseString(conform.TblFieldRename, "Outer/inner", "dflt"))
	assert.Equal(t, "othermod", cf.UseString(conform.TblModuleImport, "Other-Module", "dflt"))
	assert.Equal(t, "dflt", cf.UseString(conform.TblModuleImport, "Missing", "dflt"))
	assert.True(t, cf.UseOmit("Unwanted"))
	assert.False(t, cf.UseOmit("Wanted"))
}

func TestAttrBagsAndImportTag(t *testing.T) {
	cf, _ := readConform(t, map[string]string{"x.cnf": `
#.FIELD_ATTR
Outer/code  TYPE = FT_UINT16  DISPLAY = BASE_HEX
#.IMPORT_TAG
External  BER_CLASS_CON 7
#.END
`}, "x.cnf")
	attrs := cf.UseAttrs(conform.TblFieldAttr, "Outer/code")
	assert.Equal(t, "FT_UINT16", attrs["TYPE"])
	assert.Equal(t, "BASE_HEX", attrs["DISPLAY"])
	cls, num, ok := cf.UseTag("External")
	require.True(t, ok)
	assert.Equal(t, "BER_CLASS_CON", cls)
	assert.Equal(t, "7", num)
}

func TestFnText(t *testing.T) {
	cf, _ := readConform(t, map[string]string{"x.cnf": `
#.FN_BODY Message
  custom_line_one();
  custom_line_two();
#.FN_HDR Message
  guint32 value;
#.END
`}, "x.cnf")
	require.True(t, cf.FnPresent("Message"))
	require.True(t, cf.FnBodyPresent("Message"))
	assert.Equal(t, "  custom_line_one();\n  custom_line_two();\n", cf.FnText("Message", conform.FnBody))
	assert.Equal(t, "  guint32 value;\n", cf.FnText("Message", conform.FnHdr))
	assert.Equal(t, "", cf.FnText("Message", conform.FnFtr))
}

func TestIncludeDepthFirst(t *testing.T) {
	cf, _ := readConform(t, map[string]string{
		"outer.cnf": `
#.TYPE_RENAME
First  F
#.INCLUDE inner.cnf
#.TYPE_RENAME
Third  T
#.END
`,
		"inner.cnf": `
#.TYPE_RENAME
Second  S
#.END
`,
	}, "outer.cnf")
	assert.Equal(t, "F", cf.UseString(conform.TblTypeRename, "First", ""))
	assert.Equal(t, "S", cf.UseString(conform.TblTypeRename, "Second", ""))
	assert.Equal(t, "T", cf.UseString(conform.TblTypeRename, "Third", ""))
}

func TestDuplicateRowWarnsAndKeepsFirst(t *testing.T) {
	cf, hook := readConform(t, map[string]string{"x.cnf": `
#.TYPE_RENAME
Message  First
Message  Second
#.END
`}, "x.cnf")
	assert.Equal(t, "First", cf.UseString(conform.TblTypeRename, "Message", ""))
	found := false
	for _, msg := range warnings(hook) {
		if strings.Contains(msg, "duplicated TYPE_RENAME for Message") {
			found = true
		}
	}
	assert.True(t, found, "want duplicate warning, got %v", warnings(hook))
}

func TestUnknownDirectiveWarns(t *testing.T) {
	_, hook := readConform(t, map[string]string{"x.cnf": "#.BOGUS\n#.END\n"}, "x.cnf")
	found := false
	for _, msg := range warnings(hook) {
		if strings.Contains(msg, `unknown directive "BOGUS"`) {
			found = true
		}
	}
	assert.True(t, found, "want unknown-directive warning, got %v", warnings(hook))
}

func TestUnusedReport(t *testing.T) {
	cf, hook := readConform(t, map[string]string{"x.cnf": `
#.TYPE_RENAME
Used    U
Unused  X
#.END
`}, "x.cnf")
	cf.UseString(conform.TblTypeRename, "Used", "")
	hook.Reset()
	cf.UnusedReport()
	msgs := warnings(hook)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "unused TYPE_RENAME for Unused")
}

func TestCommentsAndStrayLines(t *testing.T) {
	_, hook := readConform(t, map[string]string{"x.cnf": `
# a comment outside any context
stray line
#.END
`}, "x.cnf")
	found := false
	for _, msg := range warnings(hook) {
		if strings.Contains(msg, "non-empty line in empty context") {
			found = true
		}
	}
	assert.True(t, found, "want stray-line warning, got %v", warnings(hook))
}

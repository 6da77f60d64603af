// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package registry_test

import (
	"strings"
	"testing"

	"github.com/go-test/deep"
	"github.com/playbymail/asn2eth/internal/conform"
	"github.com/playbymail/asn2eth/internal/parser"
	"github.com/playbymail/asn2eth/internal/registry"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, src, cnf string) (*registry.Registry, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	cf := conform.New(log)
	if cnf != "" {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "t.cnf", []byte(cnf), 0644))
		require.NoError(t, cf.ReadFile(fs, "t.cnf"))
	}
	mod, err := parser.Parse([]byte(src), parser.Config{})
	require.NoError(t, err)
	reg := registry.New("p", cf, log)
	require.NoError(t, reg.RegisterModule(mod))
	reg.Prepare()
	return reg, hook
}

func TestRegisterTopLevel(t *testing.T) {
	reg, _ := build(t, `
M DEFINITIONS ::= BEGIN
Age ::= INTEGER (0..120)
END
`, "")
	require.Contains(t, reg.Types, "Age")
	assert.Equal(t, "Age", reg.Types["Age"].EthName)
	attr := reg.EthGetTypeAttr("Age")
	assert.Equal(t, "FT_UINT32", attr["TYPE"])
	assert.Equal(t, "BASE_DEC", attr["DISPLAY"])
	assert.Equal(t, "NULL", attr["STRINGS"])
	assert.Equal(t, "0", attr["BITMASK"])
}

func TestCanonicalPathsAndWireNames(t *testing.T) {
	reg, _ := build(t, `
M DEFINITIONS ::= BEGIN
Outer ::= SEQUENCE {
  inner SEQUENCE { deep INTEGER },
  things SEQUENCE OF OCTET STRING
}
END
`, "")
	if diff := deep.Equal(reg.TypeOrd, []string{
		"Outer", "Outer/inner", "Outer/inner/deep", "Outer/things", "Outer/things/_item",
	}); diff != nil {
		t.Error(diff)
	}
	// anonymous inner SEQUENCE takes T_<field>; the sequence-of item takes
	// the shared OCTET_STRING name
	assert.Equal(t, "T_inner", reg.Types["Outer/inner"].EthName)
	assert.Equal(t, "OCTET_STRING", reg.Types["Outer/things/_item"].EthName)
	assert.Equal(t, "INTEGER", reg.Types["Outer/inner/deep"].EthName)
	// fields register in declaration order
	if diff := deep.Equal(reg.FieldOrd, []string{
		"Outer/inner", "Outer/inner/deep", "Outer/things", "Outer/things/_item",
	}); diff != nil {
		t.Error(diff)
	}
	assert.Equal(t, "things_item", reg.Fields["Outer/things/_item"].EthName)
	assert.Equal(t, "hf_p_things_item", reg.EthHFs["things_item"].FullName)
}

func TestSharedPrimitiveTypes(t *testing.T) {
	reg, _ := build(t, `
M DEFINITIONS ::= BEGIN
A ::= SEQUENCE { code OCTET STRING (SIZE (4)) }
B ::= SEQUENCE { tag OCTET STRING (SIZE (4)) }
END
`, "")
	// equal shapes share one emitted type
	assert.Equal(t, "OCTET_STRING_SIZE_4", reg.Types["A/code"].EthName)
	assert.Equal(t, "OCTET_STRING_SIZE_4", reg.Types["B/tag"].EthName)
	et := reg.EthTypes["OCTET_STRING_SIZE_4"]
	if diff := deep.Equal(et.Ref, []string{"A/code", "B/tag"}); diff != nil {
		t.Error(diff)
	}
}

func TestFieldCollisionResolution(t *testing.T) {
	reg, _ := build(t, `
M DEFINITIONS ::= BEGIN
A ::= SEQUENCE { id INTEGER }
B ::= SEQUENCE { id INTEGER }
C ::= SEQUENCE { id IA5String }
D ::= SEQUENCE { id OCTET STRING }
END
`, "")
	// same name, same underlying type: shared entry
	assert.Equal(t, "id", reg.Fields["A/id"].EthName)
	assert.Equal(t, "id", reg.Fields["B/id"].EthName)
	if diff := deep.Equal(reg.EthHFs["id"].Ref, []string{"A/id", "B/id"}); diff != nil {
		t.Error(diff)
	}
	// same name, different type: numeric suffix
	assert.Equal(t, "id1", reg.Fields["C/id"].EthName)
	assert.Equal(t, "id2", reg.Fields["D/id"].EthName)
}

func TestTypeCollisionResolution(t *testing.T) {
	reg, hook := build(t, `
M DEFINITIONS ::= BEGIN
A ::= SEQUENCE { x SEQUENCE { a INTEGER } }
B ::= SEQUENCE { x SEQUENCE { b BOOLEAN } }
END
`, "")
	assert.Equal(t, "T_x", reg.Types["A/x"].EthName)
	assert.Equal(t, "T_x1", reg.Types["B/x"].EthName)
	found := false
	for _, e := range hook.Entries {
		if strings.Contains(e.Message, "type renaming is recommended") {
			found = true
		}
	}
	assert.True(t, found, "want duplicate-type warning")
}

func TestCycleDetection(t *testing.T) {
	reg, _ := build(t, `
M DEFINITIONS ::= BEGIN
Tree ::= SEQUENCE { val INTEGER, children SEQUENCE OF Tree }
END
`, "")
	require.Len(t, reg.DepCycles, 1)
	if diff := deep.Equal(reg.DepCycles[0], []string{"Tree", "Tree/children"}); diff != nil {
		t.Error(diff)
	}
	assert.True(t, reg.InCycle("Tree"))
	assert.True(t, reg.InCycle("SEQUNCE_OF_Tree"))
	assert.False(t, reg.InCycle("INTEGER"))
	// emission order: dependencies before dependents, cycle members
	// resolved through the forward declaration
	if diff := deep.Equal(reg.EthTypeOrd1, []string{"INTEGER", "SEQUNCE_OF_Tree", "Tree"}); diff != nil {
		t.Error(diff)
	}
}

func TestMutualRecursionCanonicalisation(t *testing.T) {
	reg, _ := build(t, `
M DEFINITIONS ::= BEGIN
A ::= SEQUENCE { b B }
B ::= SEQUENCE { a A }
END
`, "")
	require.Len(t, reg.DepCycles, 1)
	// canonical form starts at the earliest-declared member
	assert.Equal(t, "A", reg.DepCycles[0][0])
}

func TestDummyImport(t *testing.T) {
	reg, hook := build(t, `
M DEFINITIONS ::= BEGIN
Msg ::= SEQUENCE { ext External }
END
`, "")
	require.Contains(t, reg.Types, "External")
	assert.Equal(t, "xxx", reg.Types["External"].Import)
	assert.Equal(t, "xxx", reg.Types["External"].Proto)
	found := false
	for _, e := range hook.Entries {
		if strings.Contains(e.Message, "dummy imported: External") {
			found = true
		}
	}
	assert.True(t, found, "want dummy-import warning")
}

func TestImportsUseModuleImportProto(t *testing.T) {
	reg, _ := build(t, `
M DEFINITIONS ::= BEGIN
IMPORTS External FROM Other-Module;
Msg ::= SEQUENCE { ext External }
END
`, `
#.MODULE_IMPORT
Other-Module  othermod
#.END
`)
	require.Contains(t, reg.Types, "External")
	assert.Equal(t, "Other-Module", reg.Types["External"].Import)
	assert.Equal(t, "othermod", reg.Types["External"].Proto)
}

func TestExportPropagation(t *testing.T) {
	reg, _ := build(t, `
M DEFINITIONS ::= BEGIN
base OBJECT IDENTIFIER ::= { iso standard(0) 42 }
child OBJECT IDENTIFIER ::= { base 7 }
grandchild OBJECT IDENTIFIER ::= { child 9 }
Exported ::= INTEGER
END
`, `
#.EXPORTS
Exported
#.END
`)
	// only the type is exported; the value chain stays local
	assert.Equal(t, 0, reg.Values["base"].Export)
	assert.Equal(t, conform.FlagWithVals, reg.EthTypes["Exported"].Export)
	if diff := deep.Equal(reg.EthExportOrd, []string{"Exported"}); diff != nil {
		t.Error(diff)
	}
}

func TestValueExportClosure(t *testing.T) {
	reg, _ := build(t, `
M DEFINITIONS ::= BEGIN
base OBJECT IDENTIFIER ::= { iso standard(0) 42 }
child OBJECT IDENTIFIER ::= { base 7 }
grandchild OBJECT IDENTIFIER ::= { child 9 }
END
`, `
#.EXPORTS
grandchild
#.END
`)
	// every value in the exported value's dependency closure carries the
	// export bit
	assert.NotZero(t, reg.Values["grandchild"].Export)
	assert.Equal(t, conform.FlagWithoutVals, reg.Values["child"].Export)
	assert.Equal(t, conform.FlagWithoutVals, reg.Values["base"].Export)
	if diff := deep.Equal(reg.EthVExportOrd, []string{"base", "child", "grandchild"}); diff != nil {
		t.Error(diff)
	}
}

func TestAttributeLayering(t *testing.T) {
	reg, _ := build(t, `
M DEFINITIONS ::= BEGIN
Outer ::= SEQUENCE { code Code }
Code ::= INTEGER (0..255)
END
`, `
#.TYPE_ATTR
Code  DISPLAY = BASE_HEX
#.EFIELD_ATTR
code  BITMASK = 0x0f
#.END
`)
	hf := reg.EthHFs["code"]
	require.NotNil(t, hf)
	// default <- variant inherent <- TYPE_ATTR <- EFIELD_ATTR
	assert.Equal(t, "FT_UINT32", hf.Attr["TYPE"])
	assert.Equal(t, "BASE_HEX", hf.Attr["DISPLAY"])
	assert.Equal(t, "0x0f", hf.Attr["BITMASK"])
	assert.Equal(t, `"code"`, hf.Attr["NAME"])
	assert.Equal(t, "code", hf.Attr["ABBREV"])
}

func TestOmitAssignment(t *testing.T) {
	reg, _ := build(t, `
M DEFINITIONS ::= BEGIN
Keep ::= INTEGER
Drop ::= INTEGER
END
`, `
#.OMIT_ASSIGNMENT
Drop
#.END
`)
	assert.Contains(t, reg.Assign, "Keep")
	assert.NotContains(t, reg.Assign, "Drop")
	assert.NotContains(t, reg.Types, "Drop")
}

func TestStringsPlaceholderResolves(t *testing.T) {
	reg, _ := build(t, `
M DEFINITIONS ::= BEGIN
Color ::= ENUMERATED { red, green, blue }
Msg ::= SEQUENCE { c Color }
END
`, "")
	assert.Equal(t, "VALS(Color_vals)", reg.EthTypes["Color"].Attr["STRINGS"])
	assert.Equal(t, "VALS(Color_vals)", reg.EthHFs["c"].Attr["STRINGS"])
}

func TestDuplicateAssignmentFatal(t *testing.T) {
	log, _ := test.NewNullLogger()
	mod, err := parser.Parse([]byte(`
M DEFINITIONS ::= BEGIN
Age ::= INTEGER
Age ::= BOOLEAN
END
`), parser.Config{})
	require.NoError(t, err)
	reg := registry.New("p", conform.New(log), log)
	err = reg.RegisterModule(mod)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate assignment")
}

// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package splice_test

import (
	"testing"

	"github.com/playbymail/asn2eth/internal/splice"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	template := `/* header */
#include "packet-p-hf.c"
#include "unrelated.h"
#include "packet-p-missing.c"
int main(void) { return 0; }
`
	require.NoError(t, afero.WriteFile(fs, "packet-p-template.c", []byte(template), 0644))
	require.NoError(t, afero.WriteFile(fs, "packet-p-hf.c", []byte("static int hf_p_age = -1;\n"), 0644))

	err := splice.File(fs, "packet-p.c", "packet-p-template.c",
		[]string{"packet-p-hf.c", "packet-p-missing.c"})
	require.NoError(t, err)

	out, err := afero.ReadFile(fs, "packet-p.c")
	require.NoError(t, err)
	want := `/* header */
/*--- Included file: packet-p-hf.c ---*/
static int hf_p_age = -1;
/*--- End of included file: packet-p-hf.c ---*/
#include "unrelated.h"
#include "packet-p-missing.c"
int main(void) { return 0; }
`
	assert.Equal(t, want, string(out))

	// the fragment is deleted after copying
	ok, err := afero.Exists(fs, "packet-p-hf.c")
	require.NoError(t, err)
	assert.False(t, ok)
	// the template itself is untouched
	ok, err = afero.Exists(fs, "packet-p-template.c")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileInPlace(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "out.c", []byte("#include \"frag.c\"\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "frag.c", []byte("body();\n"), 0644))
	require.NoError(t, splice.File(fs, "out.c", "out.c", []string{"frag.c"}))
	out, err := afero.ReadFile(fs, "out.c")
	require.NoError(t, err)
	assert.Equal(t, "/*--- Included file: frag.c ---*/\nbody();\n/*--- End of included file: frag.c ---*/\n", string(out))
}

func TestMissingTemplate(t *testing.T) {
	fs := afero.NewMemMapFs()
	err := splice.File(fs, "out.c", "no-such-template.c", nil)
	require.Error(t, err)
}

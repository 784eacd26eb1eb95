package modelconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFlagsMap(t *testing.T) {
	m := DefaultFlags().Map()
	assert.True(t, m["XADDR"])
	assert.True(t, m["KLPAGE"])
	assert.False(t, m["SMP"])
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.toml")
	require.NoError(t, os.WriteFile(path, []byte("smp = true\nxaddr = false\n"), 0o644))

	flags, err := Load(path)
	require.NoError(t, err)
	assert.True(t, flags.SMP)
	assert.False(t, flags.XAddr)
	assert.True(t, flags.KLPage, "fields absent from the file keep the default")
}

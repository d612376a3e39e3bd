package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/fsio/internal/fserr"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filter.rules")
	content := `# comment
+ *.go
- *.log

- build/
noprefix.txt`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c := NewChain()
	require.NoError(t, c.LoadFile(path))

	rules := c.Rules()
	require.Len(t, rules, 4)
	assert.Equal(t, Include, rules[0].Action)
	assert.Equal(t, Exclude, rules[1].Action)
	assert.Equal(t, Exclude, rules[2].Action)
	assert.Equal(t, Exclude, rules[3].Action)

	assert.True(t, c.Match("main.go", false, 100))
	assert.False(t, c.Match("app.log", false, 100))
	assert.True(t, c.Prune("build"))
	assert.False(t, c.Match("noprefix.txt", false, 100))
}

func TestLoadFileClearRule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clear.rules")
	require.NoError(t, os.WriteFile(path, []byte("- *.tmp\n!\n+ keep.tmp\r\n"), 0o644))

	c := NewChain()
	require.NoError(t, c.LoadFile(path))
	require.Len(t, c.Rules(), 1)
	assert.Equal(t, "+ keep.tmp", c.Rules()[0].String())
}

func TestLoadFileCommentsOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.rules")
	require.NoError(t, os.WriteFile(path, []byte("# only comments\n\n"), 0o644))

	c := NewChain()
	require.NoError(t, c.LoadFile(path))
	assert.Empty(t, c.Rules())
}

func TestLoadFileMissing(t *testing.T) {
	err := NewChain().LoadFile(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, fserr.ErrNotFound)
}

func TestParseReportsLine(t *testing.T) {
	err := NewChain().Parse("rules", "+ *.go\n- /\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rules line 2")
	assert.ErrorIs(t, err, fserr.ErrConfigurationError)
}

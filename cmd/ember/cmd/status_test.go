package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberindex/ember/internal/ui"
)

func chdirToInitedRepo(t *testing.T) string {
	t.Helper()
	isolateUserConfig(t)
	dir := t.TempDir()
	initGitRepo(t, dir)

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })

	require.NoError(t, runInit(silentCmd(), false))
	return dir
}

func TestStatusCmd_FreshIndexHasZeroCounts(t *testing.T) {
	chdirToInitedRepo(t)

	out := &bytes.Buffer{}
	cmd := newStatusCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Files:        0")
	assert.Contains(t, out.String(), "Chunks:       0")
}

func TestStatusCmd_JSON(t *testing.T) {
	chdirToInitedRepo(t)

	out := &bytes.Buffer{}
	cmd := newStatusCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--json"})

	require.NoError(t, cmd.Execute())

	var info ui.StatusInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, 0, info.TotalFiles)
	assert.Equal(t, 0, info.TotalChunks)
}

func TestStatusCmd_Verify(t *testing.T) {
	chdirToInitedRepo(t)

	out := &bytes.Buffer{}
	cmd := newStatusCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--verify"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Verified 0 chunks")
}

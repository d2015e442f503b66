package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberindex/ember/internal/errs"
	"github.com/emberindex/ember/internal/projconfig"
)

// silentCmd returns a bare cobra.Command with output discarded, for
// exercising runInit directly without going through Execute().
func silentCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd
}

func TestInitCmd_BasicExecution(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()
	initGitRepo(t, dir)

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(oldWd)

	out := &bytes.Buffer{}
	cmd := newInitCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Initialized ember index")
	assert.FileExists(t, filepath.Join(dir, ".ember", "index.db"))
}

func TestInitCmd_AlreadyInitialized(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()
	initGitRepo(t, dir)

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(oldWd)

	require.NoError(t, runInit(silentCmd(), false))

	err = runInit(silentCmd(), false)
	require.Error(t, err)
	assert.Equal(t, errs.AlreadyInitialized, errs.KindOf(err))
}

func TestInitCmd_ForceReinitialize(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()
	initGitRepo(t, dir)

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(oldWd)

	require.NoError(t, runInit(silentCmd(), false))
	require.NoError(t, runInit(silentCmd(), true))

	assert.FileExists(t, filepath.Join(dir, ".ember", "index.db"))
}

func TestInitCmd_SeedsUserConfig(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()
	initGitRepo(t, dir)

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(oldWd)

	require.NoError(t, runInit(silentCmd(), false))

	data, err := os.ReadFile(projconfig.UserConfigPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "top_k")
}

func TestInitCmd_NotAGitRepository(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(oldWd)

	err = runInit(silentCmd(), false)
	require.Error(t, err)
	assert.Equal(t, errs.NotARepository, errs.KindOf(err))
}

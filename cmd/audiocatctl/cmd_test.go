package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// siteRoot writes a sqlite-backed config and points AUDIOCAT_ROOT at it.
func siteRoot(t *testing.T, extra string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	yaml := "database:\n  driver: sqlite3\n  dsn: \"file:" + filepath.Join(root, "site.db") + "\"\n  migrate: true\n" + extra
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(yaml), 0o644))
	t.Setenv("AUDIOCAT_ROOT", root)
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoutes_HonoursDisabled(t *testing.T) {
	siteRoot(t, "routes:\n  disabled: [\"/introduction\"]\n")

	out, err := execute(t, "routes")
	require.NoError(t, err)
	assert.Contains(t, out, "trailing-slash")
	assert.Contains(t, out, "/usagePolicy")
	assert.NotContains(t, out, "/introduction")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "home"), "home must be last")
}

func TestMigrateThenLicenseKeyAdd(t *testing.T) {
	siteRoot(t, "")

	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema up to date")

	out, err = execute(t, "licensekey", "add", "--name", "Ada", "--email", "ada@example.com", "--amount", "20")
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.Len(t, fields, 2)
	assert.Len(t, fields[0], 36, "uuid id")
}

func TestLicenseKeyAdd_RejectsBadEmail(t *testing.T) {
	siteRoot(t, "")
	_, err := execute(t, "licensekey", "add", "--name", "Ada", "--email", "not-an-email")
	assert.Error(t, err)
}

func TestMigrate_RejectsUnknownAction(t *testing.T) {
	siteRoot(t, "")
	_, err := execute(t, "migrate", "sideways")
	assert.Error(t, err)
}

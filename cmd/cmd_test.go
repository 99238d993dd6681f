package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocoonstack/cocoon-hwaddr/hwaddr"
	"github.com/cocoonstack/cocoon-hwaddr/types"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGen_Name(t *testing.T) {
	out, err := run(t, "gen", "web-1", "web-2")
	require.NoError(t, err)
	assert.Contains(t, out, "INPUT")
	assert.Contains(t, out, hwaddr.ForName("web-1").String())
	assert.Contains(t, out, hwaddr.ForName("web-2").String())
}

func TestGen_NICs(t *testing.T) {
	out, err := run(t, "gen", "--nics", "2", "vm")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], hwaddr.ForInterface("vm", 0).String())
	assert.Contains(t, lines[2], hwaddr.ForInterface("vm", 1).String())
}

func TestGen_Format(t *testing.T) {
	out, err := run(t, "gen", "--format", "plain", "vm")
	require.NoError(t, err)
	want, _ := hwaddr.ForName("vm").Format(types.FormatPlain)
	assert.Contains(t, out, want)

	_, err = run(t, "gen", "--format", "cisco", "vm")
	assert.ErrorIs(t, err, types.ErrUnknownFormat)
}

func TestGen_UUIDJSON(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	out, err := run(t, "gen", "--uuid", "--json", id.String())
	require.NoError(t, err)

	var got []types.NICAddr
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, hwaddr.ForUUID(id), got[0].Mac)
	require.NotNil(t, got[0].VMID)
	assert.Equal(t, id, *got[0].VMID)
	assert.Equal(t, -1, got[0].Index)
}

func TestGen_BadUUID(t *testing.T) {
	_, err := run(t, "gen", "--uuid", "not-a-uuid")
	assert.Error(t, err)
}

func TestGen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed")
	require.NoError(t, os.WriteFile(path, []byte("cocoon"), 0o600))

	out, err := run(t, "gen", "--file", path)
	require.NoError(t, err)
	want, err := hwaddr.FromReader(strings.NewReader("cocoon"))
	require.NoError(t, err)
	assert.Contains(t, out, want.String())

	_, err = run(t, "gen", "--file", filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
}

func TestGen_FileWithNICs(t *testing.T) {
	_, err := run(t, "gen", "--file", "--nics", "1", "x")
	assert.ErrorIs(t, err, errNICsWithFile)
}

func TestGen_ConfigFileAndEnv(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "hwaddr.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("format: dash\n"), 0o600))
	t.Setenv("HWADDR_NICS", "1")

	out, err := run(t, "--config", cfg, "gen", "vm")
	require.NoError(t, err)
	want, _ := hwaddr.ForInterface("vm", 0).Format(types.FormatDash)
	assert.Contains(t, out, want)
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", hwaddr.ForName("vm").String())
	require.NoError(t, err)
	assert.Contains(t, out, "true")

	_, err = run(t, "check", "01:00:5e:00:00:01")
	assert.Error(t, err)

	_, err = run(t, "check", "garbage")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Feed encoding:  v1")
}

func TestGen_ManyFilesKeepOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	var want []types.HwAddr
	for i := range 12 {
		content := strings.Repeat("x", i+1) + fmt.Sprint(i)
		path := filepath.Join(dir, fmt.Sprintf("seed-%02d", i))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		paths = append(paths, path)
		mac, err := hwaddr.FromReader(strings.NewReader(content))
		require.NoError(t, err)
		want = append(want, mac)
	}

	out, err := run(t, append([]string{"--pool-size", "3", "gen", "--file", "--json"}, paths...)...)
	require.NoError(t, err)
	var got []types.NICAddr
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, len(paths))
	for i, a := range got {
		assert.Equal(t, paths[i], a.Input)
		assert.Equal(t, want[i], a.Mac)
	}
}

func TestDeriveAll_FirstErrorWins(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok")
	require.NoError(t, os.WriteFile(ok, []byte("ok"), 0o600))
	missing := filepath.Join(dir, "missing")

	_, err := deriveAll(context.Background(), []string{ok, missing, ok}, genOptions{asFile: true}, 2)
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)

	addrs, err := deriveAll(context.Background(), []string{"a", "b"}, genOptions{nics: 2}, 1)
	require.NoError(t, err)
	require.Len(t, addrs, 4)
	assert.Equal(t, hwaddr.ForInterface("b", 1), addrs[3].Mac)
}

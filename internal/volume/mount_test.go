package volume

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records commands and serves canned outputs keyed by the full
// command line. Commands without a canned error succeed.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs: make(map[string]string),
		errs:    make(map[string]error),
	}
}

func (f *fakeRunner) RunOutput(name string, args ...string) (string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	return f.outputs[key], nil
}

func (f *fakeRunner) RunRead(name string, args ...string) (string, error) {
	return f.RunOutput(name, args...)
}

func (f *fakeRunner) Run(name string, args ...string) error {
	_, err := f.RunOutput(name, args...)
	return err
}

func (f *fakeRunner) CommandExists(string) bool {
	return true
}

func TestMountEntry(t *testing.T) {
	runner := newFakeRunner()
	mgr := NewMountManager(runner, 0, false)
	mp := filepath.Join(t.TempDir(), "data")

	require.NoError(t, mgr.MountEntry(mp))
	require.Equal(t, []string{"mount " + mp}, runner.calls)
}

func TestMountEntryFailure(t *testing.T) {
	runner := newFakeRunner()
	mp := filepath.Join(t.TempDir(), "data")
	runner.errs["mount "+mp] = fmt.Errorf("mount: unknown filesystem type 'ntfs'")

	mgr := NewMountManager(runner, 0, false)
	err := mgr.MountEntry(mp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), mp)
}

func TestMountWithType(t *testing.T) {
	runner := newFakeRunner()
	mgr := NewMountManager(runner, 0, false)
	mp := filepath.Join(t.TempDir(), "data")

	require.NoError(t, mgr.MountWithType("/dev/sdb1", mp, "ntfs-3g"))
	require.Equal(t, []string{"mount -t ntfs-3g /dev/sdb1 " + mp}, runner.calls)
}

func TestUnmount(t *testing.T) {
	t.Run("normal unmount succeeds", func(t *testing.T) {
		runner := newFakeRunner()
		mgr := NewMountManager(runner, 0, false)

		require.NoError(t, mgr.Unmount("/mnt/data"))
		require.Equal(t, []string{"umount /mnt/data"}, runner.calls)
	})

	t.Run("degrades to lazy unmount", func(t *testing.T) {
		runner := newFakeRunner()
		runner.errs["umount /mnt/data"] = fmt.Errorf("target is busy")
		mgr := NewMountManager(runner, 0, false)

		require.NoError(t, mgr.Unmount("/mnt/data"))
		require.Equal(t, []string{
			"umount /mnt/data",
			"umount -l /mnt/data",
		}, runner.calls)
	})

	t.Run("lazy unmount failure is reported", func(t *testing.T) {
		runner := newFakeRunner()
		runner.errs["umount /mnt/data"] = fmt.Errorf("target is busy")
		runner.errs["umount -l /mnt/data"] = fmt.Errorf("not mounted")
		mgr := NewMountManager(runner, 0, false)

		err := mgr.Unmount("/mnt/data")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/mnt/data")
	})
}

func TestMountEntryDryRunCreatesNothing(t *testing.T) {
	runner := newFakeRunner()
	mgr := NewMountManager(runner, 0, true)
	mp := filepath.Join(t.TempDir(), "data")

	require.NoError(t, mgr.MountEntry(mp))
	_, err := os.Stat(mp)
	assert.True(t, os.IsNotExist(err), "dry run created mount point %s", mp)

	require.NoError(t, mgr.MountWithType("/dev/sdb1", mp, "ntfs-3g"))
	_, err = os.Stat(mp)
	assert.True(t, os.IsNotExist(err))
}

func TestMountAll(t *testing.T) {
	runner := newFakeRunner()
	mgr := NewMountManager(runner, 0, false)

	require.NoError(t, mgr.MountAll())
	require.Equal(t, []string{"mount -a"}, runner.calls)
}

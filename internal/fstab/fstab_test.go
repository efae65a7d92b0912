package fstab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFstab(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fstab")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse(t *testing.T) {
	content := `# /etc/fstab: static file system information
UUID=abcd-1234 / ext4 errors=remount-ro 0 1

# windows data disk
/dev/sdb1 /mnt/data ntfs defaults 0 0
LABEL=games /mnt/games ntfs-3g uid=1000,gid=1000 0 2
/dev/sdc1 /mnt/with\040space ntfs3 defaults
tmpfs /tmp tmpfs
broken line
`
	entries, err := Parse(writeFstab(t, content))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, Entry{
		Device:     "UUID=abcd-1234",
		MountPoint: "/",
		FSType:     "ext4",
		Options:    "errors=remount-ro",
		Dump:       0,
		Pass:       1,
	}, entries[0])

	assert.Equal(t, "/dev/sdb1", entries[1].Device)
	assert.Equal(t, "/mnt/data", entries[1].MountPoint)
	assert.Equal(t, "ntfs", entries[1].FSType)

	assert.Equal(t, "LABEL=games", entries[2].Device)
	assert.Equal(t, 2, entries[2].Pass)

	// octal escape decoded, dump/pass default to zero when absent
	assert.Equal(t, "/mnt/with space", entries[3].MountPoint)
	assert.Equal(t, 0, entries[3].Pass)
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestFilterNTFS(t *testing.T) {
	entries := []Entry{
		{Device: "/dev/sda1", MountPoint: "/", FSType: "ext4"},
		{Device: "/dev/sdb1", MountPoint: "/mnt/a", FSType: "ntfs"},
		{Device: "/dev/sdc1", MountPoint: "/mnt/b", FSType: "NTFS-3G"},
		{Device: "/dev/sdd1", MountPoint: "/mnt/c", FSType: "ntfs3"},
		{Device: "/dev/sde1", MountPoint: "/mnt/d", FSType: "vfat"},
		{Device: "/dev/sdf1", MountPoint: "/mnt/e", FSType: "fuseblk"},
	}

	got := FilterNTFS(entries, nil)
	require.Len(t, got, 3)
	assert.Equal(t, "/mnt/a", got[0].MountPoint)
	assert.Equal(t, "/mnt/b", got[1].MountPoint)
	assert.Equal(t, "/mnt/c", got[2].MountPoint)

	// fuseblk counts only when configured as an alias
	got = FilterNTFS(entries, []string{"fuseblk"})
	require.Len(t, got, 4)
}

func TestIsNTFSType(t *testing.T) {
	tests := []struct {
		fsType  string
		aliases []string
		want    bool
	}{
		{"ntfs", nil, true},
		{"ntfs3", nil, true},
		{"ntfs-3g", nil, true},
		{"NTFS", nil, true},
		{" ntfs ", nil, true},
		{"ext4", nil, false},
		{"", nil, false},
		{"fuseblk", nil, false},
		{"fuseblk", []string{"fuseblk"}, true},
		{"FUSEBLK", []string{"fuseblk"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.fsType, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNTFSType(tt.fsType, tt.aliases))
		})
	}
}

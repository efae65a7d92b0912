package fstab

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// Entry represents a single fstab entry
type Entry struct {
	Device     string // raw path or UUID=/LABEL= spec
	MountPoint string
	FSType     string
	Options    string
	Dump       int
	Pass       int
}

// Parse reads an fstab-formatted file and returns all entries.
// Comments, blank lines and short lines are skipped.
func Parse(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		entry := Entry{
			Device:     unescape(fields[0]),
			MountPoint: unescape(fields[1]),
			FSType:     fields[2],
			Options:    fields[3],
		}
		if len(fields) > 4 {
			entry.Dump, _ = strconv.Atoi(fields[4])
		}
		if len(fields) > 5 {
			entry.Pass, _ = strconv.Atoi(fields[5])
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

// FilterNTFS returns the entries whose declared filesystem type is an NTFS
// variant. The declared type is only a first pass; the actual device type is
// still confirmed via blkid before anything destructive happens.
func FilterNTFS(entries []Entry, aliases []string) []Entry {
	var out []Entry
	for _, e := range entries {
		if IsNTFSType(e.FSType, aliases) {
			out = append(out, e)
		}
	}
	return out
}

// IsNTFSType reports whether fsType names an NTFS variant. The built-in set
// covers the kernel driver, the FUSE driver and the legacy name; aliases
// extends it from configuration.
func IsNTFSType(fsType string, aliases []string) bool {
	t := strings.ToLower(strings.TrimSpace(fsType))
	switch t {
	case "ntfs", "ntfs3", "ntfs-3g":
		return true
	}
	for _, a := range aliases {
		if t == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// unescape decodes the octal escapes fstab uses for whitespace in paths
// (e.g. "\040" for space). Unknown escapes are left as-is.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if n, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(n))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

package volume

import (
	"path/filepath"
	"strings"

	"github.com/nace/krpa/internal/system"
)

// error indicators the kernel NTFS drivers emit when a volume is unhealthy
var errorIndicators = []string{"error", "fail", "dirty", "corrupt"}

// KernelLog scans the kernel ring buffer for filesystem error reports
type KernelLog struct {
	runner system.Runner
	window int
}

// NewKernelLog creates a kernel log scanner that looks at the last
// window lines of dmesg output.
func NewKernelLog(runner system.Runner, window int) *KernelLog {
	return &KernelLog{
		runner: runner,
		window: window,
	}
}

// HasErrors reports whether the recent kernel log mentions the device's
// base name together with "ntfs" and an error indicator. Matching is
// case-insensitive and purely textual.
func (k *KernelLog) HasErrors(device string) (bool, error) {
	output, err := k.runner.RunRead("dmesg")
	if err != nil {
		return false, err
	}

	base := strings.ToLower(filepath.Base(device))
	for _, line := range lastLines(output, k.window) {
		line = strings.ToLower(line)
		if !strings.Contains(line, base) || !strings.Contains(line, "ntfs") {
			continue
		}
		for _, indicator := range errorIndicators {
			if strings.Contains(line, indicator) {
				return true, nil
			}
		}
	}
	return false, nil
}

// lastLines returns the last n non-empty lines of s
func lastLines(s string, n int) []string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	var out []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

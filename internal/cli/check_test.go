package cli

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nace/krpa/internal/volume"
	"github.com/stretchr/testify/assert"
)

// fakeRunner serves canned outputs keyed by the full command line
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
}

func (f *fakeRunner) RunOutput(name string, args ...string) (string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
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

func TestKernelHealth(t *testing.T) {
	tests := []struct {
		name  string
		dmesg string
		err   error
		want  string
	}{
		{
			name:  "clean log",
			dmesg: "[1.0] ntfs3: sdb1: mounted read-write",
			want:  "ok",
		},
		{
			name:  "errors in log",
			dmesg: "[1.0] ntfs3: sdb1: volume is dirty",
			want:  "errors",
		},
		{
			name: "failed scan is not a clean bill of health",
			err:  fmt.Errorf("dmesg: read kernel buffer failed"),
			want: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{
				outputs: map[string]string{"dmesg": tt.dmesg + "\n"},
				errs:    map[string]error{},
			}
			if tt.err != nil {
				runner.errs["dmesg"] = tt.err
			}

			kernel := volume.NewKernelLog(runner, 50)
			assert.Equal(t, tt.want, kernelHealth(kernel, "/dev/sdb1"))
		})
	}
}

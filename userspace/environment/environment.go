// Package environment verifies the host can actually run the tracer
// before any eBPF resource is touched.
package environment

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sys/unix"
	"kernel.org/pub/linux/libs/security/libcap/cap"
)

// Older kernels lack the bpf features the tracer depends on.
var minKernelVersion = semver.MustParse("4.4.0")

// KernelVersion returns the running kernel release as a semver
// version. Vendor suffixes after the patch level are dropped.
func KernelVersion() (*semver.Version, error) {
	var uname unix.Utsname
	err := unix.Uname(&uname)
	if err != nil {
		return nil, err
	}

	release := string(bytes.TrimRight(uname.Release[:], "\x00"))
	return parseKernelRelease(release)
}

func parseKernelRelease(release string) (*semver.Version, error) {
	// Releases look like "5.15.0-124-generic" - keep the x.y.z part.
	core := release
	if idx := strings.IndexAny(core, "-+"); idx > 0 {
		core = core[:idx]
	}

	v, err := semver.NewVersion(core)
	if err != nil {
		return nil, fmt.Errorf("unparsable kernel release %q: %w", release, err)
	}
	return v, nil
}

func hasSysAdmin() (bool, error) {
	caps := cap.GetProc()
	return caps.GetFlag(cap.Effective, cap.SYS_ADMIN)
}

// CheckTracingPrereqs fails when the kernel is too old or the process
// lacks CAP_SYS_ADMIN.
func CheckTracingPrereqs() error {
	version, err := KernelVersion()
	if err != nil {
		return err
	}

	if version.LessThan(minKernelVersion) {
		return fmt.Errorf("kernel %v is too old, need at least %v",
			version, minKernelVersion)
	}

	ok, err := hasSysAdmin()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("CAP_SYS_ADMIN is required to load eBPF programs")
	}

	return nil
}

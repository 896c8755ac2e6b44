package abi

import (
	"fmt"

	"github.com/wippyai/gamebind/errors"
)

// Protocol versions pack major, minor and patch into 32 bits:
// major<<25 | minor<<15 | patch.
const (
	majorShift = 25
	minorShift = 15
	minorMask  = 1<<10 - 1
	patchMask  = 1<<15 - 1
)

// ProtocolVersion is the version of the boundary this package speaks, 0.1.0.
const ProtocolVersion uint32 = 0<<majorShift | 1<<minorShift | 0

func MakeVersion(major, minor, patch uint32) uint32 {
	return major<<majorShift | minor<<minorShift | patch
}

func VersionMajor(v uint32) uint32 { return v >> majorShift }

func VersionMinor(v uint32) uint32 { return v >> minorShift & minorMask }

func VersionPatch(v uint32) uint32 { return v & patchMask }

// FormatVersion renders v as major.minor.patch.
func FormatVersion(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", VersionMajor(v), VersionMinor(v), VersionPatch(v))
}

// Compatible reports whether a module built for v can be driven by this
// package. Major and minor must match; patch is free.
func Compatible(v uint32) bool {
	return VersionMajor(v) == VersionMajor(ProtocolVersion) &&
		VersionMinor(v) == VersionMinor(ProtocolVersion)
}

// CheckVersion is Compatible as an error.
func CheckVersion(v uint32) error {
	if Compatible(v) {
		return nil
	}
	return errors.VersionMismatch(errors.PhaseLoad, FormatVersion(v), FormatVersion(ProtocolVersion))
}

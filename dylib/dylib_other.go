//go:build !(darwin || linux || freebsd)

package dylib

import (
	"github.com/wippyai/gamebind/abi"
	"github.com/wippyai/gamebind/bind"
	"github.com/wippyai/gamebind/errors"
)

// Library is unavailable on this platform.
type Library struct{}

var _ abi.Descriptor = (*Library)(nil)

func Open(path string) (*Library, error) {
	return nil, errors.New(errors.PhaseLoad, errors.KindNotFound).
		Detail("loading %s: c-shared modules are not supported on this platform", path).
		Build()
}

func (l *Library) Close() error { return nil }
func (l *Library) Path() string { return "" }
func (l *Library) Version() uint32 { return 0 }
func (l *Library) Fingerprint() uint64 { return 0 }
func (l *Library) ComponentStringID(int) (string, bool) { return "", false }
func (l *Library) ComponentSize(string) uintptr { return 0 }
func (l *Library) ComponentAlign(string) uintptr { return 0 }
func (l *Library) ComponentType(string) abi.ComponentType { return 0 }
func (l *Library) SetComponentID(string, bind.ComponentID) {}
func (l *Library) SystemsLen() int { return 0 }
func (l *Library) SystemName(int) string { return "" }
func (l *Library) SystemIsOnce(int) bool { return false }
func (l *Library) SystemArgsLen(int) int { return 0 }
func (l *Library) SystemArgType(int, int) abi.ArgType { return 0 }
func (l *Library) SystemArgComponent(int, int) string { return "" }
func (l *Library) SystemQueryArgsLen(int, int) int { return 0 }
func (l *Library) SystemQueryArgType(int, int, int) abi.ArgType { return 0 }
func (l *Library) SystemQueryArgComponent(int, int, int) string { return "" }

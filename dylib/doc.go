// Package dylib opens gameplay modules built with -buildmode=c-shared and
// exposes their descriptor surface as an abi.Descriptor, without cgo.
//
//	lib, err := dylib.Open("./tanks.so")
//	if err != nil {
//		return err
//	}
//	defer lib.Close()
//	fmt.Print(inspect.Read(lib).Render())
//
// Calls go straight into the module, so its abort policy applies: asking
// for an unknown identity or an out-of-range index ends the process.
package dylib

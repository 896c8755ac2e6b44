// Package inspect reads a module's descriptor surface into a Manifest and
// renders it for people: styled terminal output and YAML.
//
// Any abi.Descriptor works, in-process modules as well as c-shared libraries
// opened with package dylib.
package inspect

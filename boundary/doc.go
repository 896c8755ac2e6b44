// Package boundary contains faults raised by module code before they reach the host.
//
// Every entry point a host can invoke (system trampolines, sequential and
// parallel iteration routines) runs inside Guard or Run. A panic is caught at
// the innermost such point and turned into a nonzero Status; it never unwinds
// across the boundary. Containment is not recovery: the caller inside the
// module can Rethrow the captured Fault so the failure still surfaces as a
// failed call from the module's own perspective.
//
// Abort is the other half of the policy. Unknown type identities, out of range
// indices and layout violations mean the host and module disagree about the
// interface, so Abort logs and terminates the process. Tests install a
// different handler through SetAbortHandler or use Trap.
package boundary

// Package hostsim is a reference host for gameplay modules.
//
// It plays the engine's part of the protocol against any Module, typically an
// in-process *abi.Module: it assigns component ids, allocates resources in
// its own memory, installs the six query callbacks and drives systems frame
// by frame. Entities live in a map keyed by id and their components in
// separately allocated, suitably aligned blocks.
//
// The host follows the deferred-apply rules modules rely on. Spawns,
// despawns and component writes are queued and applied after the last
// system of the frame, so a spawned entity is invisible and a despawned one
// still visible until the next frame. Asset loads are immediate and
// idempotent. Parallel iteration spreads rows over Config.Workers
// goroutines.
//
// A system that returns a nonzero status is logged and counted; the host
// keeps running.
package hostsim

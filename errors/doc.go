// Package errors provides structured error types for the gamebind module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending system, argument index and type identity
// alongside a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseAnalysis, errors.KindInvalidSignature).
//		System("example.com/game.MoveTanks").
//		Arg(1).
//		Detail("queries must be taken by value").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownType(errors.PhaseLoad, "example.com/game.Velocity")
//	err := errors.OutOfRange(errors.PhaseDispatch, "system", 7, 3)
//
// All errors implement the standard error interface and support errors.Is/As.
// Two errors match under errors.Is when phase and kind agree.
package errors

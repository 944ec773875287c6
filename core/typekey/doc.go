// Package typekey assigns each distinct Go type a stable, dense integer key.
//
// Keys start at 0 and grow by one for every new type a Registry sees. A type keeps
// its key for the lifetime of the Registry; keys are never reclaimed. Dense keys let
// callers index plain slices by type instead of hashing on every lookup.
//
// # Basic Usage
//
//	reg := typekey.New()
//
//	type Ping struct{ ID int }
//	type Pong struct{ ID int }
//
//	typekey.Of[Ping](reg) // 0
//	typekey.Of[Pong](reg) // 1
//	typekey.Of[Ping](reg) // 0 again
//
// # Process-wide Registry
//
// For is shorthand for Of on the registry returned by Default. Code that wants
// isolation (tests in particular) should create its own Registry with New and pass
// it around explicitly.
//
//	key := typekey.For[Ping]()
//
// Types are identified by reflect.Type, so Ping and *Ping get different keys, and
// two named types with the same underlying structure are still distinct.
package typekey

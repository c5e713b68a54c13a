// Package graft is the composition root for the graft library.
//
// It connects the observable model runtime (Domain Layer) with the store
// adapters (Persistence Layer) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// Graft is an observable property model runtime for toolmakers. A schema
// declares a fixed, ordered set of named properties; models built from it
// intercept every write and notify registered observers synchronously with
// the old and new value. The archive codec turns any model into a
// primitive-typed mapping and back, so persistence is a pluggable port
// rather than a baked-in store.
//
// Features:
//
//   - **Hexagonal Architecture**: Core runtime is isolated from persistence details.
//   - **Synchronous Observation**: Callbacks fire in registration order before Set returns, with snapshot semantics under reentrancy.
//   - **Reversible Archiving**: Encode/Decode round-trips every set property losslessly.
//   - **Typed Views**: Generic wrapper (`NewTyped[T]`) derives schemas from structs.
//   - **Validation Rules**: Optional expr-lang rules checked before persisting.
//   - **Default Adapters**: Memory, YAML file (with external-change watching), SQLite and HTTP stores via `core.Store`.
//
// Usage:
//
//	schema := graft.MustDefine(
//		graft.Field{Name: "id", Kind: graft.KindInt},
//		graft.Field{Name: "name", Kind: graft.KindString},
//	)
//
//	m := graft.New(schema)
//	sub, _ := m.Observe("name", func(old, new any) {
//		fmt.Println("name:", old, "->", new)
//	})
//	defer sub.Cancel()
//
//	_ = m.Set("name", "Clay")
package graft

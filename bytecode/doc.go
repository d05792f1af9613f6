// Package bytecode provides immutable representations of compiled BASM units.
//
// This package defines the output of assembly: pure data structures carrying
// JVM-shaped code bytes, the constant pool, and the computed tables. These
// types are created once by the compiler (or read back from a container) and
// shared safely across goroutines.
//
// # Key Types
//
//   - [Unit]: one compiled definition with predicates and narrowing accessors
//   - [Class], [Field], [Method]: the three definition shapes
//   - [ConstPool]: deduplicating constant pool addressed by uint16 index
//   - [InstructionIter]: walks raw code bytes instruction by instruction
//
// # Immutability Guarantees
//
// All aggregate types are immutable after construction:
//
//   - No mutation methods exist on Unit, Class, Field or Method
//   - All fields are unexported
//   - Constructors copy input slices to prevent caller mutation
//   - Accessors return values, copies, or index-based reads
//
// Table rows ([ExceptionHandler], [LocalVar], [LineEntry]) and pool entries
// ([Const]) are plain value types.
//
// # Serialization
//
// [Marshal] and [Unmarshal] move a Unit through a CBOR container carrying a
// fixed magic and a format version, so compiled members can be staged
// between tools and swapped into a class model. Each Unit carries an opaque
// uuid for correlating a replacement artifact with the member it replaces.
package bytecode

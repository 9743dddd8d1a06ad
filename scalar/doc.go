// Package scalar defines the scalar value model shared by arguments, rows
// and responses.
//
// A Value is a tagged union over the core kinds SmallInt (16 bit), Int (32
// bit), BigInt (64 bit), Float (32 bit), Double (64 bit), String and Boolean,
// the ID kind, and the extension kinds Timestamp, Date and UUID. Extension
// kinds must be enabled through Features before a schema declares them.
//
// A Literal is a client-written input: a scalar, enum, list, object or null.
// Integer literals carry the smallest integer kind that holds them, so a
// column decoder widens:
//
//	SmallInt -> Int -> BigInt
//	Float    -> Double
//
// Every other kind requires an exact match, except ID, which accepts any
// integer or string literal. ListOf fails as a whole if one element fails;
// Optional always succeeds and yields nil for an undecodable literal.
package scalar

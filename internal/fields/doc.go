// Package fields turns command-line tokens into the ordered field list of a
// transaction variant.
//
// Tokens are consumed in pairs, name first and type second:
//
//	fields.Parse([]string{"amount", "u64", "to", "String"})
//	// [{amount u64} {to String}]
//
// A trailing token without a type gets DefaultType. Names and types are
// copied verbatim; legality, reserved words and duplicates are the caller's
// concern.
package fields

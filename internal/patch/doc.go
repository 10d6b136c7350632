// Package patch injects a new transaction variant into the base templates.
//
// Two patchers are provided:
//
//   - PatchTransaction rewrites the transaction-definition template: the new
//     variant is added to the Transaction enum ahead of Noop, and verify()
//     gains a branch for it.
//   - PatchState rewrites the state-transition template: validate_tx and
//     process_tx each gain a branch for the new variant.
//
// Patchers are pure functions over their inputs. Every anchor replacement is
// a step with an explicit Status; a step whose anchor is missing leaves the
// text unchanged and the patcher returns an error wrapping
// anchor.ErrNotFound (or ErrAlreadyApplied when the variant is already
// there). The text of the Result is valid in either case.
//
// The two state dispatches share identical anchor text. They are replaced
// one after the other, each step matching the first remaining occurrence, so
// validation and processing always receive their own branch.
package patch

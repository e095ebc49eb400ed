// Package batch provides an ordered, string-keyed container of
// heterogeneous payloads that behaves like a value itself: operators,
// indexing and member functions applied to a [Batch] are forwarded to
// every payload and the results come back under the same keys.
//
// # Overview
//
// A Batch groups the pieces of one logical sample, such as an input
// tensor and its target, and lets code manipulate the group as a
// unit:
//
//	b := batch.New(
//	    batch.KV("input", 2),
//	    batch.KV("target", 10),
//	)
//	sum, _ := b.Add(b)          // Batch(input: 4, target: 20)
//	scaled, _ := b.Mul(3)       // Batch(input: 6, target: 30)
//	rows, _ := b.Invoke("len")  // forwarded to every payload
//
// Binary operations are key-matched when the other operand is a Batch
// (payload "input" meets payload "input") and broadcast when it is any
// other value. Payloads stay opaque: numbers, strings, slices, tensors
// and nested Batches all work, and anything else can join via the
// operand package's [operand.Invoker] interface or handler registry.
//
// # Key resolution
//
// Keys resolve in several forms through [Batch.At]:
//
//	b.At("input")          // plain key
//	b.At("target.label")   // dotted path into nested Batches
//	b.At("in*")            // wildcard over top-level keys
//	b.At([]string{"a", "b"})  // sub-batch selection
//	b.At(3)                // forwarded to every payload as an index
//	b.At(nil)              // the batch itself
//
// An exact key always wins before dotted descent, and only strings
// containing "*" are treated as wildcards.
//
// # Transforms
//
// Map, Filter, MapKeys and friends return new Batches and leave the
// receiver alone; only the In-place operator family (IAdd, IMul, ...)
// mutates, and even that computes every result before the first write
// so a failure changes nothing.
//
// # Construction from flat data
//
// [FromTensor] cuts one payload into named pieces along an axis, which
// is how a concatenated feature vector becomes named features, and
// [FromBatches] collates per-row Batches into one Batch of columns.
// [FromMap], [FromJSON] and [FromYAML] build Batches from plain data.
//
// # Errors
//
// Failures carry sentinel errors (for example [ErrKeyNotFound],
// [ErrKeyMismatch], [ErrReservedKey]) matchable with errors.Is.
// Payload-level failures pass through wrapped with the key that
// produced them.
//
// # Conventions
//
// Payload semantics follow the conventions of dynamic-language data
// pipelines rather than Go's: div is true division, floordiv and mod
// floor toward negative infinity, indexes count from the end when
// negative, and string indexing counts runes. See the operand package
// for the full built-in vocabulary.
package batch

// Package model provides the in-memory representation of one scenario build:
// the temporal structure, the modeled entities with their declared types, and
// the sets, parameters, and solution values type modules contribute.
//
// # Core Concepts
//
// The model is built around a few key structures:
//
//   - Model: The per-build container. Type modules declare named pair sets and
//     parameters on it during registration and load, and read solution values
//     from it after a solve.
//
//   - Project / TxLine: The modeled entities. Each declares at most one type
//     per module category; that declaration is what drives rule dispatch.
//
//   - PairSet: An ordered set of (entity, period) or (entity, timepoint)
//     elements. Per-type sets are unioned into canonical sets that generic
//     components iterate.
//
//   - Rule: The uniform operation signature every type module implements, so
//     callers can evaluate any operation without knowing the concrete type.
//
// A Model is created fresh for every scenario build and is never shared
// across concurrent builds, so none of its methods take locks.
package model

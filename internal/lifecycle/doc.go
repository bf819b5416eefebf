// Package lifecycle drives one scenario build's type modules through the
// ordered phases: register, load data, (external solve), export results,
// import results, validate.
//
// The failure policy is split by phase: the model is unusable without
// registration and data, so those phases abort on the first error; the
// result and validation phases collect per-module failures and report
// "N of M modules failed" so the operator sees the complete picture in one
// pass.
package lifecycle

// Package opt provides the closed-loop batch optimization engine for SUMMIT.
//
// # Reading Guide
//
// Start with these three files to understand the optimization kernel:
//   - history.go: Observation accumulation and the X/Y matrix views
//   - controller.go: The round loop (fit -> diagnose -> propose -> evaluate -> append)
//   - tsemo.go: Thompson-sampling multiobjective batch proposal
//
// # Architecture
//
// The opt package defines interfaces and the campaign controller; the
// Gaussian-process surrogate lives in the opt/gp sub-package and plugs in
// through the SurrogateFitter interface.
//
// # Key Interfaces
//
// The extension points are single-method or small interfaces:
//   - Oracle: evaluate one candidate into an objective vector
//   - InitialDesigner: produce a space-filling first batch before any model exists
//   - SurrogateFitter / SurrogateModel: per-objective probabilistic regression
//   - Proposer: produce the next batch from the fitted surrogate pair
//
// All stochastic components draw from a PartitionedRNG so that a campaign is
// reproducible bit-for-bit from its seed, including when batch evaluations
// run concurrently.
package opt

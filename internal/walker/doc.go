// Package walker traverses decoded structured-report content trees and
// classifies nodes against the coded-concept registry.
//
// Traversal is depth-first pre-order, so measurements are emitted in document
// order -- the aggregator's last-wins combination rules depend on that
// ordering. Each recognized node is handed to the visitor together with its
// structural context, in particular the index of the enclosing irradiation
// event: one exam may contain many events, each with its own CTDIvol, DLP and
// tube settings, and the event index is what keeps them apart downstream.
//
// A node whose code is unknown to the registry emits nothing but is still
// traversed, because containers may both carry a recognized code and hold
// recognized leaves. Cyclic trees are not expected; the only structural
// guard is a depth ceiling that fails fast with StructuralError on
// malformed input.
package walker

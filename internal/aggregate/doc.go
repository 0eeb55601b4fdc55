// Package aggregate folds the classified measurements of one exam into a
// consolidated dose record.
//
// Combination rules are per field role and fixed: an explicit Total DLP wins
// over the per-event sum, most clinical fields keep the last value in
// document order, the device header keeps the first. Fields never observed
// in the tree stay at the missing sentinel -- a dose field is never defaulted
// to zero.
//
// The aggregator never fails. Ambiguous input (two explicit totals) resolves
// last-wins with a warning, and a dose-free document yields an empty record
// for the record builder to keep or discard.
package aggregate

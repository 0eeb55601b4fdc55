// Package log provides logging with automatic masking of patient
// identifying information, built on top of the standard slog package.
//
// Dose reports carry PHI (names, birth dates, patient IDs), and debug
// logging of extraction internals must not leak it into log files that
// get shared with vendors or attached to bug reports. The PrivacyHandler
// masks PHI-bearing attributes before they reach the underlying handler.
//
// # Usage
//
//	logger := log.NewPrivacyLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("record built",
//	    "patient_name", "DOE^JOHN",  // masked in the output
//	    "path", "dose.dcm",
//	)
//
//	slog.SetDefault(logger)
//
// Even in verbose mode, PHI attributes are masked: verbosity controls how
// much is logged, never what kind of data is exposed.
package log

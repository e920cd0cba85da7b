// Package consult runs one end-user consultation.
//
// A consultation diagnoses the reported symptoms, samples host metrics,
// builds an ir.LogRecord and hands it to a sink. Only the diagnosis is
// essential: metric and logging failures are reported on the Outcome and
// never turn into errors.
package consult

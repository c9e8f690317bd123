// Package diag defines the diagnostic model shared by every phase of the
// translator: severities, stable codes, the Bag accumulator, and the Reporter
// contract phases use to emit without knowing where diagnostics go.
package diag

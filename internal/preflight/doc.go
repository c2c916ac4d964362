// Package preflight provides readiness checks for the external binaries and
// filesystem paths dubsync depends on.
//
// The CLI "dubsync doctor" command runs RunAll and exits non-zero when a
// required check fails. Optional checks (uvx, the RIFE interpolator) are
// reported but never fail the run.
package preflight

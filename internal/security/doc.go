// Package security audits a working copy for leaked OAuth secrets.
//
// The audit checks that credential files are covered by .gitignore, that
// none of them is tracked by git, that source files contain no hard-coded
// secrets and that credential files are not readable by other users. The
// last check only produces warnings.
package security

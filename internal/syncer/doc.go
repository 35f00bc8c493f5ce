// Package syncer pushes a fixed list of files from a source into a script
// project, one file at a time.
//
// Each file is fetched and then written with a full read-modify-write of the
// project's file list. A failure affects only that file: it is logged,
// counted, and the run moves on to the next name.
package syncer

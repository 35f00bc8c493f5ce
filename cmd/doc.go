// Package cmd implements the command-line interface for scriptsync.
//
// This package provides the following commands:
//   - setup: Create or update the .env file interactively
//   - sync: Copy the managed script files into the Apps Script project
//   - authorize: Run the OAuth flow and cache the token
//   - status: Compare the project's files with the managed files
//   - info: Show project metadata and the Drive file it is bound to
//   - sheets: Compare the spreadsheet's sheets with the expected ones
//   - security-check: Audit the working copy for leaked credentials
//   - version: Display version information
//
// The sync command is the default command when no subcommand is specified.
package cmd

// Package config resolves scriptsync settings from a .env file, the process
// environment and command-line flags.
//
// Precedence, lowest first: built-in defaults, the .env file, environment
// variables, flags. The .env file never overrides a variable that is already
// set in the environment.
//
// Validate rejects a configuration that lacks the Google client id, client
// secret or script id, or that still carries the placeholder values shipped
// in the example .env file. Callers run it before touching the network.
package config

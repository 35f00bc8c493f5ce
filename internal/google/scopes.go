package google

import (
	"strings"

	"golang.org/x/oauth2"
)

const (
	// ScriptProjectsScope allows reading and writing Apps Script projects.
	ScriptProjectsScope = "https://www.googleapis.com/auth/script.projects"

	// DriveFileScope allows access to Drive files created or opened by the app.
	DriveFileScope = "https://www.googleapis.com/auth/drive.file"

	// SpreadsheetsReadonlyScope allows reading spreadsheet structure.
	SpreadsheetsReadonlyScope = "https://www.googleapis.com/auth/spreadsheets.readonly"

	// DriveMetadataReadonlyScope allows reading Drive file metadata.
	DriveMetadataReadonlyScope = "https://www.googleapis.com/auth/drive.metadata.readonly"
)

// SyncScopes are the scopes needed to push files into a script project.
// LoadOAuthConfig uses them when no scopes are given.
var SyncScopes = []string{
	ScriptProjectsScope,
	DriveFileScope,
}

// InfoScopes additionally allow looking up the container file of a bound project.
var InfoScopes = append(append([]string{}, SyncScopes...), DriveMetadataReadonlyScope)

// SheetsScopes allow reading the tab names of a spreadsheet.
var SheetsScopes = []string{SpreadsheetsReadonlyScope}

// GrantedScopes returns the scopes recorded on token. The second result is
// false when the token carries no scope information.
func GrantedScopes(token *oauth2.Token) ([]string, bool) {
	if token == nil {
		return nil, false
	}
	scope, _ := token.Extra("scope").(string)
	if scope == "" {
		return nil, false
	}
	return strings.Fields(scope), true
}

// missingScopes lists the required scopes token was not granted. A token
// without scope information is assumed to cover everything.
func missingScopes(token *oauth2.Token, required []string) []string {
	granted, ok := GrantedScopes(token)
	if !ok {
		return nil
	}

	have := make(map[string]bool, len(granted))
	for _, s := range granted {
		have[s] = true
	}

	var missing []string
	for _, s := range required {
		if !have[s] {
			missing = append(missing, s)
		}
	}
	return missing
}

package script

import (
	"slices"

	script "google.golang.org/api/script/v1"
)

// Report compares a project's files with the logical names it should contain.
type Report struct {
	// Total is the number of files in the project
	Total int

	// Server, HTML and Other hold remote names grouped by kind, sorted
	Server []string
	HTML   []string
	Other  []string

	// Present and Missing partition the expected remote names, in expected order
	Present []string
	Missing []string

	// Extra are server files the expected list does not name
	Extra []string

	// Manifest reports whether the project has its appsscript.json
	Manifest bool
}

// Complete reports whether every expected file is present.
func (r *Report) Complete() bool {
	return len(r.Missing) == 0
}

// Compare builds a Report for files against the expected logical names.
func Compare(files []*script.File, expected []string) *Report {
	r := &Report{}

	for _, f := range files {
		if f == nil {
			continue
		}
		r.Total++
		if f.Name == ManifestName && FileKind(f.Type) == KindJSON {
			r.Manifest = true
		}
		switch FileKind(f.Type) {
		case KindServerJS:
			r.Server = append(r.Server, f.Name)
		case KindHTML:
			r.HTML = append(r.HTML, f.Name)
		default:
			r.Other = append(r.Other, f.Name)
		}
	}
	slices.Sort(r.Server)
	slices.Sort(r.HTML)
	slices.Sort(r.Other)

	want := make(map[string]bool, len(expected))
	for _, name := range expected {
		remote, kind := RemoteName(name)
		if kind != KindServerJS {
			continue
		}
		want[remote] = true

		if slices.Contains(r.Server, remote) {
			r.Present = append(r.Present, remote)
		} else {
			r.Missing = append(r.Missing, remote)
		}
	}

	for _, name := range r.Server {
		if name != "" && !want[name] {
			r.Extra = append(r.Extra, name)
		}
	}

	return r
}

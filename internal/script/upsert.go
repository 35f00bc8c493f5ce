package script

import (
	"slices"

	script "google.golang.org/api/script/v1"
)

// Upsert overwrites the source of the first entry matching name and kind, or
// appends a new entry. Null entries are dropped so that they are never
// resubmitted. The slice is modified in place.
// It reports whether an existing entry was replaced.
func Upsert(files []*script.File, name string, kind FileKind, source string) ([]*script.File, bool) {
	files = slices.DeleteFunc(files, func(f *script.File) bool { return f == nil })

	for _, f := range files {
		if f.Name == name && f.Type == string(kind) {
			f.Source = source
			return files, true
		}
	}

	return append(files, &script.File{
		Name:   name,
		Type:   string(kind),
		Source: source,
	}), false
}

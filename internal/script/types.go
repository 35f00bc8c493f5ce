package script

import (
	"path"
	"strings"
	"time"
)

// FileKind is the Apps Script file type.
type FileKind string

const (
	KindServerJS FileKind = "SERVER_JS"
	KindHTML     FileKind = "HTML"
	KindJSON     FileKind = "JSON"
)

// ManifestName is the remote name of the project manifest.
const ManifestName = "appsscript"

// RemoteName maps a logical file name such as "Config.gs" to the name and kind
// the file has inside a script project. Unknown extensions are kept verbatim
// and treated as server code.
func RemoteName(name string) (string, FileKind) {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)

	switch strings.ToLower(ext) {
	case ".gs", ".js":
		return base, KindServerJS
	case ".html":
		return base, KindHTML
	case ".json":
		return base, KindJSON
	default:
		return name, KindServerJS
	}
}

// UpsertResult describes the outcome of one UpsertFile call.
type UpsertResult struct {
	// Name is the remote file name
	Name string

	// Kind is the remote file type
	Kind FileKind

	// Replaced is true when an existing entry was overwritten, false when appended
	Replaced bool

	// FileCount is the number of files submitted
	FileCount int

	// Size is the length of the uploaded source in bytes
	Size int
}

// ProjectInfo is the metadata of a script project.
type ProjectInfo struct {
	ScriptID   string
	Title      string
	ParentID   string
	CreateTime time.Time
	UpdateTime time.Time
}

// Bound reports whether the project is container-bound to a Drive file.
func (p *ProjectInfo) Bound() bool {
	return p.ParentID != ""
}

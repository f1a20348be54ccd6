package domain

import (
	"path"
	"strings"
	"time"
)

// ReservedFolderPrefix marks remote system folders that are never
// traversed (e.g. SharePoint "_catalogs", "_cts").
const ReservedFolderPrefix = "_"

// SourceFolder is one configured remote ingestion root. It is immutable
// for the duration of a sync run.
type SourceFolder struct {
	// Name identifies the folder locally and names its processing and
	// archive subdirectories.
	Name string

	// Type identifies the remote store backend (e.g. "sharepoint", "gdrive").
	Type string

	// RemotePath is the server-relative path (or backend-native ID) of
	// the remote folder to walk.
	RemotePath string

	// Collection is the vector store collection ingested into.
	Collection string

	// Extensions is the allowed file extension list, lowercased, with
	// leading dot (".pdf", ".docx").
	Extensions []string

	// ProcessingDir is where staged files live until archived.
	ProcessingDir string

	// ArchiveDir is the terminal location for fully ingested files.
	ArchiveDir string
}

// AllowsFile reports whether the file name's extension is in the
// folder's allow-list. The comparison is case-insensitive.
func (f *SourceFolder) AllowsFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return false
	}
	for _, allowed := range f.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// RemoteFileRef identifies one discoverable remote file. It is produced
// by the tree walker and consumed once per run; it is never persisted.
type RemoteFileRef struct {
	// Path is the server-relative path used for download.
	Path string

	// Name is the display file name, unique per source folder within a
	// sync window.
	Name string

	// Created is the remote creation timestamp, already adjusted for
	// the configured timezone offset.
	Created time.Time
}

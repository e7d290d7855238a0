package types

// ProjectFile is one scanned source file. It is created fresh on every
// scan, consumed by the chunker, and never persisted.
type ProjectFile struct {
	// AbsolutePath is the resolved filesystem path of the file.
	AbsolutePath string

	// RelativePath is the path relative to the scanned project root.
	// It is the stable identity of the file across syncs.
	RelativePath string

	// Size is the file size in bytes at scan time.
	Size int64

	// Content is the full file text, decoded as UTF-8.
	Content string
}

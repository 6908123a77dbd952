package memfs

// Represents user input for node creation. It should be passed from
// entrypoints (i.e. cli, seed file loaders) to the filesystem create
// operations.
type NodeCreateRequest struct {
	Path  string
	Type  NodeCreateRequestType
	UUID  string   // Request identity for logging/linking; generated when absent
	Attrs []string // Attribute flag names: hidden, readonly, system, archive
}

type NodeCreateRequestType string

const (
	FileNodeType NodeCreateRequestType = "file"
	DirNodeType  NodeCreateRequestType = "dir"
)

type FileCreateRequest struct {
	NodeCreateRequest
	Content []byte // Initial file content, written at offset 0
}

type DirCreateRequest struct {
	NodeCreateRequest
}

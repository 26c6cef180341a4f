package project

// Kind is a Request's wire discriminator tag.
type Kind string

const (
	KindResource Kind = "r"
	KindLibrary  Kind = "l"
	KindScript   Kind = "s"
	KindDeletion Kind = "d"
	KindChunk    Kind = "c"
)

// Request is the tagged union emitted downstream by the transform pipeline
// and consumed by the batcher/merge/chunk/session stages. Only one of the
// payload fields is meaningful for a given Kind:
//
//	KindResource/KindLibrary/KindScript: FilePath, FileData
//	KindDeletion:                        Files
//	KindChunk:                           FileData
type Request struct {
	Kind     Kind
	FilePath string
	FileData string
	Files    []string
}

// NewFileRequest builds a Resource/Library/Script record from an ItemType.
func NewFileRequest(t ItemType, filePath, fileData string) Request {
	switch t {
	case Resource:
		return Request{Kind: KindResource, FilePath: filePath, FileData: fileData}
	case Library:
		return Request{Kind: KindLibrary, FilePath: filePath, FileData: fileData}
	default:
		return Request{Kind: KindScript, FilePath: filePath, FileData: fileData}
	}
}

// NewDeletion builds a Deletion record for a single logical path.
func NewDeletion(ccPath string) Request {
	return Request{Kind: KindDeletion, Files: []string{ccPath}}
}

// IsFileBearing reports whether r carries FilePath/FileData, i.e. is a
// Resource/Library/Script head record that a Chunk may follow.
func (r Request) IsFileBearing() bool {
	switch r.Kind {
	case KindResource, KindLibrary, KindScript:
		return true
	default:
		return false
	}
}

package index

import "fmt"

// Kind names one of the error taxonomy entries from spec.md §7.
type Kind string

const (
	KindSchemaMismatch     Kind = "schema_mismatch"
	KindFilterBuildFailed  Kind = "filter_build_failed"
	KindCorrupt            Kind = "corrupt"
	KindUnsupportedVersion Kind = "unsupported_version"
	KindIoError            Kind = "io_error"
	KindInvalidJson        Kind = "invalid_json"
)

// BuildError is a per-document failure collected during a permissive build
// (spec.md §4.3 step 5, §7). It carries the offending document's position
// so callers can report it back to the user.
type BuildError struct {
	Kind          Kind
	DocumentIndex int
	Message       string
	Err           error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("document %d: %s: %s", e.DocumentIndex, e.Kind, e.Message)
}

func (e *BuildError) Unwrap() error { return e.Err }

func schemaMismatch(docIndex int, message string) *BuildError {
	return &BuildError{Kind: KindSchemaMismatch, DocumentIndex: docIndex, Message: message}
}

func filterBuildFailed(docIndex int, err error) *BuildError {
	return &BuildError{Kind: KindFilterBuildFailed, DocumentIndex: docIndex, Message: err.Error(), Err: err}
}

// FatalError wraps the operation-aborting kinds: Corrupt, UnsupportedVersion,
// IoError, InvalidJson. Unlike BuildError these stop the operation in
// progress rather than being collected (spec.md §7).
type FatalError struct {
	Kind Kind
	Err  error
}

func (e *FatalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *FatalError) Unwrap() error { return e.Err }

func corrupt(reason string) error {
	return &FatalError{Kind: KindCorrupt, Err: fmt.Errorf("%s", reason)}
}

func unsupportedVersion(v byte) error {
	return &FatalError{Kind: KindUnsupportedVersion, Err: fmt.Errorf("version byte %d", v)}
}

func ioError(err error) error {
	return &FatalError{Kind: KindIoError, Err: err}
}

func invalidJSON(err error) error {
	return &FatalError{Kind: KindInvalidJson, Err: err}
}

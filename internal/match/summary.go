package match

// Method tags which matching rule produced a Result. Basename plus exact
// capture timestamp is the only rule that yields copyable matches.
type Method string

// MethodBasenameTimestamp is the two-stage match: same case-folded basename
// and identical capture instant.
const MethodBasenameTimestamp Method = "basename+timestamp"

// Result is one resolved JPEG/RAW pairing.
type Result struct {
	JPEGPath string
	RawPath  string
	Method   Method
}

// CopyStatus classifies the outcome of one attempted copy.
type CopyStatus string

const (
	CopySucceeded       CopyStatus = "succeeded"
	CopySkippedExisting CopyStatus = "skipped-existing"
	CopyFailed          CopyStatus = "failed"
)

// CopyOutcome is the per-attempted-copy result. Reason is set only for
// CopyFailed.
type CopyOutcome struct {
	RawPath    string
	TargetPath string
	Status     CopyStatus
	Reason     string
}

// FileError is one recovered per-file failure, surfaced in the final report
// instead of aborting the run.
type FileError struct {
	Path   string
	Reason string
}

// Summary aggregates the counters for one match invocation.
// Copied + Skipped + Failed always equals MatchesFound for a completed run.
type Summary struct {
	RawFilesIndexed int
	JPEGsScanned    int
	MatchesFound    int
	Copied          int
	Skipped         int
	Failed          int
	Errors          []FileError
}

// AddError appends a recovered per-file failure to the report.
func (s *Summary) AddError(path, reason string) {
	s.Errors = append(s.Errors, FileError{Path: path, Reason: reason})
}

// IndexReport summarizes one index build or update.
type IndexReport struct {
	SourceDirectory string
	FileCount       int
	Added           int
	Removed         int
	Changed         int
	Unchanged       int
	Errors          []FileError
}

package tracing

// Span names for the configuration facade operations.
const (
	SpanLoad    = "configuration.load"
	SpanSave    = "configuration.save"
	SpanBoard   = "configuration.board"
	SpanLoadJob = "job.load"
	SpanSaveJob = "job.save"
)

// Span attribute keys. These are the semantic conventions for the
// configuration layer; the file exporter emits them verbatim.
const (
	// Catalog attributes
	AttrConfigDir    = "config.directory"
	AttrPartCount    = "catalog.part_count"
	AttrPackageCount = "catalog.package_count"
	AttrMachineName  = "machine.name"

	// Board attributes
	AttrFilePath      = "file.path"
	AttrCanonicalPath = "file.canonical_path"
	AttrBoardOutcome  = "board.outcome"

	// Job attributes
	AttrLocationCount = "job.location_count"
	AttrBoardCount    = "job.board_count"

	// Error attributes
	AttrErrorMessage = "error.message"
)

package domain

// Article represents one encyclopedia page as pulled from the dump.
// It is produced once per source record and discarded after normalisation.
type Article struct {
	// Title is the page title, unique within a dump by construction.
	Title string

	// RawText is the unparsed wiki markup of the latest revision.
	RawText string
}

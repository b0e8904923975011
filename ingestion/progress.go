package ingestion

// EventType names one stage of a bulk ingestion run.
type EventType string

const (
	EventScanning        EventType = "scanning"
	EventChecking        EventType = "checking"
	EventDuplicatesFound EventType = "duplicates_found"
	EventFound           EventType = "found"
	EventBatchStart      EventType = "batch_start"
	EventFetched         EventType = "fetched"
	EventSaved           EventType = "saved"
	EventFailed          EventType = "failed"
	EventBatchComplete   EventType = "batch_complete"
	EventComplete        EventType = "complete"
	EventError           EventType = "error"
)

// Event is one progress update emitted during ingestion. Fields beyond
// Type and Message are filled only where they make sense for the stage.
type Event struct {
	Type    EventType
	Message string

	// Document identity for per-document events.
	DocumentID   string
	DocumentName string

	// Counters. Found is every document the scan discovered; Total is
	// the number of new documents left after duplicate filtering.
	Found      int
	Total      int
	Processed  int
	Skipped    int
	Failed     int
	Batch      int
	Batches    int
	Percentage int
}

// ProgressSink receives ingestion events. Implementations must be fast;
// the pipeline calls them inline between processing steps.
type ProgressSink func(Event)

// emit forwards an event to the sink, tolerating a nil sink.
func emit(sink ProgressSink, event Event) {
	if sink != nil {
		sink(event)
	}
}

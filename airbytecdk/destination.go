package airbyte

// Destination is the mirror image of Source for the write side of a sync: records
// produced by some source arrive on stdin and the destination persists them.
type Destination interface {
	// Spec returns the input "form" spec needed for your destination
	Spec(logTracker LogTracker) (*ConnectorSpecification, error)
	// Check verifies the destination configuration - credentials, connectivity, schema access
	Check(dstCfgPath string, logTracker LogTracker) error
	// Write consumes RECORD and STATE messages from input until it is drained.
	// STATE messages must be echoed back via tracker.State() only after every record
	// received before them has been durably written, so the platform can checkpoint.
	Write(dstCfgPath string, configuredCat *ConfiguredCatalog, input *MessageIterator,
		tracker MessageTracker) error
}

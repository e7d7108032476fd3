package domain

// LogPort accumulates captures during a run and hands them off as one payload
type LogPort interface {
	// Append stores a record, assigning its ID and Timestamp, and returns
	// the stored form
	Append(c Capture) Capture
	// All returns a copy of every record, insertion order within each
	// partition, partitions in first-touch order
	All() []Capture
	// ByName returns copies of the records captured under name
	ByName(name string) []Capture
	// ByPartition returns copies of the records in one partition
	ByPartition(key string) []Capture
	// Clear empties the whole log
	Clear()
	// ClearPartition empties one partition
	ClearPartition(key string)
	// Size is the total record count across partitions
	Size() int
	// Flush snapshots the log into a RunPayload and clears it
	Flush(project, environment string) RunPayload
}

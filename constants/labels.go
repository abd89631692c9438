package constants

// Display labels are a presentation concern; the stored values above never
// change even if wording does.

var jobStatusLabels = map[JobStatus]string{
	JobStatusPending:    "Inspection Pending",
	JobStatusInProgress: "In Progress",
	JobStatusPassed:     "QC Passed",
	JobStatusFailed:     "QC Failed",
	JobStatusRework:     "Rework Required",
}

// Label returns the human-readable label for s, or the raw value if unknown.
func (s JobStatus) Label() string {
	if l, ok := jobStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Actor identifiers stamped into updated_by.
const (
	SystemActor       = "System"
	DefaultActor      = "Supervisor A"
	AttachmentsBucket = "qc-images"
)

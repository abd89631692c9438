package constants

// JobStatus is the canonical overall status for rows in jobs.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusPending    JobStatus = "PENDING"     // created, never finalized
	JobStatusInProgress JobStatus = "IN_PROGRESS" // finalized with unchecked mandatory items
	JobStatusPassed     JobStatus = "PASSED"      // every mandatory item passed
	JobStatusFailed     JobStatus = "FAILED"      // reserved; derivation never produces it
	JobStatusRework     JobStatus = "REWORK"      // at least one mandatory item failed
)

// ChecklistStatus is the canonical status of a single inspection point.
type ChecklistStatus string

const (
	ChecklistUnchecked ChecklistStatus = "UNCHECKED"
	ChecklistPass      ChecklistStatus = "PASS"
	ChecklistFail      ChecklistStatus = "FAIL"
)

// Valid reports whether s is a stored JobStatus value.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusInProgress, JobStatusPassed, JobStatusFailed, JobStatusRework:
		return true
	}
	return false
}

// Valid reports whether s is a stored ChecklistStatus value.
func (s ChecklistStatus) Valid() bool {
	switch s {
	case ChecklistUnchecked, ChecklistPass, ChecklistFail:
		return true
	}
	return false
}

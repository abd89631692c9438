package checklist

import (
	"github.com/premdoors/qc-tracker/constants"
	"github.com/premdoors/qc-tracker/internal/entity"
)

// Derive computes the overall job status from checklist item statuses.
// Only mandatory items count. Priority: any mandatory FAIL wins (REWORK),
// then all-mandatory-PASS (PASSED), else IN_PROGRESS. A checklist with zero
// mandatory items is never vacuously PASSED.
//
// FAILED is a valid status value but is never produced here.
func Derive(items []entity.ChecklistItem) constants.JobStatus {
	hasFail := false
	mandatory := 0
	passed := 0
	for _, item := range items {
		if item.IsOptional {
			continue
		}
		mandatory++
		switch item.Status {
		case constants.ChecklistFail:
			hasFail = true
		case constants.ChecklistPass:
			passed++
		}
	}

	switch {
	case hasFail:
		return constants.JobStatusRework
	case mandatory > 0 && passed == mandatory:
		return constants.JobStatusPassed
	default:
		return constants.JobStatusInProgress
	}
}

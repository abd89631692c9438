package entity

import (
	"time"

	"github.com/premdoors/qc-tracker/constants"
	"github.com/premdoors/qc-tracker/internal/common"
)

// ChecklistItemImage is one stored photo attached to a checklist item. It is
// owned exclusively by its item: created on successful upload, destroyed on
// removal.
type ChecklistItemImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ChecklistItem is one inspection point's mutable state. ID and IsOptional
// come from the template and never change; only Status, Comment and Images
// mutate.
type ChecklistItem struct {
	ID         string                    `json:"id"`
	Name       string                    `json:"name"`
	Status     constants.ChecklistStatus `json:"status"`
	Comment    string                    `json:"comment"`
	Images     []ChecklistItemImage      `json:"images"`
	IsOptional bool                      `json:"isOptional,omitempty"`
}

// Job is one inspected unit with a checklist and derived overall status.
// Checklist length and item identities are fixed at creation.
type Job struct {
	ID          string                   `json:"id"`
	JobNumber   string                   `json:"jobNumber"`
	Status      constants.JobStatus      `json:"status"`
	Checklist   []ChecklistItem          `json:"checklist"`
	LastUpdated time.Time                `json:"lastUpdated"`
	UpdatedBy   string                   `json:"updatedBy"`
}

// Item returns the checklist item with the given id, or nil.
func (j *Job) Item(itemID string) *ChecklistItem {
	for i := range j.Checklist {
		if j.Checklist[i].ID == itemID {
			return &j.Checklist[i]
		}
	}
	return nil
}

// UpdateItem replaces the checklist entry matching updated.ID. An unknown id
// is an invariant violation and returns common.ErrItemNotFound.
func (j *Job) UpdateItem(updated ChecklistItem) error {
	for i := range j.Checklist {
		if j.Checklist[i].ID == updated.ID {
			j.Checklist[i] = updated
			return nil
		}
	}
	return common.ErrItemNotFound
}

// Clone returns a deep copy. Consumers of cache snapshots get clones, never
// handles into live state.
func (j *Job) Clone() Job {
	out := *j
	out.Checklist = make([]ChecklistItem, len(j.Checklist))
	for i, item := range j.Checklist {
		ci := item
		ci.Images = make([]ChecklistItemImage, len(item.Images))
		copy(ci.Images, item.Images)
		out.Checklist[i] = ci
	}
	return out
}

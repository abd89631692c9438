// Package annotate defines the optional image-annotation capability. The
// provider is injected; when unconfigured, the Disabled implementation is
// selected instead of any conditional loading.
package annotate

import (
	"context"

	"github.com/premdoors/qc-tracker/internal/common"
)

// Provider turns an inspection photo into a suggested free-text comment for
// the named checklist item. Failures have no bearing on job state.
type Provider interface {
	Describe(ctx context.Context, image []byte, mimeType, itemName string) (string, error)
}

// Disabled is the no-op provider used when no annotation backend is
// configured.
type Disabled struct{}

func (Disabled) Describe(ctx context.Context, image []byte, mimeType, itemName string) (string, error) {
	return "", common.ErrAnnotationDisabled
}

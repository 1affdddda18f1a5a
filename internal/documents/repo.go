package documents

import "context"

// DocumentsRepo defines persistence operations for processed documents.
type DocumentsRepo interface {
	Create(ctx context.Context, doc MedicalDocument) error
	List(ctx context.Context) ([]MedicalDocument, error)
}

package documents

import (
	"context"
	"database/sql"
	"encoding/json"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document row.
func (r *PGRepo) Create(ctx context.Context, doc MedicalDocument) error {
	const query = `
INSERT INTO medical_documents (
    id,
    filename,
    doc_type,
    llm_summary,
    extracted_data,
    document_date,
    uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	extracted := doc.ExtractedData
	if len(extracted) == 0 {
		extracted = json.RawMessage(`{}`)
	}

	var docDate sql.NullTime
	if doc.DocumentDate != nil {
		docDate = sql.NullTime{Time: *doc.DocumentDate, Valid: true}
	}

	var summary sql.NullString
	if doc.LLMSummary != "" {
		summary = sql.NullString{String: doc.LLMSummary, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.Filename,
		doc.DocType,
		summary,
		[]byte(extracted),
		docDate,
		doc.UploadedAt,
	)
	return err
}

// List returns all documents ordered by document date descending. Documents
// without a date sort last; ties break on upload time, newest first.
func (r *PGRepo) List(ctx context.Context) ([]MedicalDocument, error) {
	const query = `
SELECT id, filename, doc_type, llm_summary, extracted_data, document_date, uploaded_at
FROM medical_documents
ORDER BY document_date DESC NULLS LAST, uploaded_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MedicalDocument
	for rows.Next() {
		var doc MedicalDocument
		var summary sql.NullString
		var extracted []byte
		var docDate sql.NullTime
		if err := rows.Scan(
			&doc.ID,
			&doc.Filename,
			&doc.DocType,
			&summary,
			&extracted,
			&docDate,
			&doc.UploadedAt,
		); err != nil {
			return nil, err
		}
		if summary.Valid {
			doc.LLMSummary = summary.String
		}
		if len(extracted) > 0 {
			doc.ExtractedData = json.RawMessage(extracted)
		}
		if docDate.Valid {
			d := docDate.Time
			doc.DocumentDate = &d
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

var _ DocumentsRepo = (*PGRepo)(nil)

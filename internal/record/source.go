package record

import "context"

// Fetcher loads a health record from wherever it is kept.
type Fetcher interface {
	GetHealthRecord(ctx context.Context, id int) (HealthRecord, error)
}

// Saver writes a health record back.
type Saver interface {
	SaveHealthRecord(ctx context.Context, id int, rec HealthRecord) error
}

// Source is a data-access collaborator that can do both.
type Source interface {
	Fetcher
	Saver
}

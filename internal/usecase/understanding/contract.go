package understanding

import (
	"context"

	"github.com/kailas-cloud/hervoice/internal/domain/query"
)

// Extractor asks a remote model for query keywords and a situation.
// Errors wrap a domain sentinel describing the failure kind. On error the
// Extraction may still carry the TotalTokens the provider billed.
type Extractor interface {
	Extract(ctx context.Context, message string) (query.Extraction, error)
}

// BudgetChecker gates remote calls on the shared token budget.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
}

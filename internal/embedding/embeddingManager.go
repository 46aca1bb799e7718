package embedding

import "context"

// Intent tells the provider whether a text is embedded for indexing or for
// search. Providers keep different internal representations for the two and
// they must never be interchanged.
type Intent string

const (
	IntentDocument Intent = "search_document"
	IntentQuery    Intent = "search_query"
)

type Embedder interface {
	// EmbedDocuments embeds chunk texts for indexing, batched internally.
	// One vector per input, order preserved, all of equal dimension.
	EmbedDocuments(ctx context.Context, chunks []string) ([][]float32, error)
	// EmbedQuery embeds a search query with the query-side representation.
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

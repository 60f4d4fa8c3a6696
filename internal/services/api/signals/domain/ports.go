package domain

import "context"

// ServicePort is consumed by handlers and by the datasets module for query-backed dispatch
type ServicePort interface {
	Query(ctx context.Context, in QueryInput) (SignalSet, error)
	Tickers(ctx context.Context, in TickersInput) (TickerPage, error)
	// Datasets lists the query-backed dataset names this port answers for
	Datasets() []string
}

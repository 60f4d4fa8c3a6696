package domain

import "context"

// ServicePort is consumed by the datasets handlers
type ServicePort interface {
	Datasets(ctx context.Context) (DatasetList, error)
	List(ctx context.Context, in ListInput) (Payload, error)
	Item(ctx context.Context, in ItemInput) (Payload, error)
}

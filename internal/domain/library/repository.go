package library

import "context"

// Repository defines data access for library content.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	List(ctx context.Context, kind string, includePremium bool, limit, offset int) ([]*Item, int64, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// Translator is the external translation collaborator. Failures are
// recovered by callers; translation is never fatal to the primary write.
type Translator interface {
	Translate(ctx context.Context, item *Item, targetLang string) (*Translation, error)
}

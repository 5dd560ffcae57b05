package tournament

import "context"

// Repository holds the single live tournament (one operator, one slot).
type Repository interface {
	Get(ctx context.Context) (*State, bool, error)
	Save(ctx context.Context, state *State) error
	Clear(ctx context.Context) error
}

// ArchiveRepository stores finished tournaments.
type ArchiveRepository interface {
	Insert(ctx context.Context, archive Archive) error
	List(ctx context.Context) ([]Archive, error)
	GetByID(ctx context.Context, id string) (Archive, bool, error)
}

package repositories

import (
	"context"
	"errors"
	"sync"

	"github.com/tournio/swiss-system/models"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentExists   = errors.New("tournament already exists")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
}

// inMemoryTournamentRepository хранит турниры в памяти процесса.
// Формат долговременного хранения — забота внешнего коллаборатора;
// интерфейс выше оставляет для него шов.
type inMemoryTournamentRepository struct {
	mu          sync.RWMutex
	tournaments map[string]*models.Tournament
	order       []string
}

func NewInMemoryTournamentRepository() TournamentRepository {
	return &inMemoryTournamentRepository{
		tournaments: make(map[string]*models.Tournament),
	}
}

func (r *inMemoryTournamentRepository) Create(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[t.ID]; ok {
		return ErrTournamentExists
	}
	r.tournaments[t.ID] = t
	r.order = append(r.order, t.ID)
	return nil
}

func (r *inMemoryTournamentRepository) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return t, nil
}

func (r *inMemoryTournamentRepository) List(_ context.Context) ([]*models.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Tournament, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tournaments[id])
	}
	return out, nil
}

func (r *inMemoryTournamentRepository) Update(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[t.ID]; !ok {
		return ErrTournamentNotFound
	}
	r.tournaments[t.ID] = t
	return nil
}

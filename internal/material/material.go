package material

import (
	"context"
	"errors"
	"sync"

	"ecocollect/internal/api"
)

var ErrMaterialNotFound = errors.New("material not found")

// Material is one recyclable type the marketplace accepts.
type Material struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Unit          string  `json:"unit"`
	PointsPerUnit float64 `json:"pointsPerUnit"`
}

type Repository interface {
	List(ctx context.Context) ([]Material, error)
}

type repository struct {
	client *api.Client
}

func NewRepository(client *api.Client) Repository {
	return &repository{client: client}
}

func (r *repository) List(ctx context.Context) ([]Material, error) {
	var materials []Material
	if err := r.client.Get(ctx, "/Material", &materials); err != nil {
		return nil, err
	}
	return materials, nil
}

// Service caches the catalog; it changes rarely, so one fetch usually
// lasts the whole session and Refresh reloads on demand.
type Service struct {
	repo Repository

	mu        sync.RWMutex
	materials []Material
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Refresh(ctx context.Context) error {
	materials, err := s.repo.List(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.materials = materials
	s.mu.Unlock()
	return nil
}

// Materials returns the cached catalog, fetching it on first use.
func (s *Service) Materials(ctx context.Context) ([]Material, error) {
	s.mu.RLock()
	cached := s.materials
	s.mu.RUnlock()

	if cached != nil {
		return cached, nil
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.materials, nil
}

func (s *Service) ByID(ctx context.Context, id uint) (*Material, error) {
	materials, err := s.Materials(ctx)
	if err != nil {
		return nil, err
	}
	for i := range materials {
		if materials[i].ID == id {
			return &materials[i], nil
		}
	}
	return nil, ErrMaterialNotFound
}

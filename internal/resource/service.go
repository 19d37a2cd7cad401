package resource

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name     string
	Capacity int
	Kind     Kind
}

type UpdateRequest struct {
	Name     *string
	Capacity *int
	Kind     *Kind
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Resource, error)
	GetByID(ctx context.Context, id int64) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	ListAll(ctx context.Context) ([]*Resource, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Resource, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	res := &Resource{
		Name:     strings.TrimSpace(req.Name),
		Capacity: req.Capacity,
		Kind:     Kind(strings.TrimSpace(string(req.Kind))),
	}
	if err := validate(res); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	filter.Page = min(max(filter.Page, 1), MaxPage)
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	filter.PageSize = min(filter.PageSize, MaxPageSize)
	return s.repo.List(ctx, filter)
}

// ListAll returns every resource ordered by id.
func (s *service) ListAll(ctx context.Context) ([]*Resource, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		res.Name = strings.TrimSpace(*req.Name)
	}
	if req.Capacity != nil {
		res.Capacity = *req.Capacity
	}
	if req.Kind != nil {
		res.Kind = Kind(strings.TrimSpace(string(*req.Kind)))
	}
	if err := validate(res); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validate(res *Resource) error {
	if res.Name == "" {
		return ErrEmptyName
	}
	if res.Capacity < 0 {
		return ErrInvalidCapacity
	}
	if res.Kind == "" {
		return ErrInvalidKind
	}
	return nil
}

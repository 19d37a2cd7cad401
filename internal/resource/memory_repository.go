package resource

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

type memoryRepository struct {
	mu        sync.RWMutex
	nextID    int64
	resources map[int64]Resource
	now       func() time.Time
}

// NewMemoryRepository returns a Repository kept in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{resources: make(map[int64]Resource), now: time.Now}
}

func (r *memoryRepository) Create(_ context.Context, res *Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	res.ID = r.nextID
	res.CreatedAt = r.now().UTC()
	r.resources[res.ID] = *res
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (*Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.resources[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &res, nil
}

func (r *memoryRepository) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	all, _ := r.ListAll(ctx)
	if filter.Kind != "" {
		all = slices.DeleteFunc(all, func(res *Resource) bool { return res.Kind != filter.Kind })
	}
	total := len(all)

	from := total
	if filter.Page-1 <= total/filter.PageSize {
		from = min((filter.Page-1)*filter.PageSize, total)
	}
	to := min(from+filter.PageSize, total)
	return all[from:to], total, nil
}

func (r *memoryRepository) ListAll(_ context.Context) ([]*Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Resource, 0, len(r.resources))
	for _, res := range r.resources {
		out = append(out, &res)
	}
	slices.SortFunc(out, func(a, b *Resource) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *memoryRepository) Update(_ context.Context, res *Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.resources[res.ID]; !ok {
		return ErrNotFound
	}
	r.resources[res.ID] = *res
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.resources[id]; !ok {
		return ErrNotFound
	}
	delete(r.resources, id)
	return nil
}

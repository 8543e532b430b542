package impl

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"hub/config"
	"hub/internal/domain/entity"
	domainerrors "hub/internal/domain/errors"
	"hub/internal/domain/repository"
	"hub/internal/domain/service"
	"hub/internal/usecase"

	"go.uber.org/fx"
)

const productsCollection = "products"

// productStore implements the ProductStore interface.
type productStore struct {
	*collection[entity.Product]

	pageSize int

	scopeMu sync.Mutex
	scope   usecase.ProductFilter
}

// ProductStoreParams holds dependencies for ProductStore, injected by Fx.
type ProductStoreParams struct {
	fx.In

	Remote    repository.DocumentStore
	Snapshots repository.SnapshotStore
	Recorder  service.OperationRecorder `optional:"true"`
	Config    *config.Config
	Logger    *slog.Logger
}

// NewProductStore is the constructor for productStore.
func NewProductStore(params ProductStoreParams) usecase.ProductStore {
	store := &productStore{
		collection: newCollection(productsCollection, decodeProduct, collectionDeps{
			Remote:    params.Remote,
			Snapshots: params.Snapshots,
			Recorder:  params.Recorder,
			Logger:    params.Logger,
		}),
		pageSize: pageSizeOf(params.Config),
	}
	if params.Config != nil && params.Config.Store != nil {
		store.setOffline(params.Config.Store.Offline)
	}

	if err := store.warm(context.Background()); err != nil {
		store.deps.Logger.Warn("Failed to warm products from snapshot", slog.Any("error", err))
	}

	return store
}

func decodeProduct(doc repository.Document) (entity.Product, error) {
	var product entity.Product
	if err := doc.DataTo(&product); err != nil {
		return product, err
	}
	product.ID = doc.ID
	if product.CreatedAt.IsZero() {
		product.CreatedAt = doc.CreateTime
	}

	return product, nil
}

func (s *productStore) query(filter usecase.ProductFilter) repository.Query {
	q := repository.Query{
		Collection: productsCollection,
		OrderBy:    "createdAt",
		Direction:  repository.Desc,
		Limit:      s.pageSize,
	}
	if filter.FranchiseID != "" {
		q = q.Where("franchiseId", filter.FranchiseID)
	}

	return q
}

func (s *productStore) setScope(filter usecase.ProductFilter) {
	s.scopeMu.Lock()
	defer s.scopeMu.Unlock()

	s.scope = filter
}

func (s *productStore) currentScope() usecase.ProductFilter {
	s.scopeMu.Lock()
	defer s.scopeMu.Unlock()

	return s.scope
}

// Load fetches the catalog, or one franchise's part of it.
func (s *productStore) Load(ctx context.Context, filter usecase.ProductFilter) error {
	s.setScope(filter)

	return s.load(ctx, s.query(filter))
}

// Subscribe mirrors the scoped catalog continuously.
func (s *productStore) Subscribe(ctx context.Context, filter usecase.ProductFilter) (usecase.Subscription, error) {
	s.setScope(filter)

	return s.subscribe(ctx, s.query(filter))
}

func (s *productStore) Status() usecase.Status {
	return s.currentStatus()
}

func (s *productStore) Observe(fn func([]entity.Product)) func() {
	return s.observe(fn)
}

func (s *productStore) SetOffline(offline bool) {
	s.setOffline(offline)
}

func (s *productStore) All() []entity.Product {
	return s.all()
}

func (s *productStore) FindByID(id string) (entity.Product, bool) {
	return s.find(id)
}

// Featured returns the flagged product of the loaded scope.
func (s *productStore) Featured() (entity.Product, bool) {
	return s.findFunc(func(p entity.Product) bool { return p.IsFeatured })
}

// Create adds a catalog entry. Products of franchise operators default to
// their own franchise.
func (s *productStore) Create(ctx context.Context, by entity.Actor, input usecase.CreateProductInput) (*entity.Product, error) {
	if err := requireProduct(by, entity.ProductAdd); err != nil {
		s.log(ctx).Warn("Rejected product creation", slog.String("by", by.ID))

		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product := entity.Product{
		Name:        input.Name,
		Price:       input.Price,
		Image:       input.Image,
		Category:    input.Category,
		Stock:       input.Stock,
		Tags:        slices.Clone(input.Tags),
		Description: input.Description,
		Features:    slices.Clone(input.Features),
		CreatedBy:   by.ID,
		FranchiseID: input.FranchiseID,
		Status:      input.Status,
	}
	if product.Status == "" {
		product.Status = entity.ProductActive
	}
	if product.FranchiseID == "" && by.Role == entity.RoleFranchise {
		product.FranchiseID = by.ID
	}

	fields := product.Fields()
	fields["createdAt"] = repository.ServerTimestamp
	fields["updatedAt"] = repository.ServerTimestamp

	created, err := s.insert(ctx, fields, func(res *repository.WriteResult) entity.Product {
		p := product.Clone()
		p.ID = res.ID
		p.CreatedAt = res.UpdateTime
		p.UpdatedAt = res.UpdateTime

		return p
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// Update writes the partial changes, then merges them locally.
func (s *productStore) Update(ctx context.Context, by entity.Actor, id string, changes usecase.ProductChanges) error {
	if err := requireProduct(by, entity.ProductEdit); err != nil {
		s.log(ctx).Warn("Rejected product update", slog.String("by", by.ID), slog.String("id", id))

		return err
	}
	if err := validateInput(changes); err != nil {
		return err
	}

	fields := productChangeFields(changes)
	if len(fields) == 0 {
		return nil
	}
	fields["updatedAt"] = repository.ServerTimestamp
	now := s.deps.Now()

	return s.update(ctx, id, fields, func(p *entity.Product) {
		applyProductChanges(p, changes)
		p.UpdatedAt = now
	})
}

func productChangeFields(c usecase.ProductChanges) map[string]any {
	fields := make(map[string]any)
	if c.Name != nil {
		fields["name"] = *c.Name
	}
	if c.Price != nil {
		fields["price"] = *c.Price
	}
	if c.Image != nil {
		fields["image"] = *c.Image
	}
	if c.Category != nil {
		fields["category"] = *c.Category
	}
	if c.Rating != nil {
		fields["rating"] = *c.Rating
	}
	if c.Reviews != nil {
		fields["reviews"] = *c.Reviews
	}
	if c.Stock != nil {
		fields["stock"] = *c.Stock
	}
	if c.Tags != nil {
		fields["tags"] = slices.Clone(*c.Tags)
	}
	if c.Description != nil {
		fields["description"] = *c.Description
	}
	if c.Features != nil {
		fields["features"] = slices.Clone(*c.Features)
	}
	if c.Status != nil {
		fields["status"] = string(*c.Status)
	}

	return fields
}

func applyProductChanges(p *entity.Product, c usecase.ProductChanges) {
	if c.Name != nil {
		p.Name = *c.Name
	}
	if c.Price != nil {
		p.Price = *c.Price
	}
	if c.Image != nil {
		p.Image = *c.Image
	}
	if c.Category != nil {
		p.Category = *c.Category
	}
	if c.Rating != nil {
		p.Rating = *c.Rating
	}
	if c.Reviews != nil {
		p.Reviews = *c.Reviews
	}
	if c.Stock != nil {
		p.Stock = *c.Stock
	}
	if c.Tags != nil {
		p.Tags = slices.Clone(*c.Tags)
	}
	if c.Description != nil {
		p.Description = *c.Description
	}
	if c.Features != nil {
		p.Features = slices.Clone(*c.Features)
	}
	if c.Status != nil {
		p.Status = *c.Status
	}
}

// Remove deletes a catalog entry.
func (s *productStore) Remove(ctx context.Context, by entity.Actor, id string) error {
	if err := requireProduct(by, entity.ProductDelete); err != nil {
		s.log(ctx).Warn("Rejected product removal", slog.String("by", by.ID), slog.String("id", id))

		return err
	}

	return s.remove(ctx, id)
}

// SetFeatured flags id and clears the flag on the other flagged products of
// the loaded scope in one atomic batch. Unflagged products are not written.
func (s *productStore) SetFeatured(ctx context.Context, by entity.Actor, id string) error {
	if err := requireProduct(by, entity.ProductEdit); err != nil {
		s.log(ctx).Warn("Rejected featured change", slog.String("by", by.ID), slog.String("id", id))

		return err
	}

	q := s.query(s.currentScope())
	q.OrderBy = ""
	q.Limit = 0

	var docs []repository.Document
	err := s.timed("get", func() error {
		var getErr error
		docs, getErr = s.deps.Remote.Get(ctx, q)

		return getErr
	})
	if err != nil {
		return s.remoteFailure(ctx, domainerrors.ErrWriteFailed, "featured", err)
	}

	found := false
	ops := make([]repository.BatchOp, 0, 2)
	for _, doc := range docs {
		target := doc.ID == id
		if target {
			found = true
		}
		if flagged, _ := doc.Fields["isFeatured"].(bool); !flagged && !target {
			continue
		}
		ops = append(ops, repository.BatchOp{
			Kind:       repository.BatchUpdate,
			Collection: productsCollection,
			ID:         doc.ID,
			Fields: map[string]any{
				"isFeatured": doc.ID == id,
				"updatedAt":  repository.ServerTimestamp,
			},
		})
	}
	if !found {
		return domainerrors.ErrNotFound.WithDetails("product " + id)
	}

	return s.batch(ctx, "featured", ops, func(p *entity.Product) {
		p.IsFeatured = p.ID == id
	})
}

func (s *productStore) Close() {
	s.close()
}

package impl

import (
	"context"
	"log/slog"

	"hub/config"
	"hub/internal/domain/entity"
	domainerrors "hub/internal/domain/errors"
	"hub/internal/domain/repository"
	"hub/internal/domain/service"
	"hub/internal/usecase"

	"go.uber.org/fx"
)

const purchasesCollection = "purchases"

// purchaseStore implements the PurchaseStore interface.
type purchaseStore struct {
	*collection[entity.Purchase]

	products usecase.ProductStore
	pageSize int
}

// PurchaseStoreParams holds dependencies for PurchaseStore, injected by Fx.
type PurchaseStoreParams struct {
	fx.In

	Remote    repository.DocumentStore
	Snapshots repository.SnapshotStore
	Products  usecase.ProductStore
	Recorder  service.OperationRecorder `optional:"true"`
	Config    *config.Config
	Logger    *slog.Logger
}

// NewPurchaseStore is the constructor for purchaseStore.
func NewPurchaseStore(params PurchaseStoreParams) usecase.PurchaseStore {
	store := &purchaseStore{
		collection: newCollection(purchasesCollection, decodePurchase, collectionDeps{
			Remote:    params.Remote,
			Snapshots: params.Snapshots,
			Recorder:  params.Recorder,
			Logger:    params.Logger,
		}),
		products: params.Products,
		pageSize: pageSizeOf(params.Config),
	}
	if params.Config != nil && params.Config.Store != nil {
		store.setOffline(params.Config.Store.Offline)
	}

	if err := store.warm(context.Background()); err != nil {
		store.deps.Logger.Warn("Failed to warm purchases from snapshot", slog.Any("error", err))
	}

	return store
}

func decodePurchase(doc repository.Document) (entity.Purchase, error) {
	var purchase entity.Purchase
	if err := doc.DataTo(&purchase); err != nil {
		return purchase, err
	}
	purchase.ID = doc.ID
	if purchase.PurchaseDate.IsZero() {
		purchase.PurchaseDate = doc.CreateTime
	}

	return purchase, nil
}

// Load fetches the purchases of one buyer, newest first.
func (s *purchaseStore) Load(ctx context.Context, filter usecase.PurchaseFilter) error {
	q := repository.Query{
		Collection: purchasesCollection,
		OrderBy:    "purchaseDate",
		Direction:  repository.Desc,
		Limit:      s.pageSize,
	}
	if filter.UserID != "" {
		q = q.Where("userId", filter.UserID)
	}

	return s.load(ctx, q)
}

func (s *purchaseStore) Status() usecase.Status {
	return s.currentStatus()
}

func (s *purchaseStore) Observe(fn func([]entity.Purchase)) func() {
	return s.observe(fn)
}

func (s *purchaseStore) SetOffline(offline bool) {
	s.setOffline(offline)
}

func (s *purchaseStore) All() []entity.Purchase {
	return s.all()
}

func (s *purchaseStore) Lines() []usecase.PurchaseLine {
	purchases := s.all()
	lines := make([]usecase.PurchaseLine, 0, len(purchases))
	for _, purchase := range purchases {
		product, ok := s.products.FindByID(purchase.ProductID)
		if !ok {
			continue
		}
		lines = append(lines, usecase.PurchaseLine{Purchase: purchase, Product: product})
	}

	return lines
}

// Create records a purchase by the acting account. The total is priced from
// the catalog at write time.
func (s *purchaseStore) Create(ctx context.Context, by entity.Actor, input usecase.CreatePurchaseInput) (*entity.Purchase, error) {
	if err := requireActor(by); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product, ok := s.products.FindByID(input.ProductID)
	if !ok {
		return nil, domainerrors.ErrNotFound.WithDetails("product " + input.ProductID)
	}

	purchase := entity.Purchase{
		UserID:     by.ID,
		ProductID:  product.ID,
		Quantity:   input.Quantity,
		TotalPrice: product.Price * float64(input.Quantity),
		Status:     input.Status,
	}
	if purchase.Status == "" {
		purchase.Status = entity.PurchasePending
	}

	fields := purchase.Fields()
	fields["purchaseDate"] = repository.ServerTimestamp

	created, err := s.insert(ctx, fields, func(res *repository.WriteResult) entity.Purchase {
		p := purchase
		p.ID = res.ID
		p.PurchaseDate = res.UpdateTime

		return p
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (s *purchaseStore) Close() {
	s.close()
}

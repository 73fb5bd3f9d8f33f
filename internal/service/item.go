package service

import (
	"context"
	"fmt"

	"github.com/ruddypp/Paramata-System/internal/domain"
	"github.com/ruddypp/Paramata-System/internal/repository"
)

type itemService struct {
	store repository.Store
}

func NewItemService(store repository.Store) ItemService {
	return &itemService{store: store}
}

func (s *itemService) CreateItem(ctx context.Context, actor domain.Principal, item *domain.Item) error {
	if !actor.IsAdmin() {
		return domain.ErrUnauthorized
	}
	if item.SerialNumber == "" || item.Name == "" {
		return fmt.Errorf("serial number and name are required: %w", domain.ErrNotFound)
	}
	item.Status = domain.ItemStatusAvailable

	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Items().Create(ctx, item); err != nil {
			return fmt.Errorf("create item: %w", err)
		}
		entry := &domain.ActivityLog{
			Type:   domain.ActivityItemCreated,
			Action: fmt.Sprintf("Item %s (%s) added to inventory", item.SerialNumber, item.Name),
			UserID: actor.ID,
			Target: domain.ItemTarget(item.SerialNumber),
		}
		return tx.Activities().Create(ctx, entry)
	})
}

func (s *itemService) GetItem(ctx context.Context, serial string) (*domain.Item, error) {
	item, err := s.store.Items().GetBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}
	if item.CustomerID != nil {
		if customer, err := s.store.Customers().GetByID(ctx, *item.CustomerID); err == nil {
			item.Customer = customer
		}
	}
	return item, nil
}

func (s *itemService) ListItems(ctx context.Context, status domain.ItemStatus, page, pageSize int32) ([]domain.Item, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.store.Items().List(ctx, status, page, pageSize)
}

func (s *itemService) GetItemHistory(ctx context.Context, serial string) ([]domain.ItemHistory, error) {
	return s.store.Items().ListHistory(ctx, serial)
}

package tables

import (
	"context"
	"errors"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/store"
)

type Service struct {
	Store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{Store: s}
}

type CreateInput struct {
	TableNumber int32              `json:"tableNumber"`
	Capacity    int32              `json:"capacity"`
	Status      models.TableStatus `json:"status"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (models.Table, error) {
	if in.TableNumber <= 0 {
		return models.Table{}, apperror.Validation("tableNumber must be positive")
	}
	if in.Capacity <= 0 {
		return models.Table{}, apperror.Validation("capacity must be positive")
	}
	if in.Status == "" {
		in.Status = models.TableAvailable
	}
	if !in.Status.Valid() {
		return models.Table{}, apperror.Validation("Invalid table status")
	}

	table, err := s.Store.CreateTable(ctx, models.Table{
		TableNumber: in.TableNumber,
		Capacity:    in.Capacity,
		Status:      in.Status,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return models.Table{}, apperror.Conflict("Table number already exists")
		}
		return models.Table{}, apperror.Unexpected(err)
	}
	return table, nil
}

func (s *Service) Get(ctx context.Context, id int64) (models.Table, error) {
	table, err := s.Store.GetTable(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Table{}, apperror.NotFound("Table not found")
		}
		return models.Table{}, apperror.Unexpected(err)
	}
	return table, nil
}

func (s *Service) Available(ctx context.Context) ([]models.Table, error) {
	status := models.TableAvailable
	list, err := s.Store.ListTables(ctx, &status)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	return list, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status models.TableStatus) (models.Table, error) {
	if !status.Valid() {
		return models.Table{}, apperror.Validation("Invalid table status")
	}
	ok, err := s.Store.UpdateTableStatus(ctx, id, status)
	if err != nil {
		return models.Table{}, apperror.Unexpected(err)
	}
	if !ok {
		return models.Table{}, apperror.NotFound("Table not found")
	}
	return s.Get(ctx, id)
}

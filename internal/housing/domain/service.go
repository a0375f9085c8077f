package domain

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*HousingResponse, error)
	List(ctx context.Context) ([]HousingResponse, error)
	GetByID(ctx context.Context, id string) (*HousingResponse, error)
	Update(ctx context.Context, req UpdateRequest) (*HousingResponse, error)
	Delete(ctx context.Context, id string) error
}

// PricePredictor computes the price stored with a record.
type PricePredictor interface {
	PredictPrice(ctx context.Context, rooms int) (float64, error)
}

type CreateRequest struct {
	Rooms int `json:"rooms"`
}

type UpdateRequest struct {
	ID    string `json:"id"`
	Rooms int    `json:"rooms"`
}

const (
	MinRooms = 1
	MaxRooms = 1000
)

var (
	ErrNotFound     = errors.New("not_found")
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidRooms = errors.New("invalid_rooms")
)

func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}

func ValidateRooms(rooms int) error {
	if rooms < MinRooms || rooms > MaxRooms {
		return ErrInvalidRooms
	}
	return nil
}

package repository

import (
	"context"

	housingdomain "github.com/smallbiznis/housing/internal/housing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() housingdomain.Repository {
	return &repo{}
}

// Insert lets the store assign the id; gorm reads it back per dialect.
func (r *repo) Insert(ctx context.Context, db *gorm.DB, h *housingdomain.Housing) error {
	return db.WithContext(ctx).Create(h).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]housingdomain.Housing, error) {
	var items []housingdomain.Housing
	err := db.WithContext(ctx).Raw(
		`SELECT id, rooms, price FROM housing ORDER BY id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*housingdomain.Housing, error) {
	var item housingdomain.Housing
	err := db.WithContext(ctx).Raw(
		`SELECT id, rooms, price FROM housing WHERE id = ?`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, h *housingdomain.Housing) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE housing SET rooms = ?, price = ? WHERE id = ?`,
		h.Rooms,
		h.Price,
		h.ID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`DELETE FROM housing WHERE id = ?`,
		id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

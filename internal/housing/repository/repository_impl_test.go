package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	housingdomain "github.com/smallbiznis/housing/internal/housing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec(`CREATE TABLE housing (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		rooms INTEGER NOT NULL,
		price REAL NULL
	)`).Error)
	return db
}

func setupMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func price(v float64) *float64 { return &v }

func TestInsertAssignsIDsInOrder(t *testing.T) {
	db := setupSQLite(t)
	r := Provide()
	ctx := context.Background()

	first := &housingdomain.Housing{Rooms: 3, Price: price(150000)}
	second := &housingdomain.Housing{Rooms: 5, Price: price(250000)}
	require.NoError(t, r.Insert(ctx, db, first))
	require.NoError(t, r.Insert(ctx, db, second))

	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	items, err := r.List(ctx, db)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, 3, items[0].Rooms)
	require.NotNil(t, items[0].Price)
	assert.Equal(t, 150000.0, *items[0].Price)
	assert.Equal(t, second.ID, items[1].ID)
}

func TestFindByIDMissingReturnsNil(t *testing.T) {
	db := setupSQLite(t)
	r := Provide()

	item, err := r.FindByID(context.Background(), db, 404)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestUpdateAndDelete(t *testing.T) {
	db := setupSQLite(t)
	r := Provide()
	ctx := context.Background()

	item := &housingdomain.Housing{Rooms: 2, Price: price(100)}
	require.NoError(t, r.Insert(ctx, db, item))

	item.Rooms = 6
	item.Price = price(600)
	ok, err := r.Update(ctx, db, item)
	require.NoError(t, err)
	assert.True(t, ok)

	// Rewriting identical values still matches the row.
	ok, err = r.Update(ctx, db, item)
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := r.FindByID(ctx, db, item.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 6, found.Rooms)
	assert.Equal(t, 600.0, *found.Price)

	ok, err = r.Update(ctx, db, &housingdomain.Housing{ID: item.ID + 100, Rooms: 1})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.Delete(ctx, db, item.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Delete(ctx, db, item.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	found, err = r.FindByID(ctx, db, item.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestListEmpty(t *testing.T) {
	db := setupSQLite(t)

	items, err := Provide().List(context.Background(), db)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestInsertReadsReturnedIDOnPostgres(t *testing.T) {
	db, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "housing" ("rooms","price") VALUES ($1,$2) RETURNING "id"`)).
		WithArgs(3, 150000.0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	item := &housingdomain.Housing{Rooms: 3, Price: price(150000)}
	require.NoError(t, Provide().Insert(context.Background(), db, item))
	assert.Equal(t, int64(42), item.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryPropagatesDriverErrors(t *testing.T) {
	errBoom := errors.New("connection reset")

	t.Run("find", func(t *testing.T) {
		db, mock := setupMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, rooms, price FROM housing WHERE id = $1`)).
			WithArgs(7).
			WillReturnError(errBoom)

		item, err := Provide().FindByID(context.Background(), db, 7)
		require.ErrorIs(t, err, errBoom)
		assert.Nil(t, item)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list", func(t *testing.T) {
		db, mock := setupMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, rooms, price FROM housing ORDER BY id ASC`)).
			WillReturnError(errBoom)

		_, err := Provide().List(context.Background(), db)
		require.ErrorIs(t, err, errBoom)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update", func(t *testing.T) {
		db, mock := setupMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE housing SET rooms = $1, price = $2 WHERE id = $3`)).
			WithArgs(4, sqlmock.AnyArg(), 9).
			WillReturnError(errBoom)

		ok, err := Provide().Update(context.Background(), db, &housingdomain.Housing{ID: 9, Rooms: 4, Price: price(1)})
		require.ErrorIs(t, err, errBoom)
		assert.False(t, ok)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete no rows", func(t *testing.T) {
		db, mock := setupMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM housing WHERE id = $1`)).
			WithArgs(9).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := Provide().Delete(context.Background(), db, 9)
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

package repositories

import (
	"context"
	"testing"

	"coursehub/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func createUser(t *testing.T, repo UserRepository, email, role string) *models.User {
	t.Helper()
	u := &models.User{DisplayName: "u", Email: email, Password: "hash", Role: role}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func createCourse(t *testing.T, repo CourseRepository, creatorID, title string) *models.Course {
	t.Helper()
	c := &models.Course{
		Title:       title,
		Description: "desc",
		Price:       10,
		ImageURL:    "http://img/" + title,
		ImageHandle: "h-" + title,
		CreatorID:   creatorID,
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupDB(t))

	u := createUser(t, repo, "a@x.com", "admin")
	assert.Len(t, u.ID, 36)

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{DisplayName: "b", Email: "a@x.com", Password: "h"})
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("email is case sensitive", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "A@X.COM")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("lookup", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		got, err = repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "admin", got.Role)
	})

	t.Run("update password", func(t *testing.T) {
		require.NoError(t, repo.UpdatePassword(ctx, u.ID, "new-hash"))
		got, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.Password)

		assert.ErrorIs(t, repo.UpdatePassword(ctx, "missing", "x"), gorm.ErrRecordNotFound)
	})

	t.Run("exists by role", func(t *testing.T) {
		ok, err := repo.ExistsByRole(ctx, "admin")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsByRole(ctx, "user")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCourseRepository_OwnershipScope(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	users := NewUserRepository(db)
	repo := NewCourseRepository(db)

	owner := createUser(t, users, "owner@x.com", "admin")
	other := createUser(t, users, "other@x.com", "admin")
	course := createCourse(t, repo, owner.ID, "intro")

	_, err := repo.GetOwned(ctx, course.ID, other.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	rows, err := repo.UpdateOwned(ctx, course.ID, other.ID, map[string]interface{}{"title": "hijacked"})
	require.NoError(t, err)
	assert.Zero(t, rows)

	rows, err = repo.DeleteOwned(ctx, course.ID, other.ID)
	require.NoError(t, err)
	assert.Zero(t, rows)

	got, err := repo.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "intro", got.Title)

	rows, err = repo.UpdateOwned(ctx, course.ID, owner.ID, map[string]interface{}{"price": 25.5})
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	got, err = repo.GetOwned(ctx, course.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.5, got.Price)
	assert.Equal(t, "intro", got.Title)
	assert.Equal(t, "desc", got.Description)

	rows, err = repo.DeleteOwned(ctx, course.ID, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	_, err = repo.GetByID(ctx, course.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCourseRepository_List(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	users := NewUserRepository(db)
	repo := NewCourseRepository(db)

	a := createUser(t, users, "a@x.com", "admin")
	b := createUser(t, users, "b@x.com", "admin")
	createCourse(t, repo, a.ID, "one")
	createCourse(t, repo, a.ID, "two")
	createCourse(t, repo, b.ID, "three")

	all, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 2)

	mine, total, err := repo.ListByCreator(ctx, a.ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, c := range mine {
		assert.Equal(t, a.ID, c.CreatorID)
	}
}

func TestPurchaseRepository(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	users := NewUserRepository(db)
	courses := NewCourseRepository(db)
	repo := NewPurchaseRepository(db)

	admin := createUser(t, users, "admin@x.com", "admin")
	buyer := createUser(t, users, "buyer@x.com", "user")
	course := createCourse(t, courses, admin.ID, "intro")

	ok, err := repo.Exists(ctx, buyer.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Create(ctx, &models.Purchase{UserID: buyer.ID, CourseID: course.ID}))

	err = repo.Create(ctx, &models.Purchase{UserID: buyer.ID, CourseID: course.ID})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	ok, err = repo.Exists(ctx, buyer.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// purchased courses stay visible after the creator deletes them
	_, err = courses.DeleteOwned(ctx, course.ID, admin.ID)
	require.NoError(t, err)

	purchases, err := repo.ListByUser(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	require.NotNil(t, purchases[0].Course)
	assert.Equal(t, "intro", purchases[0].Course.Title)
}

func TestCartRepository(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	users := NewUserRepository(db)
	courses := NewCourseRepository(db)
	repo := NewCartRepository(db)

	admin := createUser(t, users, "admin@x.com", "admin")
	buyer := createUser(t, users, "buyer@x.com", "user")
	course := createCourse(t, courses, admin.ID, "intro")

	require.NoError(t, repo.Create(ctx, &models.CartItem{UserID: buyer.ID, CourseID: course.ID}))
	err := repo.Create(ctx, &models.CartItem{UserID: buyer.ID, CourseID: course.ID})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	items, err := repo.ListByUser(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Course)
	assert.Equal(t, course.ID, items[0].Course.ID)

	rows, err := repo.Delete(ctx, buyer.ID, course.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = repo.Delete(ctx, buyer.ID, course.ID)
	require.NoError(t, err)
	assert.Zero(t, rows)

	t.Run("soft-deleted courses drop out of the cart", func(t *testing.T) {
		kept := createCourse(t, courses, admin.ID, "kept")
		gone := createCourse(t, courses, admin.ID, "gone")
		require.NoError(t, repo.Create(ctx, &models.CartItem{UserID: buyer.ID, CourseID: kept.ID}))
		require.NoError(t, repo.Create(ctx, &models.CartItem{UserID: buyer.ID, CourseID: gone.ID}))

		rows, err := courses.DeleteOwned(ctx, gone.ID, admin.ID)
		require.NoError(t, err)
		require.EqualValues(t, 1, rows)

		items, err := repo.ListByUser(ctx, buyer.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.NotNil(t, items[0].Course)
		assert.Equal(t, kept.ID, items[0].Course.ID)
	})
}

func TestImageDeletionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewImageDeletionRepository(setupDB(t))

	first := &models.PendingImageDeletion{Handle: "h1", Reason: "update"}
	second := &models.PendingImageDeletion{Handle: "h2", Reason: "delete"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	require.NoError(t, repo.RecordFailure(ctx, first.ID, "boom"))
	require.NoError(t, repo.RecordFailure(ctx, first.ID, "boom again"))

	pending, err := repo.ListRetryable(ctx, 2, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "h2", pending[0].Handle)

	pending, err = repo.ListRetryable(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, 2, pending[0].Attempts)
	assert.Equal(t, "boom again", pending[0].LastError)

	require.NoError(t, repo.Delete(ctx, second.ID))
	pending, err = repo.ListRetryable(ctx, 3, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

package services

import (
	"context"
	"strings"
	"testing"

	"coursehub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerID = "owner-1"
	otherID = "other-2"
)

type courseFixture struct {
	svc       *CourseService
	courses   *fakeCourseRepo
	deletions *fakeDeletionRepo
	images    *fakeImageStore
}

func newCourseFixture() *courseFixture {
	f := &courseFixture{
		courses:   newFakeCourseRepo(),
		deletions: newFakeDeletionRepo(),
		images:    newFakeImageStore(),
	}
	f.svc = NewCourseService(f.courses, f.deletions, f.images, 5<<20)
	return f
}

func (f *courseFixture) create(t *testing.T) string {
	t.Helper()
	c, err := f.svc.Create(context.Background(), ownerID, CreateCourseInput{
		Title:       "Intro",
		Description: "Basics",
		Price:       10,
	}, pngFile("intro.png"))
	require.NoError(t, err)
	return c.ID
}

func ptr[T any](v T) *T { return &v }

func TestCourseService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("persists with creator and image", func(t *testing.T) {
		f := newCourseFixture()
		id := f.create(t)

		got, err := f.svc.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, ownerID, got.CreatorID)
		assert.Equal(t, "Intro", got.Title)
		assert.Equal(t, 10.0, got.Price)
		assert.NotEmpty(t, got.ImageURL)
		assert.True(t, f.images.has(got.ImageHandle))
	})

	t.Run("image required", func(t *testing.T) {
		f := newCourseFixture()
		_, err := f.svc.Create(ctx, ownerID, CreateCourseInput{Title: "x", Description: "y"}, nil)
		assert.ErrorIs(t, err, domain.ErrImageRequired)
	})

	t.Run("non image rejected before upload", func(t *testing.T) {
		f := newCourseFixture()
		file := &domain.ImageFile{Filename: "a.pdf", ContentType: "application/pdf", Size: 10}
		_, err := f.svc.Create(ctx, ownerID, CreateCourseInput{Title: "x", Description: "y"}, file)
		assert.ErrorIs(t, err, domain.ErrInvalidImage)
		assert.Zero(t, f.images.seq)
	})

	t.Run("oversized image rejected", func(t *testing.T) {
		f := newCourseFixture()
		file := &domain.ImageFile{Filename: "a.png", ContentType: "image/png", Size: 6 << 20}
		_, err := f.svc.Create(ctx, ownerID, CreateCourseInput{Title: "x", Description: "y"}, file)
		assert.ErrorIs(t, err, domain.ErrImageTooLarge)
	})

	t.Run("negative price", func(t *testing.T) {
		f := newCourseFixture()
		_, err := f.svc.Create(ctx, ownerID, CreateCourseInput{Title: "x", Description: "y", Price: -1}, pngFile("a.png"))
		assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	})

	t.Run("upload failure is internal", func(t *testing.T) {
		f := newCourseFixture()
		f.images.failUpload = true
		_, err := f.svc.Create(ctx, ownerID, CreateCourseInput{Title: "x", Description: "y"}, pngFile("a.png"))
		assert.ErrorIs(t, err, domain.ErrUploadFailed)
		assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	})

	t.Run("store failure deletes the uploaded image", func(t *testing.T) {
		f := newCourseFixture()
		f.courses.failWrite = true
		_, err := f.svc.Create(ctx, ownerID, CreateCourseInput{Title: "x", Description: "y"}, pngFile("a.png"))
		assert.Equal(t, domain.KindInternal, domain.KindOf(err))
		assert.False(t, f.images.has("img-1"))
		assert.Empty(t, f.deletions.handles())
	})

	t.Run("failed compensation is queued and original error kept", func(t *testing.T) {
		f := newCourseFixture()
		f.courses.failWrite = true
		f.images.failDelete = true
		_, err := f.svc.Create(ctx, ownerID, CreateCourseInput{Title: "x", Description: "y"}, pngFile("a.png"))
		assert.ErrorIs(t, err, domain.ErrInternalServer)
		assert.Equal(t, []string{"img-1"}, f.deletions.handles())
	})
}

func TestCourseService_GetByIDMissingIsNotAnError(t *testing.T) {
	f := newCourseFixture()
	got, err := f.svc.GetByID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestCourseService_OwnershipIsEnforced(t *testing.T) {
	ctx := context.Background()
	f := newCourseFixture()
	id := f.create(t)

	_, err := f.svc.Update(ctx, id, otherID, UpdateCourseInput{Title: ptr("Hijacked")}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFoundOrUnauthorized)

	err = f.svc.Delete(ctx, id, otherID)
	assert.ErrorIs(t, err, domain.ErrNotFoundOrUnauthorized)

	_, missingErr := f.svc.Update(ctx, "missing", ownerID, UpdateCourseInput{Title: ptr("x")}, nil)
	assert.Equal(t, domain.MessageOf(err), domain.MessageOf(missingErr))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(missingErr))

	got, err := f.svc.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Intro", got.Title)
}

func TestCourseService_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	f := newCourseFixture()
	id := f.create(t)

	before, err := f.svc.GetByID(ctx, id)
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, id, ownerID, UpdateCourseInput{Price: ptr(25.0)}, nil)
	require.NoError(t, err)

	assert.Equal(t, 25.0, updated.Price)
	assert.Equal(t, before.Title, updated.Title)
	assert.Equal(t, before.Description, updated.Description)
	assert.Equal(t, before.ImageURL, updated.ImageURL)
}

func TestCourseService_UpdateValidation(t *testing.T) {
	ctx := context.Background()
	f := newCourseFixture()
	id := f.create(t)

	_, err := f.svc.Update(ctx, id, ownerID, UpdateCourseInput{}, nil)
	assert.ErrorIs(t, err, domain.ErrNothingToUpdate)

	_, err = f.svc.Update(ctx, id, ownerID, UpdateCourseInput{Price: ptr(-3.0)}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = f.svc.Update(ctx, id, ownerID, UpdateCourseInput{Title: ptr("  ")}, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)

	before, err := f.svc.GetOwned(ctx, id, ownerID)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, id, ownerID, UpdateCourseInput{Title: ptr(strings.Repeat("a", 201))}, nil)
	assert.ErrorIs(t, err, domain.ErrTitleTooLong)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))

	after, err := f.svc.GetOwned(ctx, id, ownerID)
	require.NoError(t, err)
	assert.Equal(t, before.Title, after.Title)

	// multi-byte titles are measured in characters
	updated, err := f.svc.Update(ctx, id, ownerID, UpdateCourseInput{Title: ptr(strings.Repeat("é", 200))}, nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 200), updated.Title)
}

func TestCourseService_UpdateImage(t *testing.T) {
	ctx := context.Background()

	t.Run("old image deleted after update", func(t *testing.T) {
		f := newCourseFixture()
		id := f.create(t)

		updated, err := f.svc.Update(ctx, id, ownerID, UpdateCourseInput{}, pngFile("new.png"))
		require.NoError(t, err)
		assert.Equal(t, "img-2", updated.ImageHandle)
		assert.Contains(t, updated.ImageURL, "new.png")
		assert.False(t, f.images.has("img-1"))
		assert.True(t, f.images.has("img-2"))
	})

	t.Run("old image delete failure is queued", func(t *testing.T) {
		f := newCourseFixture()
		id := f.create(t)
		f.images.setFailDelete(true)

		_, err := f.svc.Update(ctx, id, ownerID, UpdateCourseInput{}, pngFile("new.png"))
		require.NoError(t, err)
		assert.Equal(t, []string{"img-1"}, f.deletions.handles())
	})

	t.Run("store failure deletes the new image", func(t *testing.T) {
		f := newCourseFixture()
		id := f.create(t)
		f.courses.failWrite = true

		_, err := f.svc.Update(ctx, id, ownerID, UpdateCourseInput{}, pngFile("new.png"))
		assert.Equal(t, domain.KindInternal, domain.KindOf(err))
		assert.True(t, f.images.has("img-1"))
		assert.False(t, f.images.has("img-2"))
	})
}

func TestCourseService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newCourseFixture()
	id := f.create(t)

	require.NoError(t, f.svc.Delete(ctx, id, ownerID))

	got, err := f.svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, f.svc.Delete(ctx, id, ownerID), domain.ErrNotFoundOrUnauthorized)
}

func TestCourseService_Lists(t *testing.T) {
	ctx := context.Background()
	f := newCourseFixture()
	f.create(t)
	_, err := f.svc.Create(ctx, otherID, CreateCourseInput{Title: "Other", Description: "d"}, pngFile("o.png"))
	require.NoError(t, err)

	all, total, err := f.svc.ListAll(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	mine, total, err := f.svc.ListForCreator(ctx, ownerID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, ownerID, mine[0].CreatorID)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"coursehub/internal/adapters/persistence/models"
	"coursehub/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errStoreDown = errors.New("store down")

// ============================================================
// Users
// ============================================================

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	// deleteOnUpdate drops the user just before a password update lands
	deleteOnUpdate bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteOnUpdate {
		delete(r.users, id)
	}
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Password = hashedPassword
	return nil
}

func (r *fakeUserRepo) ExistsByRole(_ context.Context, role string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) setRole(id, role string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].Role = role
}

// ============================================================
// Courses
// ============================================================

type fakeCourseRepo struct {
	mu        sync.Mutex
	courses   map[string]*models.Course
	failWrite bool
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[string]*models.Course)}
}

func (r *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite {
		return errStoreDown
	}
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	course.CreatedAt = time.Now()
	cp := *course
	r.courses[course.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id string) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCourseRepo) GetOwned(_ context.Context, id, creatorID string) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok || c.CreatorID != creatorID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCourseRepo) List(_ context.Context, offset, limit int) ([]*models.Course, int64, error) {
	return r.filter(func(*models.Course) bool { return true }, offset, limit)
}

func (r *fakeCourseRepo) ListByCreator(_ context.Context, creatorID string, offset, limit int) ([]*models.Course, int64, error) {
	return r.filter(func(c *models.Course) bool { return c.CreatorID == creatorID }, offset, limit)
}

func (r *fakeCourseRepo) filter(keep func(*models.Course) bool, offset, limit int) ([]*models.Course, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.Course
	for _, c := range r.courses {
		if keep(c) {
			cp := *c
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeCourseRepo) UpdateOwned(_ context.Context, id, creatorID string, fields map[string]interface{}) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite {
		return 0, errStoreDown
	}
	c, ok := r.courses[id]
	if !ok || c.CreatorID != creatorID {
		return 0, nil
	}
	for k, v := range fields {
		switch k {
		case "title":
			c.Title = v.(string)
		case "description":
			c.Description = v.(string)
		case "price":
			c.Price = v.(float64)
		case "image_url":
			c.ImageURL = v.(string)
		case "image_handle":
			c.ImageHandle = v.(string)
		default:
			panic(fmt.Sprintf("unexpected field %s", k))
		}
	}
	return 1, nil
}

func (r *fakeCourseRepo) DeleteOwned(_ context.Context, id, creatorID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok || c.CreatorID != creatorID {
		return 0, nil
	}
	delete(r.courses, id)
	return 1, nil
}

// ============================================================
// Purchases and cart
// ============================================================

// fakePurchaseRepo enforces the (user, course) uniqueness the real index does
type fakePurchaseRepo struct {
	mu        sync.Mutex
	purchases map[string]*models.Purchase
	// existsAlwaysFalse simulates the race where every request passes the pre-check
	existsAlwaysFalse bool
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{purchases: make(map[string]*models.Purchase)}
}

func (r *fakePurchaseRepo) Create(_ context.Context, p *models.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := p.UserID + "/" + p.CourseID
	if _, ok := r.purchases[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	p.ID = uuid.NewString()
	cp := *p
	r.purchases[key] = &cp
	return nil
}

func (r *fakePurchaseRepo) Exists(_ context.Context, userID, courseID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsAlwaysFalse {
		return false, nil
	}
	_, ok := r.purchases[userID+"/"+courseID]
	return ok, nil
}

func (r *fakePurchaseRepo) ListByUser(_ context.Context, userID string) ([]*models.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Purchase
	for _, p := range r.purchases {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePurchaseRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.purchases)
}

type fakeCartRepo struct {
	mu    sync.Mutex
	items map[string]*models.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: make(map[string]*models.CartItem)}
}

func (r *fakeCartRepo) Create(_ context.Context, item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := item.UserID + "/" + item.CourseID
	if _, ok := r.items[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	item.ID = uuid.NewString()
	cp := *item
	r.items[key] = &cp
	return nil
}

func (r *fakeCartRepo) Delete(_ context.Context, userID, courseID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := userID + "/" + courseID
	if _, ok := r.items[key]; !ok {
		return 0, nil
	}
	delete(r.items, key)
	return 1, nil
}

func (r *fakeCartRepo) ListByUser(_ context.Context, userID string) ([]*models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.CartItem
	for _, it := range r.items {
		if it.UserID == userID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ============================================================
// Images
// ============================================================

type fakeDeletionRepo struct {
	mu      sync.Mutex
	nextID  uint
	pending map[uint]*models.PendingImageDeletion
}

func newFakeDeletionRepo() *fakeDeletionRepo {
	return &fakeDeletionRepo{pending: make(map[uint]*models.PendingImageDeletion)}
}

func (r *fakeDeletionRepo) Create(_ context.Context, p *models.PendingImageDeletion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.pending[p.ID] = &cp
	return nil
}

func (r *fakeDeletionRepo) ListRetryable(_ context.Context, maxAttempts, limit int) ([]*models.PendingImageDeletion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PendingImageDeletion
	for _, p := range r.pending {
		if p.Attempts < maxAttempts && len(out) < limit {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDeletionRepo) RecordFailure(_ context.Context, id uint, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pending[id]; ok {
		p.Attempts++
		p.LastError = lastError
	}
	return nil
}

func (r *fakeDeletionRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, id)
	return nil
}

func (r *fakeDeletionRepo) handles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, p := range r.pending {
		out = append(out, p.Handle)
	}
	sort.Strings(out)
	return out
}

type fakeImageStore struct {
	mu         sync.Mutex
	seq        int
	stored     map[string]bool
	failUpload bool
	failDelete bool
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{stored: make(map[string]bool)}
}

func (s *fakeImageStore) Upload(_ context.Context, file domain.ImageFile) (*domain.ImageRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpload {
		return nil, errors.New("upload service unavailable")
	}
	s.seq++
	handle := fmt.Sprintf("img-%d", s.seq)
	s.stored[handle] = true
	return &domain.ImageRef{URL: "https://cdn.test/" + handle + "/" + file.Filename, Handle: handle}, nil
}

func (s *fakeImageStore) Delete(_ context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete {
		return errors.New("delete failed")
	}
	delete(s.stored, handle)
	return nil
}

func (s *fakeImageStore) has(handle string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stored[handle]
}

func (s *fakeImageStore) setFailDelete(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDelete = v
}

// recorder captures metric calls
type fakeRecorder struct {
	mu      sync.Mutex
	entries []string
}

func (r *fakeRecorder) RecordAuthAttempt(operation, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, operation+":"+outcome)
}

func (r *fakeRecorder) RecordImageCleanup(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, "cleanup:"+outcome)
}

func pngFile(name string) *domain.ImageFile {
	return &domain.ImageFile{Filename: name, ContentType: "image/png", Size: 128}
}

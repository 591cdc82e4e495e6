package book

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	domainbook "github.com/knyharnia/bookstore/internal/domain/book"
	"github.com/knyharnia/bookstore/internal/domain/reference"
	"github.com/knyharnia/bookstore/internal/domain/user"
	apperrors "github.com/knyharnia/bookstore/pkg/errors"
)

// =========================================
// 共享测试替身
// =========================================

// fakeBookRepo 内存图书仓储（并发安全，支持并发创建场景）
type fakeBookRepo struct {
	mu          sync.Mutex
	books       []*domainbook.Book
	favorites   map[string]map[string]bool
	createErr   error
	createCalls int
	listCalls   int
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{favorites: make(map[string]map[string]bool)}
}

func (r *fakeBookRepo) Create(ctx context.Context, b *domainbook.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	// 模拟数据库唯一索引：同名写入只有第一个成功
	for _, existing := range r.books {
		if existing.Title == b.Title {
			return domainbook.ErrTitleDuplicate
		}
	}
	r.books = append(r.books, b)
	return nil
}

func (r *fakeBookRepo) FindByID(ctx context.Context, id string) (*domainbook.Book, error) {
	for _, b := range r.books {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, domainbook.ErrBookNotFound
}

func (r *fakeBookRepo) FindByTitle(ctx context.Context, title string) (*domainbook.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.books {
		if b.Title == title {
			return b, nil
		}
	}
	return nil, domainbook.ErrBookNotFound
}

func (r *fakeBookRepo) ListNewest(ctx context.Context, limit int) ([]*domainbook.Book, error) {
	r.listCalls++
	return limitBooks(r.books, limit), nil
}

func (r *fakeBookRepo) ListOnSale(ctx context.Context, limit int) ([]*domainbook.Book, error) {
	r.listCalls++
	var onSale []*domainbook.Book
	for _, b := range r.books {
		if b.OnSale() {
			onSale = append(onSale, b)
		}
	}
	return limitBooks(onSale, limit), nil
}

func (r *fakeBookRepo) ListBestsellers(ctx context.Context, limit int) ([]*domainbook.Book, error) {
	r.listCalls++
	return limitBooks(r.books, limit), nil
}

func (r *fakeBookRepo) FavoritedIDs(ctx context.Context, userID string, bookIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	for _, id := range bookIDs {
		if r.favorites[userID][id] {
			result[id] = true
		}
	}
	return result, nil
}

func (r *fakeBookRepo) AddFavorite(ctx context.Context, userID, bookID string) error {
	if r.favorites[userID] == nil {
		r.favorites[userID] = make(map[string]bool)
	}
	if r.favorites[userID][bookID] {
		return domainbook.ErrAlreadyFavorited
	}
	r.favorites[userID][bookID] = true
	return nil
}

func (r *fakeBookRepo) RemoveFavorite(ctx context.Context, userID, bookID string) error {
	if !r.favorites[userID][bookID] {
		return domainbook.ErrNotFavorited
	}
	delete(r.favorites[userID], bookID)
	return nil
}

func limitBooks(books []*domainbook.Book, limit int) []*domainbook.Book {
	if len(books) > limit {
		return books[:limit]
	}
	return books
}

// fakeUserRepo 内存用户仓储
type fakeUserRepo struct {
	users map[string]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*user.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// fakeRefRepo 内存引用仓储
type fakeRefRepo struct {
	mu      sync.Mutex
	lookups int
}

func (r *fakeRefRepo) recordLookup() {
	r.mu.Lock()
	r.lookups++
	r.mu.Unlock()
}

func (r *fakeRefRepo) FindLanguage(ctx context.Context, id uint) (*reference.Language, error) {
	r.recordLookup()
	if id == 1 {
		return &reference.Language{ID: 1, Name: "Ukrainian"}, nil
	}
	return nil, reference.ErrLanguageNotFound
}

func (r *fakeRefRepo) FindCategory(ctx context.Context, id uint) (*reference.Category, error) {
	r.recordLookup()
	if id == 1 {
		return &reference.Category{ID: 1, Name: "Ukrainian"}, nil
	}
	return nil, reference.ErrCategoryNotFound
}

func (r *fakeRefRepo) FindPublisher(ctx context.Context, id uint) (*reference.Publisher, error) {
	r.recordLookup()
	if id == 1 {
		return &reference.Publisher{ID: 1, Name: "MGT"}, nil
	}
	return nil, reference.ErrPublisherNotFound
}

func (r *fakeRefRepo) FindGenre(ctx context.Context, id uint) (*reference.Genre, error) {
	r.recordLookup()
	if id == 1 {
		return &reference.Genre{ID: 1, Name: "Fantasy"}, nil
	}
	return nil, reference.ErrGenreNotFound
}

func (r *fakeRefRepo) FindAuthors(ctx context.Context, ids []uint) ([]reference.Author, error) {
	r.recordLookup()
	authors := make([]reference.Author, 0, len(ids))
	for _, id := range ids {
		if id != 1 {
			return nil, reference.ErrAuthorNotFound
		}
		authors = append(authors, reference.Author{ID: 1, FullName: "Maus Pol"})
	}
	if len(authors) == 0 {
		return nil, reference.ErrNoAuthors
	}
	return authors, nil
}

// fakeStorage 内存封面存储（并发安全）
type fakeStorage struct {
	mu        sync.Mutex
	uploadErr error
	uploads   []string
	deletes   []string
}

func (s *fakeStorage) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uploadErr != nil {
		return "", apperrors.WrapWithCode(s.uploadErr, apperrors.ErrCodeUploadFailed, "上传封面图片失败")
	}
	s.uploads = append(s.uploads, key)
	return fmt.Sprintf("https://cdn.example.com/%s", key), nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deletes = append(s.deletes, key)
	return nil
}

// fakeTxManager 直通事务管理器
type fakeTxManager struct{}

func (m *fakeTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeEvents 事件记录器
type fakeEvents struct {
	published []string
}

func (e *fakeEvents) PublishBookCreated(ctx context.Context, b *domainbook.Book) {
	e.published = append(e.published, b.ID)
}

// fakeCache 内存视图缓存
type fakeCache struct {
	data        map[string][]byte
	getErr      error
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, view string, dest interface{}) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.data[view]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(ctx context.Context, view string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[view] = raw
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, views ...string) error {
	for _, v := range views {
		delete(c.data, v)
		c.invalidated = append(c.invalidated, v)
	}
	return nil
}

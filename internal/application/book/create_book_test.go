package book

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbook "github.com/knyharnia/bookstore/internal/domain/book"
	"github.com/knyharnia/bookstore/internal/domain/reference"
	"github.com/knyharnia/bookstore/internal/domain/user"
	apperrors "github.com/knyharnia/bookstore/pkg/errors"
)

// createBookEnv 组装图书创建用例及其全部测试替身
type createBookEnv struct {
	uc       *CreateBookUseCase
	bookRepo *fakeBookRepo
	refRepo  *fakeRefRepo
	storage  *fakeStorage
	events   *fakeEvents
	cache    *fakeCache
	admin    *user.User
	normal   *user.User
}

func newCreateBookEnv() *createBookEnv {
	admin := user.NewUser("root", "root@example.com", "hash", user.RoleAdmin)
	normal := user.NewUser("alice", "alice@example.com", "hash", user.RoleUser)

	env := &createBookEnv{
		bookRepo: newFakeBookRepo(),
		refRepo:  &fakeRefRepo{},
		storage:  &fakeStorage{},
		events:   &fakeEvents{},
		cache:    newFakeCache(),
		admin:    admin,
		normal:   normal,
	}
	env.uc = NewCreateBookUseCase(
		domainbook.NewService(env.bookRepo),
		newFakeUserRepo(admin, normal),
		reference.NewResolver(env.refRepo),
		env.storage,
		&fakeTxManager{},
		env.events,
		env.cache,
	)
	return env
}

func validCreateRequest(userID string) CreateBookRequest {
	return CreateBookRequest{
		UserID:          userID,
		Title:           "The Hobbit",
		PagesQuantity:   310,
		Summary:         "There and back again",
		OriginalPrice:   2500,
		DiscountedPrice: 2000,
		ISBN:            "978-0000000000",
		AvailableBooks:  12,
		PublicationYear: 1937,
		LanguageID:      1,
		CategoryID:      1,
		PublisherID:     1,
		GenreID:         1,
		AuthorIDs:       []uint{1},
		Image: &CoverImage{
			FileName:    "hobbit.png",
			ContentType: "image/png",
			Size:        4,
			Data:        bytes.NewReader([]byte("png!")),
		},
	}
}

func TestCreateBook_Success(t *testing.T) {
	env := newCreateBookEnv()

	created, err := env.uc.Execute(context.Background(), validCreateRequest(env.admin.ID))
	require.NoError(t, err)

	// 完整投影
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "The Hobbit", created.Title)
	assert.Equal(t, int64(2500), created.OriginalPrice)
	assert.Equal(t, int64(2000), created.DiscountedPrice)
	assert.Equal(t, RefView{ID: 1, Name: "Ukrainian"}, created.Language)
	assert.Equal(t, RefView{ID: 1, Name: "MGT"}, created.Publisher)
	assert.Equal(t, RefView{ID: 1, Name: "Fantasy"}, created.Genre)
	require.Len(t, created.Authors, 1)
	assert.Equal(t, "Maus Pol", created.Authors[0].FullName)
	require.NotNil(t, created.User)
	assert.Equal(t, env.admin.ID, created.User.ID)
	assert.Equal(t, "root", created.User.Username)

	// 封面已上传且URL写入图书
	require.Len(t, env.storage.uploads, 1)
	assert.True(t, strings.HasPrefix(env.storage.uploads[0], "covers/"))
	assert.True(t, strings.HasSuffix(env.storage.uploads[0], ".png"))
	assert.Equal(t, "https://cdn.example.com/"+env.storage.uploads[0], created.CoverImageLink)
	assert.Empty(t, env.storage.deletes)

	// 图书已落库
	assert.Equal(t, 1, env.bookRepo.createCalls)

	// 事后动作：事件发布 + 三个视图缓存失效
	assert.Equal(t, []string{created.ID}, env.events.published)
	assert.ElementsMatch(t, []string{ViewNewest, ViewSales, ViewBestsellers}, env.cache.invalidated)
}

func TestCreateBook_Forbidden(t *testing.T) {
	env := newCreateBookEnv()

	_, err := env.uc.Execute(context.Background(), validCreateRequest(env.normal.ID))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// 权限不足时不触发任何引用解析、上传和写入
	assert.Zero(t, env.refRepo.lookups)
	assert.Empty(t, env.storage.uploads)
	assert.Zero(t, env.bookRepo.createCalls)
	assert.Empty(t, env.events.published)
}

func TestCreateBook_UnknownUser(t *testing.T) {
	env := newCreateBookEnv()

	_, err := env.uc.Execute(context.Background(), validCreateRequest("no-such-user"))
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.Empty(t, env.storage.uploads)
}

func TestCreateBook_Validation(t *testing.T) {
	env := newCreateBookEnv()
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(req *CreateBookRequest)
		wantErr error
	}{
		{"空书名", func(req *CreateBookRequest) { req.Title = "" }, domainbook.ErrEmptyTitle},
		{"页数非正", func(req *CreateBookRequest) { req.PagesQuantity = 0 }, domainbook.ErrInvalidPages},
		{"负价格", func(req *CreateBookRequest) { req.OriginalPrice = -1 }, domainbook.ErrInvalidPrice},
		{"折后价高于原价", func(req *CreateBookRequest) { req.DiscountedPrice = 9999 }, domainbook.ErrDiscountExceedsPrice},
		{"负库存", func(req *CreateBookRequest) { req.AvailableBooks = -1 }, domainbook.ErrInvalidStock},
		{"无作者", func(req *CreateBookRequest) { req.AuthorIDs = nil }, domainbook.ErrNoAuthors},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest(env.admin.ID)
			tc.mutate(&req)
			_, err := env.uc.Execute(ctx, req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	// 校验失败不能触发上传
	assert.Empty(t, env.storage.uploads)
}

func TestCreateBook_MissingImage(t *testing.T) {
	env := newCreateBookEnv()

	req := validCreateRequest(env.admin.ID)
	req.Image = nil
	_, err := env.uc.Execute(context.Background(), req)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetAppError(err).Code)
}

func TestCreateBook_TitleConflict(t *testing.T) {
	env := newCreateBookEnv()
	ctx := context.Background()

	_, err := env.uc.Execute(ctx, validCreateRequest(env.admin.ID))
	require.NoError(t, err)

	_, err = env.uc.Execute(ctx, validCreateRequest(env.admin.ID))
	assert.ErrorIs(t, err, domainbook.ErrTitleDuplicate)
	assert.Equal(t, "Book title already exists, please select another one",
		apperrors.GetAppError(err).Message)

	// 预检查命中，第二次请求不上传封面
	assert.Len(t, env.storage.uploads, 1)
	assert.Equal(t, 1, env.bookRepo.createCalls)
}

func TestCreateBook_ReferenceNotFound(t *testing.T) {
	env := newCreateBookEnv()

	req := validCreateRequest(env.admin.ID)
	req.LanguageID = 99
	_, err := env.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, reference.ErrLanguageNotFound)
	assert.Empty(t, env.storage.uploads)
	assert.Zero(t, env.bookRepo.createCalls)
}

func TestCreateBook_UploadFailure(t *testing.T) {
	env := newCreateBookEnv()
	env.storage.uploadErr = assert.AnError

	_, err := env.uc.Execute(context.Background(), validCreateRequest(env.admin.ID))

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUploadFailed, apperrors.GetAppError(err).Code)

	// 上传失败：不写库、不发事件、无补偿删除（第一步失败自身无产物）
	assert.Zero(t, env.bookRepo.createCalls)
	assert.Empty(t, env.events.published)
	assert.Empty(t, env.storage.deletes)
}

func TestCreateBook_PersistFailureCompensatesUpload(t *testing.T) {
	env := newCreateBookEnv()
	// 模拟并发竞争：预检查通过后写库撞唯一索引
	env.bookRepo.createErr = domainbook.ErrTitleDuplicate

	_, err := env.uc.Execute(context.Background(), validCreateRequest(env.admin.ID))
	assert.ErrorIs(t, err, domainbook.ErrTitleDuplicate)

	// 已上传的封面被补偿删除
	require.Len(t, env.storage.uploads, 1)
	assert.Equal(t, env.storage.uploads, env.storage.deletes)

	// 不发事件、不失效缓存
	assert.Empty(t, env.events.published)
	assert.Empty(t, env.cache.invalidated)
}

func TestCreateBook_ConcurrentSameTitle(t *testing.T) {
	env := newCreateBookEnv()
	ctx := context.Background()

	// 两个请求同时通过预检查后写库，唯一索引保证恰好一个成功，
	// 另一个得到与预检查相同的冲突错误并补偿删除已上传的封面
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.uc.Execute(ctx, validCreateRequest(env.admin.ID))
		}(i)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domainbook.ErrTitleDuplicate):
			conflicted++
		default:
			t.Fatalf("意外错误: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)

	// 只落库一本
	books, err := env.bookRepo.ListNewest(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, books, 1)

	// 失败方的封面被补偿删除，成功方的保留
	if len(env.storage.uploads) == 2 {
		require.Len(t, env.storage.deletes, 1)
		assert.Contains(t, env.storage.uploads, env.storage.deletes[0])
	}

	// 事件只发布一次
	assert.Len(t, env.events.published, 1)
}

func TestFailureReason(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{apperrors.ErrForbidden, "forbidden"},
		{domainbook.ErrTitleDuplicate, "conflict"},
		{reference.ErrGenreNotFound, "not_found"},
		{domainbook.ErrEmptyTitle, "validation"},
		{apperrors.New(apperrors.ErrCodeUploadFailed, "upload failed"), "upload_failed"},
		{apperrors.ErrDatabase, "infrastructure"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, failureReason(tc.err), "reason for %v", tc.err)
	}
}

package book

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/knyharnia/bookstore/internal/domain/book"
	"github.com/knyharnia/bookstore/internal/domain/reference"
	"github.com/knyharnia/bookstore/internal/domain/user"
	apperrors "github.com/knyharnia/bookstore/pkg/errors"
	"github.com/knyharnia/bookstore/pkg/metrics"
	"github.com/knyharnia/bookstore/pkg/saga"
)

// CoverStorage 封面存储接口
// infrastructure/storage.S3Storage是生产实现
type CoverStorage interface {
	// Upload 上传封面，返回公开访问URL
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)

	// Delete 删除已上传的封面（补偿用）
	Delete(ctx context.Context, key string) error
}

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	PublishBookCreated(ctx context.Context, b *book.Book)
}

// TxManager 事务管理接口
// infrastructure/persistence/mysql.TxManager是生产实现
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CreateBookUseCase 图书创建用例
// 流程（顺序固定，前面失败不执行后面）：
// 1. 加载请求者并校验admin权限
// 2. 参数校验
// 3. 书名唯一性预检查
// 4. 解析引用实体（语言/分类/出版社/体裁/作者）
// 5. Saga执行：上传封面（补偿=删除）→ 写库（单事务）
// 6. 成功后发布book.created事件、失效首页缓存（都是尽力而为）
//
// 关键不变式：权限不足时不发生任何上传和写入；
// 写库失败时已上传的封面被补偿删除，不产生部分创建
type CreateBookUseCase struct {
	bookService book.Service
	userRepo    user.Repository
	resolver    *reference.Resolver
	storage     CoverStorage
	txManager   TxManager
	events      EventPublisher // 可以为nil
	cache       ListingCache   // 可以为nil
	sagaTimeout time.Duration
}

// NewCreateBookUseCase 创建图书创建用例
func NewCreateBookUseCase(
	bookService book.Service,
	userRepo user.Repository,
	resolver *reference.Resolver,
	storage CoverStorage,
	txManager TxManager,
	events EventPublisher,
	cache ListingCache,
) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		userRepo:    userRepo,
		resolver:    resolver,
		storage:     storage,
		txManager:   txManager,
		events:      events,
		cache:       cache,
		sagaTimeout: 30 * time.Second,
	}
}

// CoverImage 上传的封面图片
type CoverImage struct {
	FileName    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// CreateBookRequest 创建请求DTO
type CreateBookRequest struct {
	UserID          string // 认证中间件注入
	Title           string
	PagesQuantity   int
	Summary         string
	OriginalPrice   int64 // 分
	DiscountedPrice int64 // 分
	ISBN            string
	AvailableBooks  int
	PublicationYear int
	LanguageID      uint
	CategoryID      uint
	PublisherID     uint
	GenreID         uint
	AuthorIDs       []uint
	Image           *CoverImage
}

// validate 标量参数校验（引用存在性由Resolver负责）
func (req *CreateBookRequest) validate() error {
	if req.Title == "" {
		return book.ErrEmptyTitle
	}
	if req.PagesQuantity <= 0 {
		return book.ErrInvalidPages
	}
	if req.OriginalPrice < 0 || req.DiscountedPrice < 0 {
		return book.ErrInvalidPrice
	}
	if req.DiscountedPrice > req.OriginalPrice {
		return book.ErrDiscountExceedsPrice
	}
	if req.AvailableBooks < 0 {
		return book.ErrInvalidStock
	}
	if len(req.AuthorIDs) == 0 {
		return book.ErrNoAuthors
	}
	if req.Image == nil {
		return apperrors.New(apperrors.ErrCodeValidation, "cover image is required")
	}
	return nil
}

// Execute 执行创建
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*CreatedBook, error) {
	start := time.Now()

	created, err := uc.execute(ctx, req)

	metrics.ObserveHistogram(metrics.BookCreationDuration, time.Since(start).Seconds())
	if err != nil {
		metrics.IncCounterVec(metrics.BooksCreateFailedTotal, map[string]string{
			"reason": failureReason(err),
		})
		return nil, err
	}
	metrics.IncCounter(metrics.BooksCreatedTotal)

	return created, nil
}

func (uc *CreateBookUseCase) execute(ctx context.Context, req CreateBookRequest) (*CreatedBook, error) {
	// 1. 权限校验（最先执行：未授权请求不触发任何上传/写入）
	creator, err := uc.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !creator.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	// 2. 参数校验
	if err := req.validate(); err != nil {
		return nil, err
	}

	// 3. 书名唯一性预检查（并发兜底是数据库唯一索引）
	if err := uc.bookService.EnsureTitleAvailable(ctx, req.Title); err != nil {
		return nil, err
	}

	// 4. 解析引用实体
	refs, err := uc.resolver.Resolve(ctx, reference.IDs{
		LanguageID:  req.LanguageID,
		CategoryID:  req.CategoryID,
		PublisherID: req.PublisherID,
		GenreID:     req.GenreID,
		AuthorIDs:   req.AuthorIDs,
	})
	if err != nil {
		return nil, err
	}

	// 5. 上传封面 + 写库（Saga，写库失败时补偿删除封面）
	coverKey := coverObjectKey(req.Image.FileName)

	var (
		coverURL string
		created  *book.Book
	)

	sg := saga.NewSaga(uc.sagaTimeout)
	sg.AddStep("upload-cover",
		func(ctx context.Context) error {
			url, uploadErr := uc.storage.Upload(ctx, coverKey, req.Image.ContentType, req.Image.Data)
			if uploadErr != nil {
				return uploadErr
			}
			coverURL = url
			return nil
		},
		func(ctx context.Context) error {
			return uc.storage.Delete(ctx, coverKey)
		},
	)
	sg.AddStep("persist-book",
		func(ctx context.Context) error {
			b := book.NewBook(
				req.Title,
				req.PagesQuantity,
				req.Summary,
				coverURL,
				req.OriginalPrice,
				req.DiscountedPrice,
				req.ISBN,
				req.AvailableBooks,
				req.PublicationYear,
				refs,
				creator,
			)
			// 图书行与关联行在一个数据库事务内写入
			if createErr := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
				return uc.bookService.CreateBook(txCtx, b)
			}); createErr != nil {
				return createErr
			}
			created = b
			return nil
		},
		nil, // 数据库事务自身回滚，无需补偿
	)

	if err := sg.Execute(ctx); err != nil {
		return nil, err
	}

	// 6. 事后动作：事件发布与缓存失效，失败不影响创建结果
	if uc.events != nil {
		uc.events.PublishBookCreated(ctx, created)
	}
	if uc.cache != nil {
		// 缓存按TTL过期，失效失败只影响新书出现的及时性
		if err := uc.cache.Invalidate(ctx, ViewNewest, ViewSales, ViewBestsellers); err != nil {
			log.Printf("失效首页缓存失败: %v", err)
		}
	}

	return toCreatedBook(created), nil
}

// coverObjectKey 生成S3对象Key（保留原始扩展名便于识别格式）
func coverObjectKey(fileName string) string {
	return fmt.Sprintf("covers/%s%s", uuid.NewString(), path.Ext(fileName))
}

// failureReason 错误 → 监控标签
func failureReason(err error) string {
	appErr := apperrors.GetAppError(err)
	switch appErr.Code {
	case apperrors.ErrCodeForbidden:
		return "forbidden"
	case apperrors.ErrCodeTitleDuplicate:
		return "conflict"
	case apperrors.ErrCodeReferenceNotFound, apperrors.ErrCodeUserNotFound, apperrors.ErrCodeNotFound:
		return "not_found"
	case apperrors.ErrCodeValidation, apperrors.ErrCodeBindError:
		return "validation"
	case apperrors.ErrCodeUploadFailed:
		return "upload_failed"
	default:
		return "infrastructure"
	}
}

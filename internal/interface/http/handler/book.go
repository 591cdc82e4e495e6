package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appbook "github.com/knyharnia/bookstore/internal/application/book"
	"github.com/knyharnia/bookstore/internal/interface/http/dto"
	"github.com/knyharnia/bookstore/internal/interface/http/middleware"
	apperrors "github.com/knyharnia/bookstore/pkg/errors"
	"github.com/knyharnia/bookstore/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	homeListingUseCase *appbook.HomeListingUseCase
	createBookUseCase  *appbook.CreateBookUseCase
	favoriteUseCase    *appbook.FavoriteBookUseCase
	maxCoverSize       int64
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	homeListingUseCase *appbook.HomeListingUseCase,
	createBookUseCase *appbook.CreateBookUseCase,
	favoriteUseCase *appbook.FavoriteBookUseCase,
	maxCoverSize int64,
) *BookHandler {
	return &BookHandler{
		homeListingUseCase: homeListingUseCase,
		createBookUseCase:  createBookUseCase,
		favoriteUseCase:    favoriteUseCase,
		maxCoverSize:       maxCoverSize,
	}
}

// HomeListing 首页三视图
// @Summary      首页图书列表
// @Description  返回新书、打折、畅销三个视图，登录用户附带收藏标记
// @Tags         图书
// @Produce      json
// @Success      200 {object} appbook.HomeListingResponse
// @Failure      500 {object} response.ErrorBody
// @Router       /books [get]
func (h *BookHandler) HomeListing(c *gin.Context) {
	// 匿名请求userID为空串，所有favorited为false
	userID := middleware.GetUserID(c)

	result, err := h.homeListingUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// CreateBook 创建图书（admin）
// @Summary      创建图书
// @Description  multipart上架新图书，封面上传到对象存储
// @Tags         图书
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} appbook.CreatedBook
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      401 {object} response.ErrorBody "未登录"
// @Failure      403 {object} response.ErrorBody "无权限或书名已存在"
// @Failure      404 {object} response.ErrorBody "引用实体不存在"
// @Failure      502 {object} response.ErrorBody "封面上传失败"
// @Router       /books/create [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var form dto.CreateBookForm
	if err := c.ShouldBind(&form); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "malformed request: "+err.Error())
		return
	}

	languageID, categoryID, publisherID, genreID, authorIDs, err := form.ReferenceIDs()
	if err != nil {
		response.Error(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "cover image is required")
		return
	}
	if h.maxCoverSize > 0 && fileHeader.Size > h.maxCoverSize {
		response.ErrorWithStatus(c, http.StatusBadRequest, "cover image too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, apperrors.Wrap(err, "failed to read cover image"))
		return
	}
	defer file.Close()

	result, err := h.createBookUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		UserID:          middleware.MustGetUserID(c),
		Title:           form.Title,
		PagesQuantity:   form.PagesQuantity,
		Summary:         form.Summary,
		OriginalPrice:   form.OriginalPrice,
		DiscountedPrice: form.DiscountedPrice,
		ISBN:            form.ISBN,
		AvailableBooks:  form.AvailableBooks,
		PublicationYear: form.PublicationYear,
		LanguageID:      languageID,
		CategoryID:      categoryID,
		PublisherID:     publisherID,
		GenreID:         genreID,
		AuthorIDs:       authorIDs,
		Image: &appbook.CoverImage{
			FileName:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
			Data:        file,
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Favorite 收藏图书
// @Summary      收藏图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]string
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Failure      409 {object} response.ErrorBody "已收藏"
// @Router       /books/{id}/favorite [post]
func (h *BookHandler) Favorite(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	bookID := c.Param("id")

	if err := h.favoriteUseCase.Favorite(c.Request.Context(), userID, bookID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "favorited"})
}

// Unfavorite 取消收藏
// @Summary      取消收藏
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]string
// @Failure      404 {object} response.ErrorBody "未收藏或图书不存在"
// @Router       /books/{id}/favorite [delete]
func (h *BookHandler) Unfavorite(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	bookID := c.Param("id")

	if err := h.favoriteUseCase.Unfavorite(c.Request.Context(), userID, bookID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "unfavorited"})
}

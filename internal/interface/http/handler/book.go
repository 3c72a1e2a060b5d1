package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/library-api/internal/application/book"
	"github.com/xiebiao/library-api/internal/domain/book"
	"github.com/xiebiao/library-api/internal/interface/http/dto"
	"github.com/xiebiao/library-api/internal/interface/http/middleware"
	"github.com/xiebiao/library-api/pkg/response"
)

// BookHandler 图书HTTP处理器
// 设计说明：
// 1. /api/books/为受限分组，/api/shared/books/为宽松分组，两组共用同一组用例
// 2. 写操作先做权限检查再解析请求体，无权限的请求不会看到参数错误
type BookHandler struct {
	list    *appbook.ListBooksUseCase
	recent  *appbook.RecentBooksUseCase
	create  *appbook.CreateBookUseCase
	get     *appbook.GetBookUseCase
	update  *appbook.UpdateBookUseCase
	archive *appbook.ArchiveBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	list *appbook.ListBooksUseCase,
	recent *appbook.RecentBooksUseCase,
	create *appbook.CreateBookUseCase,
	get *appbook.GetBookUseCase,
	update *appbook.UpdateBookUseCase,
	archive *appbook.ArchiveBookUseCase,
) *BookHandler {
	return &BookHandler{
		list:    list,
		recent:  recent,
		create:  create,
		get:     get,
		update:  update,
		archive: archive,
	}
}

// actorOf 当前登录用户
func actorOf(c *gin.Context) appbook.Actor {
	return appbook.Actor{
		UserID: middleware.GetUserID(c),
		Role:   middleware.GetRole(c),
	}
}

// bookID 解析路径参数id，非正整数按不存在处理
func bookID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ListBooks 图书列表(不含已归档)
// @Summary      图书列表
// @Description  未归档图书，可按作者过滤(不区分大小写的包含匹配)
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        author query string false "作者包含"
// @Success      200 {object} response.Response{data=response.ListData{results=[]appbook.BookDTO}}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/books/ [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	h.listBooks(c, appbook.VariantRestricted)
}

// ListSharedBooks 宽松分组图书列表(包含已归档)
// @Summary      图书列表(宽松)
// @Description  全部图书(包含已归档)，可按作者与出版日期过滤
// @Tags         图书(宽松)
// @Produce      json
// @Security     BearerAuth
// @Param        author query string false "作者包含"
// @Param        published_date query string false "出版日期(YYYY-MM-DD)"
// @Success      200 {object} response.Response{data=response.ListData{results=[]appbook.BookDTO}}
// @Failure      400 {object} response.Response "日期格式错误"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/shared/books/ [get]
func (h *BookHandler) ListSharedBooks(c *gin.Context) {
	h.listBooks(c, appbook.VariantPermissive)
}

func (h *BookHandler) listBooks(c *gin.Context, variant appbook.Variant) {
	// 1. 解析查询参数
	var q dto.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	req := appbook.ListBooksRequest{
		Actor:   actorOf(c),
		Variant: variant,
		Author:  q.Author,
	}
	// 受限分组忽略published_date
	if variant == appbook.VariantPermissive {
		date, err := q.Date()
		if err != nil {
			response.Error(c, err)
			return
		}
		req.PublishedDate = date
	}

	// 2. 调用用例
	books, err := h.list.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, books, len(books))
}

// RecentBooks 最近30天出版的图书
// @Summary      最近出版
// @Description  出版日期不早于30天前(含当天)，未来日期同样返回，不含已归档
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=response.ListData{results=[]appbook.BookDTO}}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/books/recent/ [get]
func (h *BookHandler) RecentBooks(c *gin.Context) {
	books, err := h.recent.Execute(c.Request.Context(), appbook.RecentBooksRequest{Actor: actorOf(c)})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, books, len(books))
}

// CreateBook 创建图书(仅管理员)
// @Summary      创建图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookDTO}
// @Failure      400 {object} response.Response "参数错误或ISBN重复"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "非管理员"
// @Router       /api/books/ [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	h.createBook(c, appbook.VariantRestricted)
}

// CreateSharedBook 宽松分组创建图书(任意登录用户)
// @Summary      创建图书(宽松)
// @Tags         图书(宽松)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookDTO}
// @Failure      400 {object} response.Response "参数错误或ISBN重复"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/shared/books/ [post]
func (h *BookHandler) CreateSharedBook(c *gin.Context) {
	h.createBook(c, appbook.VariantPermissive)
}

func (h *BookHandler) createBook(c *gin.Context, variant appbook.Variant) {
	actor := actorOf(c)

	// 1. 权限检查
	if err := h.create.Authorize(actor, variant); err != nil {
		response.Error(c, err)
		return
	}

	// 2. 参数绑定与校验
	var req dto.BookRequest
	if err := dto.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	fields, err := req.Fields()
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 调用用例
	result, err := h.create.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Actor:   actor,
		Variant: variant,
		Fields:  fields,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// GetBook 图书详情(已归档视为不存在)
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "不存在或已归档"
// @Router       /api/books/{id}/ [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		response.Error(c, book.ErrBookNotFound)
		return
	}

	result, err := h.get.Execute(c.Request.Context(), appbook.GetBookRequest{Actor: actorOf(c), ID: id})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateBook 整体更新(仅管理员)
// @Summary      更新图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      400 {object} response.Response "参数错误或ISBN重复"
// @Failure      403 {object} response.Response "非管理员"
// @Failure      404 {object} response.Response "不存在或已归档"
// @Router       /api/books/{id}/ [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	h.updateBook(c, func() (book.Patch, error) {
		var req dto.BookRequest
		if err := dto.BindJSON(c, &req); err != nil {
			return book.Patch{}, err
		}
		fields, err := req.Fields()
		if err != nil {
			return book.Patch{}, err
		}
		return fields.AsPatch(), nil
	})
}

// PartialUpdateBook 部分更新(仅管理员)
// @Summary      部分更新图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.BookPatchRequest true "需要修改的字段"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      400 {object} response.Response "参数错误或ISBN重复"
// @Failure      403 {object} response.Response "非管理员"
// @Failure      404 {object} response.Response "不存在或已归档"
// @Router       /api/books/{id}/ [patch]
func (h *BookHandler) PartialUpdateBook(c *gin.Context) {
	h.updateBook(c, func() (book.Patch, error) {
		var req dto.BookPatchRequest
		if err := dto.BindJSON(c, &req); err != nil {
			return book.Patch{}, err
		}
		return req.Patch()
	})
}

func (h *BookHandler) updateBook(c *gin.Context, parse func() (book.Patch, error)) {
	actor := actorOf(c)

	// 1. 权限检查
	if err := h.update.Authorize(actor); err != nil {
		response.Error(c, err)
		return
	}

	// 2. 路径参数与请求体
	id, ok := bookID(c)
	if !ok {
		response.Error(c, book.ErrBookNotFound)
		return
	}
	patch, err := parse()
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 调用用例
	result, err := h.update.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		Actor: actor,
		ID:    id,
		Patch: patch,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ArchiveBook 归档图书(软删除，仅管理员)
// @Summary      归档图书
// @Tags         图书
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      204 "已归档"
// @Failure      403 {object} response.Response "非管理员"
// @Failure      404 {object} response.Response "不存在或已归档"
// @Router       /api/books/{id}/ [delete]
func (h *BookHandler) ArchiveBook(c *gin.Context) {
	actor := actorOf(c)
	if err := h.archive.Authorize(actor); err != nil {
		response.Error(c, err)
		return
	}

	id, ok := bookID(c)
	if !ok {
		response.Error(c, book.ErrBookNotFound)
		return
	}

	if err := h.archive.Execute(c.Request.Context(), appbook.ArchiveBookRequest{Actor: actor, ID: id}); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

package book

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/xiebiao/library-api/pkg/errors"
)

// DateLayout 出版日期的文本格式
const DateLayout = "2006-01-02"

// 字段长度上限
const (
	MaxTitleLen    = 255
	MaxAuthorLen   = 100
	MaxISBNLen     = 13
	MaxLanguageLen = 20
)

// State 图书归档状态
// 状态机只有一条单向迁移：Active → Archived，不提供取消归档
type State int

const (
	StateActive State = iota
	StateArchived
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateArchived:
		return "archived"
	default:
		return "unknown"
	}
}

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. ISBN全局唯一(包括已归档图书)，由数据库UNIQUE索引保证
// 2. PublishedDate只有日期部分，统一存为UTC零点
// 3. 删除即归档，记录保留
type Book struct {
	ID            uint
	Title         string
	Author        string
	PublishedDate time.Time
	ISBN          string
	Pages         int
	Language      string
	State         State
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Fields 创建或整体更新图书时可写的字段
type Fields struct {
	Title         string
	Author        string
	PublishedDate time.Time
	ISBN          string
	Pages         int
	Language      string
}

// Patch 部分更新，nil表示不修改
type Patch struct {
	Title         *string
	Author        *string
	PublishedDate *time.Time
	ISBN          *string
	Pages         *int
	Language      *string
}

// AsPatch 整体更新等价于所有字段都设置的Patch
func (f Fields) AsPatch() Patch {
	return Patch{
		Title:         &f.Title,
		Author:        &f.Author,
		PublishedDate: &f.PublishedDate,
		ISBN:          &f.ISBN,
		Pages:         &f.Pages,
		Language:      &f.Language,
	}
}

// NewBook 创建新图书(工厂方法)，初始状态为Active，文本字段去除首尾空白
func NewBook(f Fields) *Book {
	now := time.Now()
	return &Book{
		Title:         strings.TrimSpace(f.Title),
		Author:        strings.TrimSpace(f.Author),
		PublishedDate: DateOf(f.PublishedDate),
		ISBN:          strings.TrimSpace(f.ISBN),
		Pages:         f.Pages,
		Language:      strings.TrimSpace(f.Language),
		State:         StateActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsArchived 是否已归档
func (b *Book) IsArchived() bool {
	return b.State == StateArchived
}

// Archive 归档(领域行为)
// 已归档时为空操作，返回false
func (b *Book) Archive() bool {
	if b.State == StateArchived {
		return false
	}
	b.State = StateArchived
	b.UpdatedAt = time.Now()
	return true
}

// Apply 应用更新
// 业务规则:
// 1. 已归档的图书不可修改
// 2. 文本字段去除首尾空白后保存
func (b *Book) Apply(p Patch) error {
	if b.IsArchived() {
		return ErrBookArchived
	}

	next := *b
	if p.Title != nil {
		next.Title = strings.TrimSpace(*p.Title)
	}
	if p.Author != nil {
		next.Author = strings.TrimSpace(*p.Author)
	}
	if p.PublishedDate != nil {
		next.PublishedDate = DateOf(*p.PublishedDate)
	}
	if p.ISBN != nil {
		next.ISBN = strings.TrimSpace(*p.ISBN)
	}
	if p.Pages != nil {
		next.Pages = *p.Pages
	}
	if p.Language != nil {
		next.Language = strings.TrimSpace(*p.Language)
	}
	if err := next.Validate(); err != nil {
		return err
	}

	next.UpdatedAt = time.Now()
	*b = next
	return nil
}

// Validate 校验字段约束，返回携带字段错误的AppError
func (b *Book) Validate() error {
	fields := map[string][]string{}
	checkText(fields, "title", b.Title, MaxTitleLen)
	checkText(fields, "author", b.Author, MaxAuthorLen)
	checkText(fields, "isbn", b.ISBN, MaxISBNLen)
	checkText(fields, "language", b.Language, MaxLanguageLen)
	if b.Pages < 0 {
		fields["pages"] = append(fields["pages"], "Ensure this value is greater than or equal to 0.")
	}
	if b.PublishedDate.IsZero() {
		fields["published_date"] = append(fields["published_date"], "This field is required.")
	}
	if len(fields) > 0 {
		return apperrors.Validation(fields)
	}
	return nil
}

func checkText(fields map[string][]string, name, value string, max int) {
	if value == "" {
		fields[name] = append(fields[name], "This field may not be blank.")
		return
	}
	if n := utf8.RuneCountInString(value); n > max {
		fields[name] = append(fields[name], "Ensure this field has no more than "+strconv.Itoa(max)+" characters.")
	}
}

// DateOf 截取日期部分(UTC零点)
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析YYYY-MM-DD格式的日期
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

package book

import (
	"strings"
	"time"
)

// RecentWindow "最近出版"的回溯天数
const RecentWindow = 30

// PredicateKind 谓词类型
type PredicateKind int

const (
	// KindAuthorContains 作者包含(不区分大小写)
	KindAuthorContains PredicateKind = iota
	// KindPublishedOn 出版日期等于
	KindPublishedOn
	// KindPublishedOnOrAfter 出版日期不早于(含当天)
	KindPublishedOnOrAfter
	// KindNotArchived 排除已归档
	KindNotArchived
)

// Predicate 单个查询条件(值类型，不可变)
type Predicate struct {
	Kind PredicateKind
	Text string
	Date time.Time
}

// AuthorContains 作者名包含s(不区分大小写)
func AuthorContains(s string) Predicate {
	return Predicate{Kind: KindAuthorContains, Text: s}
}

// PublishedOn 出版日期等于d
func PublishedOn(d time.Time) Predicate {
	return Predicate{Kind: KindPublishedOn, Date: DateOf(d)}
}

// PublishedOnOrAfter 出版日期>=d
func PublishedOnOrAfter(d time.Time) Predicate {
	return Predicate{Kind: KindPublishedOnOrAfter, Date: DateOf(d)}
}

// PublishedSince 最近days天内出版，以now所在日期为基准，下界包含，不设上界
func PublishedSince(now time.Time, days int) Predicate {
	return PublishedOnOrAfter(DateOf(now).AddDate(0, 0, -days))
}

// NotArchived 只保留未归档图书
func NotArchived() Predicate {
	return Predicate{Kind: KindNotArchived}
}

// Matches 在内存中判断b是否满足条件
func (p Predicate) Matches(b *Book) bool {
	switch p.Kind {
	case KindAuthorContains:
		return strings.Contains(strings.ToLower(b.Author), strings.ToLower(p.Text))
	case KindPublishedOn:
		return DateOf(b.PublishedDate).Equal(p.Date)
	case KindPublishedOnOrAfter:
		return !DateOf(b.PublishedDate).Before(p.Date)
	case KindNotArchived:
		return !b.IsArchived()
	default:
		return false
	}
}

// Filter 谓词的合取
// 设计说明:
// 1. With返回新的Filter，原值不变，可安全地作为基础条件复用
// 2. 零值Filter匹配所有图书
type Filter struct {
	preds []Predicate
}

// NewFilter 创建Filter
func NewFilter(preds ...Predicate) Filter {
	return Filter{preds: append([]Predicate(nil), preds...)}
}

// With 追加条件，返回新Filter
func (f Filter) With(preds ...Predicate) Filter {
	next := make([]Predicate, 0, len(f.preds)+len(preds))
	next = append(next, f.preds...)
	next = append(next, preds...)
	return Filter{preds: next}
}

// Predicates 返回条件副本
func (f Filter) Predicates() []Predicate {
	return append([]Predicate(nil), f.preds...)
}

// Matches 全部条件都满足才匹配
func (f Filter) Matches(b *Book) bool {
	for _, p := range f.preds {
		if !p.Matches(b) {
			return false
		}
	}
	return true
}

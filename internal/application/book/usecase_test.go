package book

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library-api/internal/domain/book"
	"github.com/xiebiao/library-api/internal/domain/user"
	"github.com/xiebiao/library-api/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/library-api/pkg/metrics"
)

var (
	admin  = Actor{UserID: 1, Role: user.RoleAdmin}
	member = Actor{UserID: 2, Role: user.RoleMember}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []book.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt book.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) types() []book.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]book.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	repo    *memory.BookRepository
	events  *recordingPublisher
	metrics *metrics.Metrics

	list    *ListBooksUseCase
	recent  *RecentBooksUseCase
	create  *CreateBookUseCase
	get     *GetBookUseCase
	update  *UpdateBookUseCase
	archive *ArchiveBookUseCase
}

func newFixture() *fixture {
	repo := memory.NewBookRepository()
	svc := book.NewService(repo)
	events := &recordingPublisher{}
	m := metrics.New("")
	return &fixture{
		repo:    repo,
		events:  events,
		metrics: m,
		list:    NewListBooksUseCase(svc, m),
		recent:  NewRecentBooksUseCase(svc, m),
		create:  NewCreateBookUseCase(svc, events, m),
		get:     NewGetBookUseCase(svc, m),
		update:  NewUpdateBookUseCase(svc, events, m),
		archive: NewArchiveBookUseCase(svc, events, m),
	}
}

func dune() book.Fields {
	return book.Fields{
		Title:         "Dune",
		Author:        "Herbert",
		PublishedDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ISBN:          "0441013597",
		Pages:         412,
		Language:      "en",
	}
}

func fields(title, author, isbn string, published time.Time) book.Fields {
	return book.Fields{Title: title, Author: author, ISBN: isbn, PublishedDate: published, Pages: 100, Language: "en"}
}

func (f *fixture) mustCreate(t *testing.T, fl book.Fields) *BookDTO {
	t.Helper()
	b, err := f.create.Execute(context.Background(), CreateBookRequest{Actor: admin, Variant: VariantRestricted, Fields: fl})
	require.NoError(t, err)
	return b
}

func (f *fixture) storeSnapshot(t *testing.T) []*book.Book {
	t.Helper()
	all, err := f.repo.List(context.Background(), book.Filter{})
	require.NoError(t, err)
	return all
}

func TestCreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("admin创建Dune", func(t *testing.T) {
		f := newFixture()
		b, err := f.create.Execute(ctx, CreateBookRequest{Actor: admin, Variant: VariantRestricted, Fields: dune()})
		require.NoError(t, err)

		assert.NotZero(t, b.ID)
		assert.False(t, b.IsArchived)
		assert.Equal(t, "2024-01-01", b.PublishedDate)
		assert.Equal(t, []book.EventType{book.EventCreated}, f.events.types())
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.BookOperationsTotal.WithLabelValues("create_restricted", metrics.ResultSuccess)))
		t.Logf("✓ 创建成功，ID: %d", b.ID)
	})

	t.Run("member在受限分组创建被拒绝且存储不变", func(t *testing.T) {
		f := newFixture()
		_, err := f.create.Execute(ctx, CreateBookRequest{Actor: member, Variant: VariantRestricted, Fields: dune()})
		assert.ErrorIs(t, err, ErrCreateForbidden)
		assert.Empty(t, f.storeSnapshot(t))
		assert.Empty(t, f.events.types())
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.BookOperationsTotal.WithLabelValues("create_restricted", metrics.ResultDenied)))
	})

	t.Run("member在受限分组提交非法数据仍返回403", func(t *testing.T) {
		f := newFixture()
		_, err := f.create.Execute(ctx, CreateBookRequest{Actor: member, Variant: VariantRestricted, Fields: book.Fields{}})
		assert.ErrorIs(t, err, ErrCreateForbidden)
	})

	t.Run("member在宽松分组可以创建", func(t *testing.T) {
		f := newFixture()
		b, err := f.create.Execute(ctx, CreateBookRequest{Actor: member, Variant: VariantPermissive, Fields: dune()})
		require.NoError(t, err)
		assert.NotZero(t, b.ID)
		assert.Equal(t, uint(2), f.events.events[0].ActorID)
	})

	t.Run("ISBN重复", func(t *testing.T) {
		f := newFixture()
		f.mustCreate(t, dune())

		other := dune()
		other.Title = "Another"
		_, err := f.create.Execute(ctx, CreateBookRequest{Actor: admin, Variant: VariantRestricted, Fields: other})
		assert.ErrorIs(t, err, book.ErrISBNDuplicate)
		assert.Len(t, f.storeSnapshot(t), 1)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.BookOperationsTotal.WithLabelValues("create_restricted", metrics.ResultInvalid)))
	})

	t.Run("与已归档图书ISBN重复", func(t *testing.T) {
		f := newFixture()
		b := f.mustCreate(t, dune())
		require.NoError(t, f.archive.Execute(ctx, ArchiveBookRequest{Actor: admin, ID: b.ID}))

		_, err := f.create.Execute(ctx, CreateBookRequest{Actor: admin, Variant: VariantRestricted, Fields: dune()})
		assert.ErrorIs(t, err, book.ErrISBNDuplicate)
	})
}

func TestListBooks(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	hobbit := f.mustCreate(t, fields("The Hobbit", "J.R.R. Tolkien", "1", d))
	f.mustCreate(t, fields("Silmarillion", "Christopher TOLKIEN", "2", d.AddDate(0, 0, 1)))
	f.mustCreate(t, fields("Dune", "Frank Herbert", "3", d))
	require.NoError(t, f.archive.Execute(ctx, ArchiveBookRequest{Actor: admin, ID: hobbit.ID}))

	t.Run("受限列表排除已归档", func(t *testing.T) {
		resp, err := f.list.Execute(ctx, ListBooksRequest{Actor: member, Variant: VariantRestricted})
		require.NoError(t, err)
		assert.Equal(t, 2, len(resp))
		for _, b := range resp {
			assert.False(t, b.IsArchived)
		}
	})

	t.Run("受限列表按作者过滤", func(t *testing.T) {
		resp, err := f.list.Execute(ctx, ListBooksRequest{Actor: member, Variant: VariantRestricted, Author: "Tolkien"})
		require.NoError(t, err)
		require.Equal(t, 1, len(resp))
		assert.Equal(t, "Silmarillion", resp[0].Title)
	})

	t.Run("受限列表忽略published_date", func(t *testing.T) {
		resp, err := f.list.Execute(ctx, ListBooksRequest{Actor: member, Variant: VariantRestricted, PublishedDate: &d})
		require.NoError(t, err)
		assert.Equal(t, 2, len(resp))
	})

	t.Run("宽松列表包含已归档", func(t *testing.T) {
		resp, err := f.list.Execute(ctx, ListBooksRequest{Actor: member, Variant: VariantPermissive, Author: "tolkien"})
		require.NoError(t, err)
		assert.Equal(t, 2, len(resp))
	})

	t.Run("宽松列表按作者与日期过滤", func(t *testing.T) {
		resp, err := f.list.Execute(ctx, ListBooksRequest{Actor: member, Variant: VariantPermissive, Author: "tolkien", PublishedDate: &d})
		require.NoError(t, err)
		require.Equal(t, 1, len(resp))
		assert.True(t, resp[0].IsArchived)
	})

	t.Run("空结果返回空数组", func(t *testing.T) {
		resp, err := f.list.Execute(ctx, ListBooksRequest{Actor: member, Variant: VariantRestricted, Author: "nobody"})
		require.NoError(t, err)
		assert.NotNil(t, resp)
		assert.Empty(t, resp)
	})
}

func TestListBooksRequest_FilterIsFresh(t *testing.T) {
	req := ListBooksRequest{Variant: VariantRestricted, Author: "x"}
	f1 := req.Filter()
	f2 := req.Filter()
	assert.Equal(t, f1.Predicates(), f2.Predicates())
	assert.Len(t, f1.Predicates(), 2)
}

func TestRecentBooks(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	now := time.Date(2024, 6, 30, 10, 0, 0, 0, time.UTC)
	f.recent.now = func() time.Time { return now }

	f.mustCreate(t, fields("Boundary", "A", "1", now.AddDate(0, 0, -30)))
	f.mustCreate(t, fields("TooOld", "A", "2", now.AddDate(0, 0, -31)))
	f.mustCreate(t, fields("Future", "A", "3", now.AddDate(0, 1, 0)))
	archived := f.mustCreate(t, fields("ArchivedRecent", "A", "4", now))
	require.NoError(t, f.archive.Execute(ctx, ArchiveBookRequest{Actor: admin, ID: archived.ID}))

	resp, err := f.recent.Execute(ctx, RecentBooksRequest{Actor: member})
	require.NoError(t, err)

	titles := make([]string, 0, len(resp))
	for _, b := range resp {
		titles = append(titles, b.Title)
	}
	assert.ElementsMatch(t, []string{"Boundary", "Future"}, titles)
}

func TestRecentBooks_UTCDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	// 东八区6月30日01:00，对应UTC 6月29日17:00
	now := time.Date(2024, 6, 30, 1, 0, 0, 0, time.FixedZone("CST", 8*3600))
	f.recent.now = func() time.Time { return now }

	f.mustCreate(t, fields("UTCBoundary", "A", "1", time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)))
	f.mustCreate(t, fields("Outside", "A", "2", time.Date(2024, 5, 29, 0, 0, 0, 0, time.UTC)))

	resp, err := f.recent.Execute(ctx, RecentBooksRequest{Actor: member})
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "UTCBoundary", resp[0].Title)
	t.Logf("✓ 窗口下界为2024-05-30")
}

func TestGetBook(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b := f.mustCreate(t, dune())

	got, err := f.get.Execute(ctx, GetBookRequest{Actor: member, ID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)

	_, err = f.get.Execute(ctx, GetBookRequest{Actor: member, ID: 999})
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	require.NoError(t, f.archive.Execute(ctx, ArchiveBookRequest{Actor: admin, ID: b.ID}))
	_, err = f.get.Execute(ctx, GetBookRequest{Actor: member, ID: b.ID})
	assert.ErrorIs(t, err, book.ErrBookNotFound, "已归档图书返回404")
}

func TestUpdateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("admin部分更新", func(t *testing.T) {
		f := newFixture()
		b := f.mustCreate(t, dune())
		pages := 500
		got, err := f.update.Execute(ctx, UpdateBookRequest{Actor: admin, ID: b.ID, Patch: book.Patch{Pages: &pages}})
		require.NoError(t, err)
		assert.Equal(t, 500, got.Pages)
		assert.Equal(t, "Dune", got.Title)
		assert.Equal(t, []book.EventType{book.EventCreated, book.EventUpdated}, f.events.types())
	})

	t.Run("member更新被拒绝且存储不变", func(t *testing.T) {
		f := newFixture()
		b := f.mustCreate(t, dune())
		before := f.storeSnapshot(t)

		title := "Hacked"
		_, err := f.update.Execute(ctx, UpdateBookRequest{Actor: member, ID: b.ID, Patch: book.Patch{Title: &title}})
		assert.ErrorIs(t, err, ErrUpdateForbidden)
		assert.Equal(t, before, f.storeSnapshot(t))
	})

	t.Run("member更新不存在的图书仍返回403", func(t *testing.T) {
		f := newFixture()
		_, err := f.update.Execute(ctx, UpdateBookRequest{Actor: member, ID: 404})
		assert.ErrorIs(t, err, ErrUpdateForbidden)
	})

	t.Run("更新已归档图书返回404", func(t *testing.T) {
		f := newFixture()
		b := f.mustCreate(t, dune())
		require.NoError(t, f.archive.Execute(ctx, ArchiveBookRequest{Actor: admin, ID: b.ID}))

		title := "x"
		_, err := f.update.Execute(ctx, UpdateBookRequest{Actor: admin, ID: b.ID, Patch: book.Patch{Title: &title}})
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})

	t.Run("更新为已占用的ISBN", func(t *testing.T) {
		f := newFixture()
		f.mustCreate(t, dune())
		other := f.mustCreate(t, fields("Other", "B", "999", time.Now()))

		isbn := "0441013597"
		_, err := f.update.Execute(ctx, UpdateBookRequest{Actor: admin, ID: other.ID, Patch: book.Patch{ISBN: &isbn}})
		assert.ErrorIs(t, err, book.ErrISBNDuplicate)
	})
}

func TestArchiveBook(t *testing.T) {
	ctx := context.Background()

	t.Run("软删除保留记录", func(t *testing.T) {
		f := newFixture()
		b := f.mustCreate(t, dune())

		require.NoError(t, f.archive.Execute(ctx, ArchiveBookRequest{Actor: admin, ID: b.ID}))
		stored, err := f.repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsArchived())
		assert.Equal(t, []book.EventType{book.EventCreated, book.EventArchived}, f.events.types())
	})

	t.Run("第二次归档返回404", func(t *testing.T) {
		f := newFixture()
		b := f.mustCreate(t, dune())
		require.NoError(t, f.archive.Execute(ctx, ArchiveBookRequest{Actor: admin, ID: b.ID}))

		err := f.archive.Execute(ctx, ArchiveBookRequest{Actor: admin, ID: b.ID})
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})

	t.Run("member归档被拒绝且存储不变", func(t *testing.T) {
		f := newFixture()
		b := f.mustCreate(t, dune())

		err := f.archive.Execute(ctx, ArchiveBookRequest{Actor: member, ID: b.ID})
		assert.ErrorIs(t, err, ErrDeleteForbidden)
		stored, _ := f.repo.FindByID(ctx, b.ID)
		assert.False(t, stored.IsArchived())
	})
}

func TestResultOf(t *testing.T) {
	assert.Equal(t, metrics.ResultSuccess, resultOf(nil))
	assert.Equal(t, metrics.ResultDenied, resultOf(ErrCreateForbidden))
	assert.Equal(t, metrics.ResultNotFound, resultOf(book.ErrBookNotFound))
	assert.Equal(t, metrics.ResultInvalid, resultOf(book.ErrISBNDuplicate))
	assert.Equal(t, metrics.ResultError, resultOf(errors.New("boom")))
}

func TestAuthorizeRecordsDenial(t *testing.T) {
	f := newFixture()
	denied := func(op string) float64 {
		return testutil.ToFloat64(f.metrics.BookOperationsTotal.WithLabelValues(op, metrics.ResultDenied))
	}

	t.Run("admin放行不计数", func(t *testing.T) {
		assert.NoError(t, f.create.Authorize(admin, VariantRestricted))
		assert.NoError(t, f.update.Authorize(admin))
		assert.NoError(t, f.archive.Authorize(admin))
		assert.Equal(t, 0.0, denied("create_restricted"))
		assert.Equal(t, 0.0, denied("update"))
		assert.Equal(t, 0.0, denied("archive"))
	})

	t.Run("member被拒绝并计入denied", func(t *testing.T) {
		assert.ErrorIs(t, f.create.Authorize(member, VariantRestricted), ErrCreateForbidden)
		assert.ErrorIs(t, f.update.Authorize(member), ErrUpdateForbidden)
		assert.ErrorIs(t, f.archive.Authorize(member), ErrDeleteForbidden)
		assert.Equal(t, 1.0, denied("create_restricted"))
		assert.Equal(t, 1.0, denied("update"))
		assert.Equal(t, 1.0, denied("archive"))
	})

	t.Run("member在宽松分组可以创建", func(t *testing.T) {
		assert.NoError(t, f.create.Authorize(member, VariantPermissive))
		assert.Equal(t, 0.0, denied("create_permissive"))
	})
}

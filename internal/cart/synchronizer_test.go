package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/mediastore-next/internal/models"
	"github.com/mediastore-next/internal/upstream"
)

type fakeRemote struct {
	items   []upstream.RemoteCartItem
	fail    bool
	addN    int
	updateN int
	removeN int
}

func (f *fakeRemote) GetCart(_ context.Context, sessionKey string) (*upstream.RemoteCart, error) {
	if f.fail {
		return nil, errors.New("remote down")
	}
	return &upstream.RemoteCart{SessionKey: sessionKey, Items: f.items}, nil
}

func (f *fakeRemote) AddItem(_ context.Context, _ string, item upstream.CartItemInput) (*upstream.RemoteCart, error) {
	f.addN++
	if f.fail {
		return nil, errors.New("remote down")
	}
	f.items = append(f.items, upstream.RemoteCartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	return &upstream.RemoteCart{Items: f.items}, nil
}

func (f *fakeRemote) UpdateItem(_ context.Context, _ string, item upstream.CartItemInput) (*upstream.RemoteCart, error) {
	f.updateN++
	if f.fail {
		return nil, errors.New("remote down")
	}
	return &upstream.RemoteCart{Items: f.items}, nil
}

func (f *fakeRemote) RemoveItem(_ context.Context, _, _ string) error {
	f.removeN++
	if f.fail {
		return errors.New("remote down")
	}
	return nil
}

type fakeCatalog struct {
	products map[string]*models.Product
}

func (f *fakeCatalog) Resolve(_ context.Context, id string) (*models.Product, bool) {
	p, ok := f.products[id]
	return p, ok
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]*models.Product{
		"Book-1": {
			ID:       "Book-1",
			Title:    "1984",
			Category: models.CategoryBook,
			Price:    models.NewMoneyFromFloat(13.99),
			Stock:    20,
		},
		"CD-1": {
			ID:       "CD-1",
			Title:    "Kind of Blue",
			Category: models.CategoryCD,
			Price:    models.NewMoneyFromFloat(9.50),
			Stock:    5,
		},
	}}
}

func TestAddItemMergesAndDerivesTotals(t *testing.T) {
	ctx := context.Background()
	s := NewSynchronizer("session-1", &fakeRemote{}, testCatalog())
	s.Initialize(ctx)

	s.AddItem(ctx, "Book-1", 1)
	s.AddItem(ctx, "Book-1", 1)

	entries := s.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries want 1 got %d", len(entries))
	}
	if entries[0].Qty != 2 {
		t.Fatalf("qty want 2 got %d", entries[0].Qty)
	}
	if got := s.Subtotal(ctx).String(); got != "27.98" {
		t.Fatalf("subtotal want 27.98 got %s", got)
	}
	if got := s.TotalItems(ctx); got != 2 {
		t.Fatalf("total items want 2 got %d", got)
	}
}

func TestUpdateQtyClampsToStock(t *testing.T) {
	ctx := context.Background()
	s := NewSynchronizer("session-1", &fakeRemote{}, testCatalog())
	s.Initialize(ctx)

	s.AddItem(ctx, "Book-1", 2)
	s.UpdateQty(ctx, "Book-1", 25)

	entries := s.Entries()
	if len(entries) != 1 || entries[0].Qty != 20 {
		t.Fatalf("qty should clamp to stock 20, got %+v", entries)
	}
	if got := s.Subtotal(ctx).String(); got != "279.80" {
		t.Fatalf("subtotal want 279.80 got %s", got)
	}
}

func TestUpdateQtyZeroRemovesEntry(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	s := NewSynchronizer("session-1", remote, testCatalog())
	s.Initialize(ctx)

	s.AddItem(ctx, "Book-1", 2)
	s.UpdateQty(ctx, "Book-1", 0)

	if len(s.Entries()) != 0 {
		t.Fatalf("qty 0 should remove entry, got %+v", s.Entries())
	}
	if remote.removeN != 1 {
		t.Fatalf("qty 0 should call remote remove, got %d", remote.removeN)
	}
}

func TestRemoveItemEmptiesCart(t *testing.T) {
	ctx := context.Background()
	s := NewSynchronizer("session-1", &fakeRemote{}, testCatalog())
	s.Initialize(ctx)

	s.AddItem(ctx, "Book-1", 2)
	s.RemoveItem(ctx, "Book-1")

	if len(s.Entries()) != 0 {
		t.Fatalf("cart should be empty, got %+v", s.Entries())
	}
	if got := s.Subtotal(ctx).String(); got != "0.00" {
		t.Fatalf("subtotal want 0.00 got %s", got)
	}
}

func TestMutationsSurviveRemoteFailure(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{fail: true}
	s := NewSynchronizer("session-1", remote, testCatalog())
	s.Initialize(ctx)

	s.AddItem(ctx, "Book-1", 2)
	s.UpdateQty(ctx, "Book-1", 3)
	s.AddItem(ctx, "CD-1", 1)
	s.RemoveItem(ctx, "CD-1")

	entries := s.Entries()
	if len(entries) != 1 || entries[0].ProductID != "Book-1" || entries[0].Qty != 3 {
		t.Fatalf("local state should reflect mutations despite remote failure, got %+v", entries)
	}
	if remote.addN != 2 || remote.updateN != 1 || remote.removeN != 1 {
		t.Fatalf("every mutation should still attempt remote, got add=%d update=%d remove=%d",
			remote.addN, remote.updateN, remote.removeN)
	}
}

func TestInitializeLoadsRemoteCart(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{items: []upstream.RemoteCartItem{
		{ProductID: "Book-1", Quantity: 3},
		{ProductID: "", Quantity: 1},
		{ProductID: "CD-1", Quantity: 0},
	}}
	s := NewSynchronizer("session-1", remote, testCatalog())

	if !s.Loading() {
		t.Fatalf("loading should be true before initialize")
	}
	s.Initialize(ctx)
	if s.Loading() {
		t.Fatalf("loading should be false after initialize")
	}

	entries := s.Entries()
	if len(entries) != 1 || entries[0].ProductID != "Book-1" || entries[0].Qty != 3 {
		t.Fatalf("invalid remote items should be dropped, got %+v", entries)
	}
}

func TestInitializeFailureKeepsEmptyCart(t *testing.T) {
	ctx := context.Background()
	s := NewSynchronizer("session-1", &fakeRemote{fail: true}, testCatalog())

	s.Initialize(ctx)
	if s.Loading() {
		t.Fatalf("loading should be false even when remote load fails")
	}
	if len(s.Entries()) != 0 {
		t.Fatalf("failed load should keep empty cart, got %+v", s.Entries())
	}

	// 加载失败不阻断后续使用
	s.AddItem(ctx, "Book-1", 1)
	if len(s.Entries()) != 1 {
		t.Fatalf("cart should stay usable after failed load")
	}
}

func TestAddItemUnknownProductIsNoop(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	s := NewSynchronizer("session-1", remote, testCatalog())
	s.Initialize(ctx)

	s.AddItem(ctx, "Book-999", 1)
	if len(s.Entries()) != 0 {
		t.Fatalf("unknown product should be a no-op, got %+v", s.Entries())
	}
	if remote.addN != 0 {
		t.Fatalf("unknown product should not hit remote, got %d calls", remote.addN)
	}
}

func TestAddItemWithoutStockClamp(t *testing.T) {
	ctx := context.Background()
	s := NewSynchronizer("session-1", &fakeRemote{}, testCatalog())
	s.Initialize(ctx)

	// 加入时不按库存钳制，钳制只发生在 UpdateQty
	s.AddItem(ctx, "CD-1", 9)
	entries := s.Entries()
	if len(entries) != 1 || entries[0].Qty != 9 {
		t.Fatalf("add should not clamp to stock, got %+v", entries)
	}

	s.UpdateQty(ctx, "CD-1", 9)
	entries = s.Entries()
	if entries[0].Qty != 5 {
		t.Fatalf("update should clamp to stock 5, got %d", entries[0].Qty)
	}
}

func TestUpdateQtyUnresolvedProductAppliesLocally(t *testing.T) {
	ctx := context.Background()
	cat := testCatalog()
	remote := &fakeRemote{}
	s := NewSynchronizer("session-1", remote, cat)
	s.Initialize(ctx)

	s.AddItem(ctx, "Book-1", 2)

	// 商品从目录消失后更新数量：本地更新仍然生效，
	// 请求数量即其自身上限；无价格可携带，不调用远端
	delete(cat.products, "Book-1")
	s.UpdateQty(ctx, "Book-1", 3)

	entries := s.Entries()
	if len(entries) != 1 || entries[0].Qty != 3 {
		t.Fatalf("unresolved update should still apply locally, got %+v", entries)
	}
	if remote.updateN != 0 {
		t.Fatalf("unresolved update should skip remote, got %d calls", remote.updateN)
	}

	// 数量为 0 仍然等价于删除
	s.UpdateQty(ctx, "Book-1", 0)
	if len(s.Entries()) != 0 {
		t.Fatalf("qty 0 should remove the unresolved entry, got %+v", s.Entries())
	}
}

func TestViewExcludesUnresolvableEntries(t *testing.T) {
	ctx := context.Background()
	cat := testCatalog()
	s := NewSynchronizer("session-1", &fakeRemote{}, cat)
	s.Initialize(ctx)

	s.AddItem(ctx, "Book-1", 2)
	s.AddItem(ctx, "CD-1", 1)

	// 商品从目录消失：条目保留，但派生视图排除该行
	delete(cat.products, "CD-1")
	s.mu.Lock()
	s.view = nil
	s.mu.Unlock()

	lines := s.Lines(ctx)
	if len(lines) != 1 || lines[0].ProductID != "Book-1" {
		t.Fatalf("unresolvable line should be excluded from view, got %+v", lines)
	}
	if len(s.Entries()) != 2 {
		t.Fatalf("unresolvable entry should stay in storage, got %+v", s.Entries())
	}
	if got := s.Subtotal(ctx).String(); got != "27.98" {
		t.Fatalf("subtotal should only count resolvable lines, got %s", got)
	}
}

func TestClearDropsLocalEntries(t *testing.T) {
	ctx := context.Background()
	s := NewSynchronizer("session-1", &fakeRemote{}, testCatalog())
	s.Initialize(ctx)

	s.AddItem(ctx, "Book-1", 2)
	s.Clear()

	if len(s.Entries()) != 0 {
		t.Fatalf("clear should drop all entries, got %+v", s.Entries())
	}
	if got := s.TotalItems(ctx); got != 0 {
		t.Fatalf("total items want 0 got %d", got)
	}
}

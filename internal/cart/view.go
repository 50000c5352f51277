package cart

import (
	"context"

	"github.com/mediastore-next/internal/models"

	"github.com/shopspring/decimal"
)

// derivedView 购物车派生视图（行、小计、总件数）。
// 仅由当前条目与目录计算，无副作用；变更时失效，按需重算。
type derivedView struct {
	lines      []models.CartLine
	subtotal   models.Money
	totalItems int
}

// Lines 购物车行：条目与已解析商品的连接。
// 无法解析的条目从视图中排除，但不会从存储中删除。
func (s *Synchronizer) Lines(ctx context.Context) []models.CartLine {
	view := s.currentView(ctx)
	lines := make([]models.CartLine, len(view.lines))
	copy(lines, view.lines)
	return lines
}

// Subtotal 所有可解析行的 price × qty 之和
func (s *Synchronizer) Subtotal(ctx context.Context) models.Money {
	return s.currentView(ctx).subtotal
}

// TotalItems 所有可解析行的数量之和
func (s *Synchronizer) TotalItems(ctx context.Context) int {
	return s.currentView(ctx).totalItems
}

// currentView 返回缓存的派生视图，失效时在锁内重算，
// 与变更共用同一把锁以保证读到的视图与条目一致。
func (s *Synchronizer) currentView(ctx context.Context) *derivedView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == nil {
		s.view = s.computeView(ctx, s.entries)
	}
	return s.view
}

func (s *Synchronizer) computeView(ctx context.Context, entries []models.CartEntry) *derivedView {
	view := &derivedView{lines: make([]models.CartLine, 0, len(entries))}
	subtotal := decimal.Zero
	for _, entry := range entries {
		product, ok := s.catalog.Resolve(ctx, entry.ProductID)
		if !ok {
			continue
		}
		line := models.CartLine{CartEntry: entry, Product: product}
		view.lines = append(view.lines, line)
		subtotal = subtotal.Add(line.LineTotal().Decimal)
		view.totalItems += entry.Qty
	}
	view.subtotal = models.NewMoneyFromDecimal(subtotal)
	return view
}

package models

// CartEntry 购物车条目，按 ProductID 唯一
type CartEntry struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// CartLine 购物车行（条目与已解析商品的连接，仅用于派生计算）
type CartLine struct {
	CartEntry
	Product *Product `json:"product"`
}

// LineTotal 行小计
func (l CartLine) LineTotal() Money {
	if l.Product == nil {
		return Money{}
	}
	return NewMoneyFromDecimal(l.Product.Price.Mul(intToDecimal(l.Qty)))
}

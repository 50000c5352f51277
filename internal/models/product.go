package models

// Category 商品类目
type Category string

// 店铺支持的四个类目
const (
	CategoryBook      Category = "Book"
	CategoryCD        Category = "CD"
	CategoryNewspaper Category = "Newspaper"
	CategoryDVD       Category = "DVD"
)

// Valid 判断类目是否合法
func (c Category) Valid() bool {
	switch c {
	case CategoryBook, CategoryCD, CategoryNewspaper, CategoryDVD:
		return true
	}
	return false
}

// Product 商品（目录视角，购物车侧只读）
type Product struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	Category  Category               `json:"category"`
	Genre     string                 `json:"genre"`
	Price     Money                  `json:"price"`
	Stock     int                    `json:"stock"`
	Image     string                 `json:"image"`
	ShortDesc string                 `json:"shortDesc"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// ProductInput 商品创建/更新输入（管理端）
type ProductInput struct {
	ID        string                 `json:"id,omitempty"`
	Title     string                 `json:"title" binding:"required"`
	Category  Category               `json:"category" binding:"required"`
	Genre     string                 `json:"genre"`
	Price     Money                  `json:"price"`
	Stock     int                    `json:"stock"`
	Image     string                 `json:"image"`
	ShortDesc string                 `json:"shortDesc"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Paginated 分页结果
type Paginated[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Total int64 `json:"total"`
}

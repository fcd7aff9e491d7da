package pkg

import "math"

// PageLimit 每页帖子数
const PageLimit = 10

// MaxPage 再大的页码会让 offset 溢出
const MaxPage = math.MaxInt / PageLimit

type Pagination struct {
	Page int `form:"page" json:"page"`
}

func (p Pagination) Limit() int {
	return PageLimit
}

// Valid 页码超过 MaxPage 视为非法参数
func (p Pagination) Valid() bool {
	return p.Page <= MaxPage
}

// Offset 负数页码按第 0 页处理，超大页码截断到 MaxPage
func (p Pagination) Offset() int {
	return min(max(p.Page, 0), MaxPage) * p.Limit()
}

package reference

// 引用实体：图书关联的查找型记录
// 设计说明：
// 1. 独立于Book创建（由运营侧维护），创建图书时按ID引用
// 2. 只有标识+显示名，无其它业务行为
// 3. ID使用数值自增（与Book/User的UUID不同，引用实体量小且稳定）

// Author 作者
type Author struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullName"`
}

// Language 语言
type Language struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Category 分类
type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Publisher 出版社
type Publisher struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Genre 体裁
type Genre struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Set 一次图书创建所需的全部引用实体（已解析）
// 不变式：Authors非空，其余四项各恰好一个
type Set struct {
	Language  Language
	Category  Category
	Publisher Publisher
	Genre     Genre
	Authors   []Author
}

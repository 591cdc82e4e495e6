package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/knyharnia/bookstore/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true, // 把MySQL 1062等错误翻译为gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&LanguageModel{},
		&CategoryModel{},
		&PublisherModel{},
		&GenreModel{},
		&AuthorModel{},
		&BookModel{},
		&FavoriteModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
// 4. ID是应用层生成的UUID字符串（不用自增主键）
type UserModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Username  string    `gorm:"size:50;not null;comment:用户名"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Role      string    `gorm:"size:20;not null;default:user;comment:角色"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// 引用实体模型：语言/分类/出版社/体裁/作者
// 这些表由运营侧维护，图书创建时只做ID引用

type LanguageModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:50;not null;comment:语言名称"`
}

func (LanguageModel) TableName() string { return "languages" }

type CategoryModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:50;not null;comment:分类名称"`
}

func (CategoryModel) TableName() string { return "categories" }

type PublisherModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:100;not null;comment:出版社名称"`
}

func (PublisherModel) TableName() string { return "publishers" }

type GenreModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:50;not null;comment:体裁名称"`
}

func (GenreModel) TableName() string { return "genres" }

type AuthorModel struct {
	ID       uint   `gorm:"primaryKey"`
	FullName string `gorm:"size:100;not null;comment:作者全名"`
}

func (AuthorModel) TableName() string { return "authors" }

// BookModel GORM图书模型
// 设计说明：
// 1. 价格使用int64存储"分"为单位（避免浮点数精度问题）
// 2. Title有唯一索引，并发创建同名图书时由数据库兜底
// 3. 作者是多对多关联（book_authors连接表）
// 4. 三个首页视图各有对应的排序索引
type BookModel struct {
	ID              string `gorm:"primaryKey;size:36"`
	Title           string `gorm:"uniqueIndex;size:200;not null;comment:书名"`
	PagesQuantity   int    `gorm:"not null;comment:页数"`
	Summary         string `gorm:"type:text;comment:简介"`
	CoverImageLink  string `gorm:"size:500;not null;comment:封面图片URL"`
	OriginalPrice   int64  `gorm:"not null;comment:原价(分)"`
	DiscountedPrice int64  `gorm:"not null;comment:折后价(分)"`
	ISBN            string `gorm:"size:20;comment:ISBN号"`
	AvailableBooks  int    `gorm:"default:0;comment:库存数量"`
	PublicationYear int    `gorm:"comment:出版年份"`
	FavoritesCount  int    `gorm:"index:idx_bestsellers,priority:2;default:0;comment:收藏数"`
	SalesCount      int    `gorm:"index:idx_bestsellers,priority:1;default:0;comment:销量"`

	LanguageID  uint           `gorm:"not null;comment:语言ID"`
	Language    LanguageModel  `gorm:"foreignKey:LanguageID"`
	CategoryID  uint           `gorm:"not null;comment:分类ID"`
	Category    CategoryModel  `gorm:"foreignKey:CategoryID"`
	PublisherID uint           `gorm:"not null;comment:出版社ID"`
	Publisher   PublisherModel `gorm:"foreignKey:PublisherID"`
	GenreID     uint           `gorm:"not null;comment:体裁ID"`
	Genre       GenreModel     `gorm:"foreignKey:GenreID"`

	Authors []AuthorModel `gorm:"many2many:book_authors"`

	UserID string    `gorm:"size:36;index;not null;comment:创建者用户ID"`
	User   UserModel `gorm:"foreignKey:UserID"`

	CreatedAt time.Time `gorm:"index:idx_newest;comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// FavoriteModel 收藏关系模型
// (user_id, book_id)有复合唯一索引，重复收藏由数据库兜底
type FavoriteModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"uniqueIndex:idx_user_book;size:36;not null;comment:用户ID"`
	BookID    string    `gorm:"uniqueIndex:idx_user_book;index;size:36;not null;comment:图书ID"`
	CreatedAt time.Time `gorm:"comment:收藏时间"`
}

// TableName 指定表名
func (FavoriteModel) TableName() string {
	return "book_favorites"
}

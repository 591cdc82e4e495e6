package event

import (
	"context"
	"log"
	"time"

	"github.com/knyharnia/bookstore/internal/domain/book"
	"github.com/knyharnia/bookstore/internal/infrastructure/config"
	"github.com/knyharnia/bookstore/pkg/mq"
)

// 路由键
const (
	RoutingKeyBookCreated = "book.created"
)

// BookCreatedEvent 图书创建事件
// 推荐系统、搜索索引等下游消费，payload只带标识和列表字段
type BookCreatedEvent struct {
	BookID    string    `json:"bookId"`
	Title     string    `json:"title"`
	UserID    string    `json:"userId"`
	Category  string    `json:"category"`
	Genre     string    `json:"genre"`
	CreatedAt time.Time `json:"createdAt"`
}

// Publisher 领域事件发布者
// 事件发布是尽力而为的：失败只记录日志，不影响主流程结果
type Publisher struct {
	mq *mq.Publisher // nil表示禁用（未配置MQ）
}

// NewPublisher 创建事件发布者
// cfg.MQ.URL为空时返回禁用的发布者（本地开发不依赖RabbitMQ）
func NewPublisher(cfg *config.Config) (*Publisher, error) {
	if cfg.MQ.URL == "" {
		log.Println("MQ未配置，事件发布已禁用")
		return &Publisher{}, nil
	}

	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		return nil, err
	}
	return &Publisher{mq: pub}, nil
}

// PublishBookCreated 发布图书创建事件
func (p *Publisher) PublishBookCreated(ctx context.Context, b *book.Book) {
	if p.mq == nil {
		return
	}

	evt := BookCreatedEvent{
		BookID:    b.ID,
		Title:     b.Title,
		UserID:    "",
		Category:  b.Category.Name,
		Genre:     b.Genre.Name,
		CreatedAt: b.CreatedAt,
	}
	if b.User != nil {
		evt.UserID = b.User.ID
	}

	if err := p.mq.Publish(ctx, RoutingKeyBookCreated, evt); err != nil {
		log.Printf("发布book.created事件失败: %v", err)
	}
}

// Close 关闭发布者
func (p *Publisher) Close() error {
	if p.mq != nil {
		return p.mq.Close()
	}
	return nil
}

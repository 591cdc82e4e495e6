// Package saga 实现带补偿的多步骤执行框架
//
// 核心思想：
// 1. 将跨系统的长操作拆分为多个步骤
// 2. 每个步骤可以有对应的补偿操作
// 3. 某步失败时，按逆序执行已完成步骤的补偿
//
// 本服务中用于图书创建流程：
// 上传封面（补偿=删除S3对象）→ 写库（数据库事务自身保证原子性，无需补偿）
// 写库失败时补偿流程会清理已上传的封面，保证无部分创建可见。
package saga

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Step 表示一个步骤
// Action是正向操作，Compensate是补偿操作（可以为nil，如最后一步）
// 两者都应支持幂等（补偿可能在异常路径下重复触发）
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga 一次多步骤执行
type Saga struct {
	steps    []Step
	executed []Step        // 已执行的步骤（用于补偿）
	timeout  time.Duration // 整体超时
}

// NewSaga 创建Saga
//
// 示例：
//
//	sg := saga.NewSaga(30 * time.Second)
//	sg.AddStep("upload-cover", uploadCover, deleteCover)
//	sg.AddStep("persist-book", persistBook, nil)
//	err := sg.Execute(ctx)
func NewSaga(timeout time.Duration) *Saga {
	return &Saga{
		steps:   make([]Step, 0),
		timeout: timeout,
	}
}

// AddStep 添加步骤（按添加顺序执行，按逆序补偿）
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 按顺序执行所有步骤
// 某步失败时逆序补偿已完成的步骤，并返回该步骤的错误（%w包装，
// 调用方可用errors.As提取业务错误）
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for _, step := range s.steps {
		select {
		case <-ctx.Done():
			// 补偿使用独立Context，避免补偿也被同一超时取消
			s.compensate(context.Background())
			return fmt.Errorf("saga timed out before step %s: %w", step.Name, ctx.Err())
		default:
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate(context.Background())
				return fmt.Errorf("saga step %s failed: %w", step.Name, err)
			}
		}

		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 逆序执行已完成步骤的补偿
// 单个补偿失败只记录日志，继续执行其余补偿（尽最大努力清理）
func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]

		if step.Compensate != nil {
			if err := step.Compensate(ctx); err != nil {
				log.Printf("saga compensation failed for step %s: %v", step.Name, err)
			}
		}
	}

	s.executed = nil
}

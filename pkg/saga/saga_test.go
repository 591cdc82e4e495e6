package saga

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSaga_Execute_Success 所有步骤成功，不触发补偿
func TestSaga_Execute_Success(t *testing.T) {
	var executed []string

	sg := NewSaga(5 * time.Second)
	sg.AddStep("upload-cover",
		func(ctx context.Context) error {
			executed = append(executed, "upload-cover")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "delete-cover")
			return nil
		},
	)
	sg.AddStep("persist-book",
		func(ctx context.Context) error {
			executed = append(executed, "persist-book")
			return nil
		},
		nil,
	)

	err := sg.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"upload-cover", "persist-book"}, executed)
}

// TestSaga_Execute_FailureCompensates 后续步骤失败，逆序补偿已完成步骤
func TestSaga_Execute_FailureCompensates(t *testing.T) {
	var executed []string
	persistErr := errors.New("duplicate key")

	sg := NewSaga(5 * time.Second)
	sg.AddStep("upload-cover",
		func(ctx context.Context) error {
			executed = append(executed, "upload-cover")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "delete-cover")
			return nil
		},
	)
	sg.AddStep("persist-book",
		func(ctx context.Context) error {
			executed = append(executed, "persist-book")
			return persistErr
		},
		nil,
	)

	err := sg.Execute(context.Background())
	require.Error(t, err)
	// 原始错误通过%w保留，调用方可继续判断错误类型
	assert.ErrorIs(t, err, persistErr)
	assert.Equal(t, []string{"upload-cover", "persist-book", "delete-cover"}, executed)
}

// TestSaga_Execute_FirstStepFailure 第一步失败时没有可补偿的步骤
func TestSaga_Execute_FirstStepFailure(t *testing.T) {
	var compensated bool

	sg := NewSaga(5 * time.Second)
	sg.AddStep("upload-cover",
		func(ctx context.Context) error { return errors.New("gateway down") },
		func(ctx context.Context) error {
			compensated = true
			return nil
		},
	)

	err := sg.Execute(context.Background())
	require.Error(t, err)
	assert.False(t, compensated, "失败步骤自身不应被补偿")
}

// TestSaga_Execute_CompensationErrorDoesNotMask 补偿失败不影响返回原始错误
func TestSaga_Execute_CompensationErrorDoesNotMask(t *testing.T) {
	actionErr := errors.New("persist failed")

	sg := NewSaga(5 * time.Second)
	sg.AddStep("upload-cover",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return errors.New("delete failed too") },
	)
	sg.AddStep("persist-book",
		func(ctx context.Context) error { return actionErr },
		nil,
	)

	err := sg.Execute(context.Background())
	assert.ErrorIs(t, err, actionErr)
}

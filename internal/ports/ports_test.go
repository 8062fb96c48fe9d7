package ports

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name  string
	err   error
	calls atomic.Int32
}

func (s *stubChecker) Name() string { return s.name }

func (s *stubChecker) Check(context.Context) error {
	s.calls.Add(1)
	return s.err
}

type optionalChecker struct {
	stubChecker
}

func (*optionalChecker) Optional() bool { return true }

type slowChecker struct {
	name string
}

func (c *slowChecker) Name() string { return c.name }

func (c *slowChecker) Check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func TestRegister_DuplicateName(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&stubChecker{name: "storage"}))

	err := registry.Register(&stubChecker{name: "storage"})

	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "storage")
	assert.Len(t, registry.checkers, 1)
}

func TestCheckAll_NoCheckers(t *testing.T) {
	result := NewHealthRegistry().CheckAll(context.Background())

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.NotNil(t, result.Checks)
	assert.Empty(t, result.Checks)
	assert.False(t, result.Timestamp.IsZero())
}

func TestCheckAll_Aggregates(t *testing.T) {
	tests := []struct {
		name     string
		checkers []*stubChecker
		expected HealthStatus
	}{
		{
			name: "all healthy",
			checkers: []*stubChecker{
				{name: "storage"},
				{name: "remote:placeholder"},
			},
			expected: HealthStatusHealthy,
		},
		{
			name: "one failing source marks the whole result unhealthy",
			checkers: []*stubChecker{
				{name: "storage"},
				{name: "remote:placeholder", err: errors.New("connection refused")},
				{name: "remote:mirror"},
			},
			expected: HealthStatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewHealthRegistry()
			for _, c := range tt.checkers {
				require.NoError(t, registry.Register(c))
			}

			result := registry.CheckAll(context.Background())

			assert.Equal(t, tt.expected, result.Status)
			require.Len(t, result.Checks, len(tt.checkers))

			for _, c := range tt.checkers {
				assert.Equal(t, int32(1), c.calls.Load(), "every checker runs once")

				got := result.Checks[c.name]
				require.NotNil(t, got)

				if c.err != nil {
					assert.Equal(t, HealthStatusUnhealthy, got.Status)
					assert.Equal(t, c.err.Error(), got.Message)
				} else {
					assert.Equal(t, HealthStatusHealthy, got.Status)
					assert.Empty(t, got.Message)
				}
			}
		})
	}
}

func TestCheckAll_OptionalFailuresDegrade(t *testing.T) {
	tests := []struct {
		name     string
		storage  error
		source   error
		expected HealthStatus
	}{
		{name: "source down", source: errors.New("timeout"), expected: HealthStatusDegraded},
		{name: "storage down", storage: errors.New("disk full"), expected: HealthStatusUnhealthy},
		{
			name:     "both down",
			storage:  errors.New("disk full"),
			source:   errors.New("timeout"),
			expected: HealthStatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewHealthRegistry()
			require.NoError(t, registry.Register(&stubChecker{name: "storage", err: tt.storage}))
			require.NoError(t, registry.Register(&optionalChecker{stubChecker{name: "remote:posts", err: tt.source}}))

			result := registry.CheckAll(context.Background())

			assert.Equal(t, tt.expected, result.Status)
			assert.True(t, result.Checks["remote:posts"].Optional)
			assert.False(t, result.Checks["storage"].Optional)
		})
	}
}

func TestCheckAll_ContextCancelled(t *testing.T) {
	registry := NewHealthRegistry()
	require.NoError(t, registry.Register(&slowChecker{name: "slow-source"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := registry.CheckAll(ctx)

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["slow-source"].Message, "context canceled")
}

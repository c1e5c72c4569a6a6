package discount

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	rule          *Rule
	err           error
	incrementErr  error
	incrementCode string
	increments    int
}

func (m *mockRepo) FindByCode(_ context.Context, _ string) (*Rule, error) {
	return m.rule, m.err
}

func (m *mockRepo) IncrementUses(_ context.Context, code string) error {
	m.incrementCode = code
	m.increments++
	return m.incrementErr
}

func TestRepoResolver_Resolve(t *testing.T) {
	fixedNow := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	pastTime := fixedNow.Add(-24 * time.Hour)
	futureTime := fixedNow.Add(24 * time.Hour)

	tests := []struct {
		name       string
		repo       *mockRepo
		code       string
		subtotal   int64
		itemCount  int
		wantAmount int64
		wantErr    error
	}{
		{
			name: "percentage rule resolves against subtotal",
			repo: &mockRepo{
				rule: &Rule{Code: "SAVE10", Type: TypePercentage, Value: decimal.NewFromInt(10)},
			},
			code:       "SAVE10",
			subtotal:   100,
			itemCount:  1,
			wantAmount: 10,
		},
		{
			name: "fixed rule capped at subtotal",
			repo: &mockRepo{
				rule: &Rule{Code: "TAKE50", Type: TypeFixed, Value: decimal.NewFromInt(50)},
			},
			code:       "TAKE50",
			subtotal:   30,
			itemCount:  1,
			wantAmount: 30,
		},
		{
			name:      "unknown code returns ErrInvalidCode",
			repo:      &mockRepo{err: ErrInvalidCode},
			code:      "BOGUS",
			subtotal:  50,
			itemCount: 1,
			wantErr:   ErrInvalidCode,
		},
		{
			name: "cart below MinItems returns ErrInvalidCode",
			repo: &mockRepo{
				rule: &Rule{Code: "MIN3", Type: TypeFixed, Value: decimal.NewFromInt(5), MinItems: 3},
			},
			code:      "MIN3",
			subtotal:  20,
			itemCount: 1,
			wantErr:   ErrInvalidCode,
		},
		{
			name: "expired rule returns ErrExpired",
			repo: &mockRepo{
				rule: &Rule{Code: "OLD", Type: TypePercentage, Value: decimal.NewFromInt(10), ValidUntil: &pastTime},
			},
			code:      "OLD",
			subtotal:  100,
			itemCount: 1,
			wantErr:   ErrExpired,
		},
		{
			name: "rule not yet valid returns ErrExpired",
			repo: &mockRepo{
				rule: &Rule{Code: "SOON", Type: TypePercentage, Value: decimal.NewFromInt(10), ValidFrom: &futureTime},
			},
			code:      "SOON",
			subtotal:  100,
			itemCount: 1,
			wantErr:   ErrExpired,
		},
		{
			name: "rule inside validity window resolves",
			repo: &mockRepo{
				rule: &Rule{
					Code: "WINDOW", Type: TypePercentage, Value: decimal.NewFromInt(20),
					ValidFrom: &pastTime, ValidUntil: &futureTime,
				},
			},
			code:       "WINDOW",
			subtotal:   50,
			itemCount:  2,
			wantAmount: 10,
		},
		{
			name: "usage limit reached returns ErrUsageLimit",
			repo: &mockRepo{
				rule: &Rule{Code: "USED", Type: TypePercentage, Value: decimal.NewFromInt(10), MaxUses: 5, Uses: 5},
			},
			code:      "USED",
			subtotal:  100,
			itemCount: 1,
			wantErr:   ErrUsageLimit,
		},
		{
			name: "repository failure wraps",
			repo: &mockRepo{err: errors.New("connection refused")},
			code: "ANY",
			// wantErr nil: checked separately below via generic error.
			subtotal:  10,
			itemCount: 1,
			wantErr:   errors.New("lookup discount rule"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewRepoResolver(tt.repo)
			resolver.now = func() time.Time { return fixedNow }

			got, err := resolver.Resolve(context.Background(),
				tt.code, decimal.NewFromInt(tt.subtotal), tt.itemCount)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrInvalidCode) ||
					errors.Is(tt.wantErr, ErrExpired) ||
					errors.Is(tt.wantErr, ErrUsageLimit) {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, decimal.NewFromInt(tt.wantAmount).Equal(got.Amount),
				"want %d, got %s", tt.wantAmount, got.Amount)
			assert.Zero(t, tt.repo.increments, "resolution must not spend the usage budget")
		})
	}
}

func TestRepoResolver_ResolveIsReadOnly(t *testing.T) {
	repo := &mockRepo{
		rule: &Rule{Code: "ONCE", Type: TypeFixed, Value: decimal.NewFromInt(5), MaxUses: 1},
	}
	resolver := NewRepoResolver(repo)

	first, err := resolver.Resolve(context.Background(), "ONCE", decimal.NewFromInt(100), 1)
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), "ONCE", decimal.NewFromInt(100), 1)
	require.NoError(t, err)

	assert.True(t, first.Amount.Equal(second.Amount), "re-quoting must not change the result")
	assert.Zero(t, repo.increments)
}

func TestRepoResolver_Consume(t *testing.T) {
	repo := &mockRepo{
		rule: &Rule{Code: "ONCE", Type: TypeFixed, Value: decimal.NewFromInt(5), MaxUses: 1},
	}
	resolver := NewRepoResolver(repo)

	require.NoError(t, resolver.Consume(context.Background(), "ONCE"))
	assert.Equal(t, "ONCE", repo.incrementCode)
	assert.Equal(t, 1, repo.increments)
}

func TestRepoResolver_ConsumeFailure(t *testing.T) {
	repo := &mockRepo{incrementErr: errors.New("write failed")}
	resolver := NewRepoResolver(repo)

	err := resolver.Consume(context.Background(), "OK")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "increment discount uses")
}

func TestApply(t *testing.T) {
	t.Run("negative percentage clamps to zero", func(t *testing.T) {
		rule := &Rule{Type: TypePercentage, Value: decimal.NewFromInt(-10)}
		got, err := Apply(rule, decimal.NewFromInt(100), 1)
		require.NoError(t, err)
		assert.True(t, got.Amount.IsZero())
	})

	t.Run("unsupported type errors", func(t *testing.T) {
		rule := &Rule{Type: Type("bogus"), Value: decimal.NewFromInt(10)}
		_, err := Apply(rule, decimal.NewFromInt(100), 1)
		assert.Error(t, err)
	})

	t.Run("percentage rounds to cents", func(t *testing.T) {
		rule := &Rule{Type: TypePercentage, Value: decimal.NewFromInt(15)}
		got, err := Apply(rule, decimal.RequireFromString("33.33"), 1)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("5").Equal(got.Amount),
			"want 5, got %s", got.Amount)
	})
}

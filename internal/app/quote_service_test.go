package app

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-sync/internal/adapters/storage"
	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

func newTestService(t *testing.T, stored string, draws ...int) *QuoteService {
	t.Helper()

	slots := storage.NewMemorySlots()
	if stored != "" {
		require.NoError(t, slots.Write(context.Background(), ports.SlotQuotes, []byte(stored)))
	}

	lib := newTestLibrary(t, slots, draws...)

	return NewQuoteService(QuoteServiceConfig{
		Library:    lib,
		Reconciler: newTestReconciler(t, lib),
		Logger:     discardLogger(),
	})
}

func TestNewQuoteService_RequiresDependencies(t *testing.T) {
	lib := newTestLibrary(t, storage.NewMemorySlots())

	assert.Panics(t, func() { NewQuoteService(QuoteServiceConfig{Reconciler: newTestReconciler(t, lib)}) })
	assert.Panics(t, func() { NewQuoteService(QuoteServiceConfig{Library: lib}) })
}

func TestNewQuoteService_DefaultsLogger(t *testing.T) {
	lib := newTestLibrary(t, storage.NewMemorySlots())

	svc := NewQuoteService(QuoteServiceConfig{Library: lib, Reconciler: newTestReconciler(t, lib)})

	require.NotNil(t, svc)
}

func TestQuoteService_RandomQuote(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		category string
		want     domain.Selection
		errCheck func(error) bool
	}{
		{
			name:   "picks from all",
			stored: `[{"text":"a","category":"x"},{"text":"b","category":"y"}]`,
			want:   domain.Selection{Quote: domain.Quote{Text: "b", Category: "y"}, Position: 1},
		},
		{
			name:     "honors category override",
			stored:   `[{"text":"a","category":"x"},{"text":"b","category":"y"}]`,
			category: "x",
			want:     domain.Selection{Quote: domain.Quote{Text: "a", Category: "x"}, Position: 0},
		},
		{
			name:     "empty store",
			stored:   `[]`,
			errCheck: domain.IsNoneAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.stored, 1)

			got, err := svc.RandomQuote(context.Background(), tt.category)

			if tt.errCheck != nil {
				require.Error(t, err)
				assert.True(t, tt.errCheck(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteService_CurrentQuote(t *testing.T) {
	svc := newTestService(t, "", 0)
	ctx := context.Background()

	_, err := svc.CurrentQuote(ctx)
	require.True(t, domain.IsNotFound(err))

	picked, err := svc.RandomQuote(ctx, "")
	require.NoError(t, err)

	current, err := svc.CurrentQuote(ctx)
	require.NoError(t, err)
	assert.Equal(t, picked, current)
}

func TestQuoteService_AddQuote_LogsWithRequestContext(t *testing.T) {
	svc := newTestService(t, "")

	var buf bytes.Buffer
	ctx := logging.WithContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	ctx = logging.WithRequestID(ctx, "req-42")

	q, err := svc.AddQuote(ctx, "Carpe diem", "Latin")
	require.NoError(t, err)
	assert.Equal(t, "Carpe diem", q.Text)

	assert.Contains(t, buf.String(), "quote added")
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)

	_, err = svc.AddQuote(ctx, "", "Latin")
	require.True(t, domain.IsValidation(err))
	assert.Contains(t, buf.String(), "rejected quote")
}

func TestQuoteService_Categories(t *testing.T) {
	svc := newTestService(t, "")
	ctx := context.Background()

	effective, err := svc.SelectCategory(ctx, "Humor")
	require.NoError(t, err)
	assert.Equal(t, "Humor", effective)

	labels, filter := svc.Categories(ctx)
	assert.Equal(t, []string{"Motivation", "Life", "Humor"}, labels)
	assert.Equal(t, "Humor", filter)

	effective, err = svc.SelectCategory(ctx, "Poetry")
	require.NoError(t, err)
	assert.Equal(t, domain.FilterAll, effective)
}

func TestQuoteService_ExportImport(t *testing.T) {
	svc := newTestService(t, "")
	ctx := context.Background()

	data, err := svc.Export(ctx)
	require.NoError(t, err)

	n, err := svc.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, svc.ListQuotes(ctx), 6)

	_, err = svc.Import(ctx, []byte(`{}`))
	require.True(t, domain.IsDecode(err))
	assert.Len(t, svc.ListQuotes(ctx), 6)
}

func TestQuoteService_Sync(t *testing.T) {
	svc := newTestService(t, "")

	result := svc.Sync(context.Background())

	assert.Equal(t, OutcomeNoChange, result.Outcome)
}

package codec

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

func TestEncode_GoldenSeedExport(t *testing.T) {
	out, err := Encode(domain.SeedQuotes())
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "seed_export", out)
}

func TestEncode_Empty(t *testing.T) {
	for _, in := range [][]domain.Quote{nil, {}} {
		out, err := Encode(in)

		require.NoError(t, err)
		assert.Equal(t, "[]", string(out))
	}
}

func TestEncode_FieldOrder(t *testing.T) {
	out, err := Encode([]domain.Quote{{Text: "A", Category: "B"}})

	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"text\": \"A\",\n    \"category\": \"B\"\n  }\n]", string(out))
}

func TestDecode_RoundTripPreservesOrder(t *testing.T) {
	quotes := []domain.Quote{
		{Text: "z", Category: "Last"},
		{Text: "a", Category: "First"},
		{Text: "a", Category: "First"},
	}

	out, err := Encode(quotes)
	require.NoError(t, err)

	got, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, quotes, got)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantIndex int
		wantMsg   string
	}{
		{
			name:      "not JSON",
			payload:   `{not json`,
			wantIndex: -1,
			wantMsg:   "not valid JSON",
		},
		{
			name:      "object instead of array",
			payload:   `{"text":"A","category":"B"}`,
			wantIndex: -1,
			wantMsg:   "not an array",
		},
		{
			name:      "empty body",
			payload:   ``,
			wantIndex: -1,
			wantMsg:   "not valid JSON",
		},
		{
			name:      "truncated array",
			payload:   `[{"text":"A","category":"B"}`,
			wantIndex: -1,
		},
		{
			name:      "element missing category",
			payload:   `[{"text":"A","category":"B"},{"text":"C"}]`,
			wantIndex: 1,
			wantMsg:   `missing "category"`,
		},
		{
			name:      "element missing text",
			payload:   `[{"category":"B"}]`,
			wantIndex: 0,
			wantMsg:   `missing "text"`,
		},
		{
			name:      "element with empty text",
			payload:   `[{"text":"A","category":"B"},{"text":"","category":""}]`,
			wantIndex: 1,
			wantMsg:   "validation failed for text",
		},
		{
			name:      "element with empty category",
			payload:   `[{"text":"A","category":""}]`,
			wantIndex: 0,
			wantMsg:   "validation failed for category",
		},
		{
			name:      "element of wrong type",
			payload:   `[{"text":"A","category":"B"}, 42]`,
			wantIndex: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.payload))

			require.ErrorIs(t, err, domain.ErrDecode)
			assert.Nil(t, got)

			var decodeErr *domain.DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, tt.wantIndex, decodeErr.Index)
			assert.Equal(t, "import", decodeErr.Source)

			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestDecode_EmptyElementKeepsValidationCause(t *testing.T) {
	_, err := Decode([]byte(`[{"text":"","category":"B"}]`))

	require.ErrorIs(t, err, domain.ErrDecode)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestDecode_EmptyArray(t *testing.T) {
	got, err := Decode([]byte(" [ ] "))

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeSnapshot_LabelsSource(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`"quotes"`))

	var decodeErr *domain.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "snapshot", decodeErr.Source)
}

package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimestamp(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "RFC3339 with UTC offset",
			input:    "2024-01-01T00:00:00Z",
			expected: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "RFC3339 with non-UTC offset is normalized",
			input:    "2024-01-01T07:00:00+07:00",
			expected: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "spreadsheet datetime without offset",
			input:    "2024-03-15 08:30:00",
			expected: time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC),
		},
		{
			name:     "T-separated datetime without offset",
			input:    "2024-03-15T08:30:00",
			expected: time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC),
		},
		{
			name:     "date only",
			input:    "2024-03-15",
			expected: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "surrounding whitespace is trimmed",
			input:    "  2024-03-15 08:30:00  ",
			expected: time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC),
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "not-a-date",
			wantErr: true,
		},
		{
			name:    "unix millis are not accepted",
			input:   "1704067200000",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Timestamp(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, tc.expected.Equal(got), "expected %v, got %v", tc.expected, got)
		})
	}
}

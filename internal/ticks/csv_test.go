package ticks

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestReadTicks(t *testing.T) {
	input := "timestamp,price\n" +
		"2024-03-01T10:00:00Z,100.25\n" +
		"2024-03-01T10:00:01Z,100.50\n" +
		"2024-03-01T10:00:01Z,100.50\n" +
		"2024-03-01T10:00:03.250Z,100.25\n"

	ticks, err := ReadTicks(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadTicks() error = %v", err)
	}

	if len(ticks) != 4 {
		t.Fatalf("got %d ticks, want 4", len(ticks))
	}
	if ticks[0].Price != 100.25 {
		t.Errorf("first price = %v, want 100.25", ticks[0].Price)
	}
	want := time.Date(2024, 3, 1, 10, 0, 3, 250000000, time.UTC)
	if !ticks[3].Timestamp.Equal(want) {
		t.Errorf("last timestamp = %v, want %v", ticks[3].Timestamp, want)
	}
}

func TestReadTicksEpochMillis(t *testing.T) {
	input := "1709287200000,100.0\n1709287200250,100.5\n"

	ticks, err := ReadTicks(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadTicks() error = %v", err)
	}
	if len(ticks) != 2 {
		t.Fatalf("got %d ticks, want 2", len(ticks))
	}
	if gap := ticks[1].Timestamp.Sub(ticks[0].Timestamp); gap != 250*time.Millisecond {
		t.Errorf("gap = %v, want 250ms", gap)
	}
}

func TestReadTicksErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		errText string
	}{
		{
			name:    "Empty input",
			input:   "",
			wantErr: ErrNoTicks,
		},
		{
			name:    "Header only",
			input:   "timestamp,price\n",
			wantErr: ErrNoTicks,
		},
		{
			name:    "Single tick",
			input:   "2024-03-01T10:00:00Z,100\n",
			wantErr: ErrNotEnoughTicks,
		},
		{
			name:    "Malformed price",
			input:   "2024-03-01T10:00:00Z,100\n2024-03-01T10:00:01Z,abc\n",
			errText: "parsing price",
		},
		{
			name:    "Negative price",
			input:   "2024-03-01T10:00:00Z,100\n2024-03-01T10:00:01Z,-5\n",
			errText: "must be positive",
		},
		{
			name:    "Out of order timestamps",
			input:   "2024-03-01T10:00:05Z,100\n2024-03-01T10:00:01Z,101\n",
			errText: "out of order",
		},
		{
			name:    "Missing price column",
			input:   "2024-03-01T10:00:00Z\n",
			errText: "expected timestamp,price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTicks(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.errText != "" && !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("error %q does not mention %q", err, tt.errText)
			}
		})
	}
}

package ticks

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Decomposer/models"
)

var (
	// ErrNoTicks is returned when the input contains no tick rows at all
	ErrNoTicks = errors.New("tick series is empty")
	// ErrNotEnoughTicks is returned when fewer than two ticks are present,
	// so no price change can be formed
	ErrNotEnoughTicks = errors.New("tick series needs at least two ticks")
)

// LoadCSV reads a (timestamp, price) tick file into memory. A header row is
// skipped when the first field does not parse as a timestamp. Rows must be
// ordered by timestamp.
func LoadCSV(path string) ([]models.Tick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening tick file: %w", err)
	}
	defer f.Close()

	ticks, err := ReadTicks(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug().Str("path", path).Int("ticks", len(ticks)).Msg("Loaded tick file")
	return ticks, nil
}

// ReadTicks parses CSV tick rows from r. Exported separately so tests and
// the HTTP source can share the validation rules.
func ReadTicks(r io.Reader) ([]models.Tick, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	var ticks []models.Tick
	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row+1, err)
		}
		row++

		if len(record) < 2 {
			return nil, fmt.Errorf("row %d: expected timestamp,price got %d fields", row, len(record))
		}

		ts, err := parseTimestamp(record[0])
		if err != nil {
			// Tolerate a single header row
			if row == 1 {
				continue
			}
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing price %q: %w", row, record[1], err)
		}
		if price <= 0 {
			return nil, fmt.Errorf("row %d: price must be positive, got %v", row, price)
		}

		if n := len(ticks); n > 0 && ts.Before(ticks[n-1].Timestamp) {
			return nil, fmt.Errorf("row %d: timestamp %s out of order", row, ts.Format(time.RFC3339Nano))
		}

		ticks = append(ticks, models.Tick{Timestamp: ts, Price: price})
	}

	if len(ticks) == 0 {
		return nil, ErrNoTicks
	}
	if len(ticks) < 2 {
		return nil, ErrNotEnoughTicks
	}

	return ticks, nil
}

// parseTimestamp accepts RFC3339, a plain datetime, or a unix epoch in
// seconds or milliseconds.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse("2006-01-02 15:04:05.999999999", s); err == nil {
		return ts.UTC(), nil
	}
	if epoch, err := strconv.ParseInt(s, 10, 64); err == nil {
		// Millisecond epochs are 13 digits for any plausible trading date
		if epoch > 1e12 {
			return time.UnixMilli(epoch).UTC(), nil
		}
		return time.Unix(epoch, 0).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("parsing timestamp %q", s)
}

package kpi

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pravado/citemind/internal/analytics"
)

// CSVSource reads series from <dir>/<metric>.csv.
//
// Each row is timestamp,value[,key=value...] with an RFC3339 timestamp. A first row
// whose first column is "timestamp" is treated as a header. Extra key=value columns
// become point metadata.
type CSVSource struct {
	dir string
}

// NewCSVSource creates a CSVSource rooted at dir
func NewCSVSource(dir string) (*CSVSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path is not a directory: %s", dir)
	}
	return &CSVSource{dir: dir}, nil
}

// Series reads and parses the metric's CSV file
func (s *CSVSource) Series(ctx context.Context, metric string) (analytics.TimeSeriesData, error) {
	if metric == "" || filepath.Base(metric) != metric || strings.HasPrefix(metric, ".") {
		return nil, NewServiceErrorWithDetails(CodeUnknownMetric, "invalid metric name: "+metric,
			map[string]interface{}{"metric": metric})
	}

	path := filepath.Join(s.dir, metric+".csv")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewServiceErrorWithDetails(CodeUnknownMetric, "no series file for metric "+metric,
				map[string]interface{}{"metric": metric, "path": path})
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return parseCSV(ctx, f)
}

func parseCSV(ctx context.Context, r io.Reader) (analytics.TimeSeriesData, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var data analytics.TimeSeriesData
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		line++

		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "timestamp") {
			continue
		}
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		point, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		data = append(data, point)
	}

	return data, nil
}

func parseRow(record []string) (analytics.TimeSeriesPoint, error) {
	if len(record) < 2 {
		return analytics.TimeSeriesPoint{}, fmt.Errorf("expected timestamp,value, got %d columns", len(record))
	}

	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(record[0]))
	if err != nil {
		return analytics.TimeSeriesPoint{}, fmt.Errorf("invalid timestamp %q: %w", record[0], err)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	if err != nil {
		return analytics.TimeSeriesPoint{}, fmt.Errorf("invalid value %q: %w", record[1], err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return analytics.TimeSeriesPoint{}, fmt.Errorf("non-finite value %q", record[1])
	}

	point := analytics.TimeSeriesPoint{Time: ts, Value: value}
	for _, field := range record[2:] {
		key, val, ok := strings.Cut(field, "=")
		if !ok || key == "" {
			continue
		}
		if point.Metadata == nil {
			point.Metadata = make(map[string]interface{})
		}
		point.Metadata[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}

	return point, nil
}

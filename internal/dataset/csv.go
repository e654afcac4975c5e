package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"exec-dashboard/internal/models"
)

// LoadCSV reads a comma-delimited dataset with a header row.
func LoadCSV(ctx context.Context, path string) ([]models.Sale, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, loadErr(path, 0, "open file", err)
	}
	defer file.Close()

	return ReadCSV(ctx, file, path)
}

// ReadCSV parses CSV content from r; name is used in error messages only.
func ReadCSV(ctx context.Context, r io.Reader, name string) ([]models.Sale, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, loadErr(name, 0, "empty file", nil)
	}
	if err != nil {
		return nil, loadErr(name, 1, "read header", err)
	}

	cols, err := indexHeader(name, header)
	if err != nil {
		return nil, err
	}

	var (
		records [][]string
		lines   []int
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, loadErr(name, parseErr.Line, "malformed csv", err)
			}
			return nil, loadErr(name, 0, "read csv", err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}

	return parseRecords(ctx, name, cols, records, lines)
}

// ReadCSVString parses an in-memory CSV document.
func ReadCSVString(content string) ([]models.Sale, error) {
	return ReadCSV(context.Background(), strings.NewReader(content), "inline")
}

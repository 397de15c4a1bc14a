package frame

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/bivarmap/internal/fetcher"
)

// LoadCSV reads a CSV file into a frame. The first row is the header;
// row order is preserved.
func LoadCSV(ctx context.Context, path string, opts fetcher.CSVOptions) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "frame: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	header, rows, err := fetcher.ReadCSV(ctx, f, opts)
	if err != nil {
		return nil, eris.Wrapf(err, "frame: load %s", path)
	}
	return FromRecords(header, rows)
}

// LoadXLSX reads an XLSX sheet into a frame. The first row is the header.
func LoadXLSX(path string, opts fetcher.XLSXOptions) (*Frame, error) {
	rows, err := fetcher.ReadXLSX(path, opts)
	if err != nil {
		return nil, eris.Wrapf(err, "frame: load %s", path)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("frame: %s has no rows", path)
	}
	return FromRecords(rows[0], rows[1:])
}

// LoadTable dispatches on file extension: .xlsx via the XLSX reader,
// everything else via CSV.
func LoadTable(ctx context.Context, path string, csvOpts fetcher.CSVOptions) (*Frame, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadXLSX(path, fetcher.XLSXOptions{})
	}
	return LoadCSV(ctx, path, csvOpts)
}

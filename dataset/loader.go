package dataset

import (
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/YuminosukeSato/carprice/pkg/errors"
	"github.com/YuminosukeSato/carprice/pkg/log"
)

// Load reads the advertisement table from a CSV file. Every column is
// loaded as a string; numeric meaning is applied later by Reduce. A
// missing file, a malformed table or an empty table is an error and the
// caller treats it as fatal.
func Load(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(err, "dataset.Load: opening %s", path)
	}
	defer func() { _ = f.Close() }()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(df.Err, "dataset.Load: parsing %s", path)
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, errors.Wrap(errors.ErrEmptyData, "dataset.Load")
	}

	log.GetLoggerWithName("dataset").Info("table loaded",
		"path", path,
		"rows", df.Nrow(),
		"columns", df.Ncol(),
	)
	return df, nil
}

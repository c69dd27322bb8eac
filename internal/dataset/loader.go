package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"epipulse/internal/errors"
	"epipulse/internal/infrastructure"
	"epipulse/pkg/contracts/domain"
)

// dateLayout is the calendar date format used by the source file.
const dateLayout = "2006-01-02"

// requiredColumns are the source columns the loader projects. Any other
// column in the file is ignored; a missing required column fails the load.
var requiredColumns = []string{
	"iso_code",
	"continent",
	"location",
	"date",
	"total_cases",
	"new_cases",
	"total_deaths",
	"new_deaths",
	"icu_patients",
	"hosp_patients",
	"weekly_icu_admissions",
	"population",
	"people_vaccinated",
	"people_fully_vaccinated",
}

// Loader reads the OWID CSV file into a domain.Dataset.
type Loader struct {
	logger  *slog.Logger
	metrics *infrastructure.Metrics
}

// NewLoader creates a loader. A nil logger falls back to slog.Default();
// metrics may be nil when instrumentation is not wired.
func NewLoader(logger *slog.Logger, metrics *infrastructure.Metrics) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:  logger.With(slog.String("component", "loader")),
		metrics: metrics,
	}
}

// Load reads the dataset file at path and returns the raw Dataset.
//
// The file must be comma-delimited UTF-8 with a header row naming all
// required columns. Row dates must parse as 2006-01-02; a malformed date
// fails the whole load. Count cells that are blank or not numeric load as
// nil. A file that parses but yields zero rows fails with an empty-dataset
// error.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Dataset, error) {
	l.logger.InfoContext(ctx, "loading raw dataset", slog.String("path", path))

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewFileAccessError(path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewEmptyDatasetError(path)
	}
	if err != nil {
		return nil, errors.NewParseError("failed to read header row", err).
			WithContext("path", path)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	dataset := &domain.Dataset{}
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParseError(fmt.Sprintf("malformed row %d", rowNum+1), err).
				WithContext("path", path)
		}
		rowNum++

		obs, err := parseObservation(row, columns)
		if err != nil {
			return nil, errors.NewParseError(fmt.Sprintf("row %d", rowNum), err).
				WithContext("path", path)
		}
		dataset.Observations = append(dataset.Observations, obs)
	}

	if dataset.IsEmpty() {
		return nil, errors.NewEmptyDatasetError(path)
	}

	if l.metrics != nil {
		l.metrics.AddRowsLoaded(dataset.Len())
	}
	l.logger.InfoContext(ctx, "raw dataset loaded",
		slog.String("path", path),
		slog.Int("rows", dataset.Len()))

	return dataset, nil
}

// mapColumns maps each required column name to its index in the header row.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, errors.NewParseError(fmt.Sprintf("required column %q missing from header", name), nil).
				WithContext("column", name)
		}
	}

	return columns, nil
}

// parseObservation projects one CSV row onto an Observation.
func parseObservation(row []string, columns map[string]int) (domain.Observation, error) {
	cell := func(name string) string {
		idx := columns[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	rawDate := cell("date")
	date, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("malformed date %q: %w", rawDate, err)
	}

	return domain.Observation{
		ISOCode:               cell("iso_code"),
		Continent:             cell("continent"),
		Location:              cell("location"),
		Date:                  date,
		TotalCases:            parseCount(cell("total_cases")),
		NewCases:              parseCount(cell("new_cases")),
		TotalDeaths:           parseCount(cell("total_deaths")),
		NewDeaths:             parseCount(cell("new_deaths")),
		ICUPatients:           parseCount(cell("icu_patients")),
		HospPatients:          parseCount(cell("hosp_patients")),
		WeeklyICUAdmissions:   parseCount(cell("weekly_icu_admissions")),
		Population:            parseCount(cell("population")),
		PeopleVaccinated:      parseCount(cell("people_vaccinated")),
		PeopleFullyVaccinated: parseCount(cell("people_fully_vaccinated")),
	}, nil
}

// parseCount converts a count cell to a value pointer. Blank and non-numeric
// cells both mean "no value" and come back nil.
func parseCount(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"

	"oda-forecast/internal/model"
	"oda-forecast/pkg/utils"
)

// FormatError reports input that matches neither recognized table shape.
// It is the pipeline's only fatal error class: without resolvable
// country/year/value columns there is nothing to salvage.
type FormatError struct {
	Source string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unable to parse %s: %s (expected a World Bank wide CSV or a long CSV with country/year/value columns)", e.Source, e.Reason)
}

// metadataRows is the number of preamble rows before the header in a
// World Bank wide-format export.
const metadataRows = 4

// minYearColumns is the number of integer-parsing headers required to
// accept the wide shape.
const minYearColumns = 10

// valueKeywords identify the value column of a long-format table.
var valueKeywords = []string{"oda", "value", "amount", "official"}

// LoadCSV reads a CSV from a local path or http(s) URL and normalizes it
// into long-form records. The wide (one column per year) shape is tried
// first; a generic long shape is the fallback. Rows with a missing or
// non-numeric value are dropped, never zero-filled.
func LoadCSV(pathOrURL string) ([]model.RawRecord, error) {
	rows, err := readCSV(pathOrURL)
	if err != nil {
		return nil, err
	}

	if records, ok := parseWide(rows); ok {
		fmt.Printf("📄 Loader: wide format, %d records from %s\n", len(records), pathOrURL)
		return records, nil
	}

	records, err := parseLong(rows, pathOrURL)
	if err != nil {
		return nil, err
	}
	fmt.Printf("📄 Loader: long format, %d records from %s\n", len(records), pathOrURL)
	return records, nil
}

func readCSV(pathOrURL string) ([][]string, error) {
	var reader io.Reader
	if strings.HasPrefix(pathOrURL, "http") {
		resp, err := http.Get(pathOrURL)
		if err != nil {
			return nil, fmt.Errorf("failed to GET CSV: %w", err)
		}
		defer resp.Body.Close()
		reader = resp.Body
	} else {
		file, err := os.Open(pathOrURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer file.Close()
		reader = file
	}

	csvReader := csv.NewReader(reader)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseWide attempts the World Bank shape: metadata preamble, then a
// header with one column per year, melted into long form.
func parseWide(rows [][]string) ([]model.RawRecord, bool) {
	if len(rows) <= metadataRows {
		return nil, false
	}
	header := cleanHeader(rows[metadataRows])

	yearCols := make(map[int]int) // column index -> year
	intHeaders := 0
	for i, h := range header {
		if _, err := strconv.Atoi(strings.TrimSpace(h)); err == nil {
			intHeaders++
		}
		if y, ok := utils.ParseYear(h); ok {
			yearCols[i] = y
		}
	}
	if intHeaders < minYearColumns {
		return nil, false
	}

	countryCol := findColumn(header, "country name")
	if countryCol < 0 {
		countryCol = findColumn(header, "country")
	}
	if countryCol < 0 {
		return nil, false
	}
	isoCol := findColumn(header, "country code")

	cols := make([]int, 0, len(yearCols))
	for col := range yearCols {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	var records []model.RawRecord
	for _, row := range rows[metadataRows+1:] {
		if countryCol >= len(row) {
			continue
		}
		country := strings.TrimSpace(row[countryCol])
		if country == "" {
			continue
		}
		iso := ""
		if isoCol >= 0 && isoCol < len(row) {
			iso = strings.TrimSpace(row[isoCol])
		}
		for _, col := range cols {
			year := yearCols[col]
			if col >= len(row) {
				continue
			}
			value, ok := utils.ParseFloat(row[col])
			if !ok {
				continue // missing observation, dropped
			}
			records = append(records, model.RawRecord{
				Country: country,
				ISO3:    iso,
				Year:    year,
				Value:   value,
			})
		}
	}
	return records, true
}

// parseLong reads a generic long table with country/year/value columns
// detected by header keywords.
func parseLong(rows [][]string, source string) ([]model.RawRecord, error) {
	if len(rows) < 2 {
		return nil, &FormatError{Source: source, Reason: "too few rows"}
	}
	header := cleanHeader(rows[0])

	countryCol := findColumn(header, "country")
	yearCol := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), "year") {
			yearCol = i
			break
		}
	}
	valueCol := -1
	for i, h := range header {
		lower := strings.ToLower(h)
		for _, kw := range valueKeywords {
			if strings.Contains(lower, kw) {
				valueCol = i
				break
			}
		}
		if valueCol >= 0 {
			break
		}
	}

	if countryCol < 0 || yearCol < 0 || valueCol < 0 {
		return nil, &FormatError{Source: source, Reason: "no country/year/value columns resolvable"}
	}

	var records []model.RawRecord
	skippedYears := 0
	for _, row := range rows[1:] {
		if countryCol >= len(row) || yearCol >= len(row) || valueCol >= len(row) {
			continue
		}
		country := strings.TrimSpace(row[countryCol])
		if country == "" {
			continue
		}
		year, ok := utils.ParseYear(row[yearCol])
		if !ok {
			skippedYears++
			continue
		}
		value, ok := utils.ParseFloat(row[valueCol])
		if !ok {
			continue // missing observation, dropped
		}
		records = append(records, model.RawRecord{Country: country, Year: year, Value: value})
	}
	if skippedYears > 0 {
		fmt.Printf("📄 Loader: skipped %d rows with unparseable years in %s\n", skippedYears, source)
	}
	return records, nil
}

// findColumn returns the index of the first header containing the needle
// (case-insensitive), or -1.
func findColumn(header []string, needle string) int {
	for i, h := range header {
		if strings.Contains(strings.ToLower(h), needle) {
			return i
		}
	}
	return -1
}

func cleanHeader(row []string) []string {
	out := make([]string, len(row))
	for i, h := range row {
		h = strings.TrimSpace(h)
		h = strings.ReplaceAll(h, `"`, "")
		h = strings.TrimPrefix(h, "\uFEFF")
		out[i] = h
	}
	return out
}

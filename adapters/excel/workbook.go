package excel

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"abtest/domain/abtest"
	"abtest/internal/batch"
)

// DefaultSheet is the sheet read when none is given
const DefaultSheet = "Sheet1"

// ResultsSheet is the sheet written by WriteResults
const ResultsSheet = "Results"

// Input column headers, matched case-insensitively
const (
	ColName                 = "name"
	ColControlSize          = "control_size"
	ColControlConversions   = "control_conversions"
	ColVariationSize        = "variation_size"
	ColVariationConversions = "variation_conversions"
)

var requiredColumns = []string{ColControlSize, ColControlConversions, ColVariationSize, ColVariationConversions}

// ResultColumns is the header row of the results sheet
var ResultColumns = []string{
	"name", "control_rate", "variation_rate", "absolute_difference", "relative_difference",
	"z_score", "p_value", "chi_square_p", "chi2_contingency_p", "fishers_exact_p",
	"barnards_exact_p", "g_test_p", "cohens_h", "effect", "significant",
	"recommended_sample_size", "error",
}

// DataReader reads experiment rows from Excel or CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
}

// NewDataReader creates a reader; sheet is ignored for CSV input
func NewDataReader(filePath, sheet string) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &DataReader{filePath: filePath, fileType: fileType, sheet: sheet}
}

// ReadItems reads every experiment row. Malformed rows become items carrying Err.
func (r *DataReader) ReadItems() ([]batch.Item, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	return ParseRows(rows)
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.sheet, err)
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// ParseRows turns a header row plus data rows into batch items. Blank rows are skipped.
// Row numbers are 1-based spreadsheet rows.
func ParseRows(rows [][]string) ([]batch.Item, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row found")
	}

	index := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	items := make([]batch.Item, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rowNum := i + 2
		item := batch.Item{Row: rowNum, Name: fmt.Sprintf("row %d", rowNum)}
		if col, ok := index[ColName]; ok {
			if name := strings.TrimSpace(cell(row, col)); name != "" {
				item.Name = name
			}
		}

		counts := make([]int, len(requiredColumns))
		for j, col := range requiredColumns {
			v, err := parseCount(cell(row, index[col]))
			if err != nil {
				item.Err = fmt.Errorf("%s: %w", col, err)
				break
			}
			counts[j] = v
		}
		if item.Err == nil {
			item.Input = abtest.Input{
				ControlSize:          counts[0],
				ControlConversions:   counts[1],
				VariationSize:        counts[2],
				VariationConversions: counts[3],
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseCount accepts integers and numeric cells such as "1000.0", truncating toward zero
func parseCount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty value")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid count %q", raw)
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("count out of range %q", raw)
	}
	return int(f), nil
}

// WriteResults writes one row per result to the Results sheet of a new workbook
func WriteResults(path string, results []batch.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(DefaultSheet, ResultsSheet); err != nil {
		return fmt.Errorf("failed to create results sheet: %w", err)
	}

	header := make([]interface{}, len(ResultColumns))
	for i, col := range ResultColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(ResultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, res := range results {
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := resultRow(res)
		if err := f.SetSheetRow(ResultsSheet, ref, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func resultRow(res batch.Result) []interface{} {
	row := make([]interface{}, len(ResultColumns))
	row[0] = res.Item.Name
	if res.Err != nil || res.Report == nil {
		if res.Err != nil {
			row[len(row)-1] = res.Err.Error()
		}
		return row
	}

	r := res.Report
	tests := r.StatisticalTests
	row[1] = r.Control.ConversionRate
	row[2] = r.Variation.ConversionRate
	row[3] = r.Difference.Absolute
	row[4] = r.Difference.Relative
	row[5] = value(tests.ZTest.ZScore)
	row[6] = value(tests.ZTest.PValue)
	row[7] = value(tests.ChiSquare.PValue)
	row[8] = value(tests.Chi2Contingency.PValue)
	row[9] = value(tests.FishersExact.PValue)
	row[10] = value(tests.BarnardsExact.PValue)
	row[11] = value(tests.GTest.PValue)
	row[12] = r.EffectSize.CohensH
	row[13] = string(r.EffectSize.Interpretation)
	row[14] = r.Results.IsSignificant
	row[15] = r.Results.RecommendedSampleSize
	return row
}

// value leaves the cell empty for a procedure that could not be evaluated
func value(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

package analytics

import (
	"github.com/crisislab/revq/internal/domain/review"
)

// ConfusionMatrix counts (model, human) label pairs. Rows are model
// predictions, columns human verdicts, both in canonical label order and
// zero-filled. Only comparable records enter the matrix.
type ConfusionMatrix struct {
	labels review.LabelSet
	cells  [][]int
	total  int
}

// ComputeConfusion builds the matrix over records.
func ComputeConfusion(records []review.ReviewedRecord, labels review.LabelSet) ConfusionMatrix {
	cells := make([][]int, labels.Len())
	for i := range cells {
		cells[i] = make([]int, labels.Len())
	}

	m := ConfusionMatrix{labels: labels, cells: cells}
	for _, rec := range records {
		if !comparable(rec, labels) {
			continue
		}
		row := labels.Index(rec.ModelLabel)
		col := labels.Index(rec.HumanLabel)
		if row < 0 || col < 0 {
			continue
		}
		m.cells[row][col]++
		m.total++
	}
	return m
}

// Labels returns the axis labels in canonical order.
func (m ConfusionMatrix) Labels() []string {
	return m.labels.Labels()
}

// Cell returns the count of records the model labeled model and the
// human labeled human. Unknown labels count zero.
func (m ConfusionMatrix) Cell(model, human string) int {
	row := m.labels.Index(model)
	col := m.labels.Index(human)
	if row < 0 || col < 0 {
		return 0
	}
	return m.cells[row][col]
}

// Row returns the counts for one model label across all human labels.
func (m ConfusionMatrix) Row(model string) []int {
	row := m.labels.Index(model)
	if row < 0 {
		return make([]int, m.labels.Len())
	}
	return m.cells[row]
}

// RowTotal returns how many comparable records the model gave this label.
func (m ConfusionMatrix) RowTotal(model string) int {
	sum := 0
	for _, n := range m.Row(model) {
		sum += n
	}
	return sum
}

// ColTotal returns how many comparable records the human gave this label.
func (m ConfusionMatrix) ColTotal(human string) int {
	col := m.labels.Index(human)
	if col < 0 {
		return 0
	}
	sum := 0
	for _, row := range m.cells {
		sum += row[col]
	}
	return sum
}

// DiagonalSum returns the number of agreements in the matrix.
func (m ConfusionMatrix) DiagonalSum() int {
	sum := 0
	for i := range m.cells {
		sum += m.cells[i][i]
	}
	return sum
}

// Total returns the number of comparable records counted.
func (m ConfusionMatrix) Total() int {
	return m.total
}

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oda-forecast/internal/model"
)

func testSubregions() model.SubregionMap {
	return model.SubregionMap{
		{Name: "East Africa", Countries: []string{"Kenya", "Uganda", "Tanzania"}},
		{Name: "West Africa", Countries: []string{"Ghana", "Nigeria"}},
	}
}

func TestAssignSubregion(t *testing.T) {
	m := testSubregions()

	t.Run("exact match is case and whitespace insensitive", func(t *testing.T) {
		sub, ok := AssignSubregion("  kenya ", m)
		require.True(t, ok)
		assert.Equal(t, "East Africa", sub)
	})

	t.Run("punctuation stripped before matching", func(t *testing.T) {
		sub, ok := AssignSubregion("Congo, Dem. Rep.", model.DefaultSubregions())
		require.True(t, ok)
		assert.Equal(t, "Central Africa", sub)
	})

	t.Run("record name may be a prefix of the alias", func(t *testing.T) {
		// "congo" is a prefix of the normalized alias "congo dem rep"
		sub, ok := AssignSubregion("Congo", model.DefaultSubregions())
		require.True(t, ok)
		assert.Equal(t, "Central Africa", sub)
	})

	t.Run("alias may be a prefix of the record name", func(t *testing.T) {
		sub, ok := AssignSubregion("Tanzania, United Republic of", m)
		require.True(t, ok)
		assert.Equal(t, "East Africa", sub)
	})

	t.Run("first declared subregion wins", func(t *testing.T) {
		dup := model.SubregionMap{
			{Name: "A", Countries: []string{"Kenya"}},
			{Name: "B", Countries: []string{"Kenya"}},
		}
		sub, ok := AssignSubregion("Kenya", dup)
		require.True(t, ok)
		assert.Equal(t, "A", sub)
	})

	t.Run("unknown country matches nothing", func(t *testing.T) {
		_, ok := AssignSubregion("Atlantis", m)
		assert.False(t, ok)
	})

	t.Run("empty name matches nothing", func(t *testing.T) {
		_, ok := AssignSubregion("   ", m)
		assert.False(t, ok)
	})
}

func TestAggregate(t *testing.T) {
	m := testSubregions()
	records := []model.RawRecord{
		{Country: "Kenya", Year: 2018, Value: 100},
		{Country: "Uganda", Year: 2018, Value: 50},
		{Country: "Kenya", Year: 2019, Value: 180},
		{Country: "Atlantis", Year: 2018, Value: 999}, // no subregion, dropped
	}

	wide := Aggregate(records, m)

	t.Run("sums per subregion and year", func(t *testing.T) {
		east := wide.Column("East Africa")
		assert.Equal(t, []int{2018, 2019}, east.Years)
		assert.Equal(t, []float64{150, 180}, east.Values)
	})

	t.Run("unmatched values are excluded from the total", func(t *testing.T) {
		assert.InDelta(t, 330, wide.Total(), 1e-9)
	})

	t.Run("declared subregion without matches gets a zero column", func(t *testing.T) {
		west := wide.Column("West Africa")
		require.Equal(t, []int{2018, 2019}, west.Years)
		assert.Equal(t, []float64{0, 0}, west.Values)
	})

	t.Run("matched columns sort alphabetically, empty ones follow in declaration order", func(t *testing.T) {
		assert.Equal(t, []string{"East Africa", "West Africa"}, wide.Columns)

		m3 := model.SubregionMap{
			{Name: "Zeta", Countries: []string{"Kenya"}},
			{Name: "Alpha", Countries: []string{"Uganda"}},
			{Name: "Empty B", Countries: []string{"Nowhere"}},
			{Name: "Empty A", Countries: []string{"Elsewhere"}},
		}
		w3 := Aggregate(records[:2], m3)
		assert.Equal(t, []string{"Alpha", "Zeta", "Empty B", "Empty A"}, w3.Columns)
	})

	t.Run("years cover only matched records", func(t *testing.T) {
		only := []model.RawRecord{
			{Country: "Atlantis", Year: 1999, Value: 1},
			{Country: "Kenya", Year: 2020, Value: 5},
		}
		w := Aggregate(only, m)
		assert.Equal(t, []int{2020}, w.Years)
	})
}

func TestAggregateConservation(t *testing.T) {
	// Every matched record's value appears exactly once in the table.
	m := model.DefaultSubregions()
	records := []model.RawRecord{
		{Country: "Kenya", Year: 2015, Value: 12.5},
		{Country: "Ghana", Year: 2015, Value: 7.25},
		{Country: "Angola", Year: 2016, Value: 3},
		{Country: "Lesotho", Year: 2016, Value: 4.75},
		{Country: "Kenya", Year: 2016, Value: 8},
	}

	wide := Aggregate(records, m)

	sum := 0.0
	for _, rec := range records {
		sum += rec.Value
	}
	assert.InDelta(t, sum, wide.Total(), 1e-9)
	assert.Len(t, wide.Columns, len(m))
}

package engine

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/errors"
)

const vehiclesCSV = `price,model_year,model,condition,cylinders,fuel,odometer,transmission,type,paint_color,is_4wd,date_posted,days_listed
9400,2011,bmw x5,good,6,gas,145000,automatic,SUV,,1,2018-06-23,19
25500,,ford f-150,good,6,gas,88705,automatic,pickup,white,1,2018-10-19,50
5500,2013,hyundai sonata,like new,4,gas,110000,automatic,sedan,red,,2019-02-07,79
1500,2003,ford f-150,fair,8,gas,,automatic,pickup,,,2019-03-22,9
14900,2017,chrysler 200,excellent,4,gas,80903,automatic,sedan,black,,2019-04-02,28
50,2015,toyota camry,good,4,gas,600000,automatic,sedan,white,,2018-06-20,15
300000,2015,"ford, f-250",new,8,diesel,1000,automatic,truck,,1,2018-12-27,73
abc,2015,honda civic,,4,gas,62000,manual,sedan,blue,,2019-01-07,68
`

// writeCSV stores content in a temp file and returns its path.
func writeCSV(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "vehicles_*.csv")
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

func loadCSV(t *testing.T, content string) *ColumnStore {
	t.Helper()
	store, err := LoadColumnar(writeCSV(t, content))
	require.NoError(t, err)
	return store
}

func TestLoadColumnar(t *testing.T) {
	store := loadCSV(t, vehiclesCSV)

	require.Equal(t, 8, store.Rows)
	assert.Len(t, store.Headers, 13)

	// Numeric coercion
	assert.Equal(t, 9400.0, store.Numeric[ColPrice][0])
	assert.True(t, math.IsNaN(store.Numeric[ColPrice][7]), "unparseable price becomes missing")
	assert.True(t, math.IsNaN(store.Numeric[ColModelYear][1]), "empty year becomes missing")
	assert.True(t, math.IsNaN(store.Numeric[ColOdometer][3]))

	// Only the three known columns are numeric
	_, ok := store.Numeric["cylinders"]
	assert.False(t, ok)
	assert.True(t, store.HasColumn("cylinders"))

	// Dictionary checks
	assert.Equal(t, []string{"SUV", "pickup", "sedan", "truck"}, store.Categories(ColType))
	model, missing := store.Cell("model", 6)
	assert.False(t, missing)
	assert.Equal(t, "ford, f-250", model)
	assert.True(t, store.IsMissing(ColCondition, 7))

	lo, hi, ok := store.Bounds(ColModelYear)
	require.True(t, ok)
	assert.Equal(t, 2003.0, lo)
	assert.Equal(t, 2017.0, hi)
}

func TestLoadColumnarToleratesRaggedRowsAndBOM(t *testing.T) {
	store := loadCSV(t, "\xEF\xBB\xBFprice,type,type\n100,sedan,x\n200\n")

	require.Equal(t, 2, store.Rows)
	assert.Equal(t, []string{"price", "type", "type.1"}, store.Headers)
	assert.True(t, store.IsMissing(ColType, 1))
	assert.Equal(t, 200.0, store.Numeric[ColPrice][1])
}

func TestLoadColumnarTrimsTextValues(t *testing.T) {
	store := loadCSV(t, "type,price\n sedan ,100\nSUV,200\nsedan,300\n")

	assert.Equal(t, []string{"SUV", "sedan"}, store.Categories(ColType))
	v := Apply(store, Selection{Types: []string{"sedan"}})
	assert.Equal(t, []int{0, 2}, v.Rows)
}

func TestLoadColumnarMissingFile(t *testing.T) {
	_, err := LoadColumnar("/nonexistent/vehicles_us.csv")
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestLoadColumnarEmptyFile(t *testing.T) {
	_, err := LoadColumnar(writeCSV(t, ""))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestParseNumeric(t *testing.T) {
	assert.Equal(t, 123.45, parseNumeric("123.45"))
	assert.Equal(t, 2011.0, parseNumeric(" 2011.0 "))
	for _, raw := range []string{"", "NaN", "n/a", "abc", "1,000", "inf"} {
		assert.True(t, math.IsNaN(parseNumeric(raw)), "%q should be missing", raw)
	}
}

func TestSourceLoadsOnce(t *testing.T) {
	path := writeCSV(t, vehiclesCSV)
	src := NewSource(path)

	first, err := src.Store()
	require.NoError(t, err)

	// Later calls never touch the file again.
	require.NoError(t, os.Remove(path))
	second, err := src.Store()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestSourceMemoizesFailure(t *testing.T) {
	src := NewSource("/nonexistent/vehicles_us.csv")
	_, err := src.Store()
	require.Error(t, err)
	_, err2 := src.Store()
	assert.Equal(t, err, err2)
}

package importer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labelsOf(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Label
	}
	return out
}

func parentsOf(nodes []Node) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = n.Parent
	}
	return out
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name        string
		rows        [][]string
		checkLayout func(t *testing.T, layout *Layout)
	}{
		{
			name: "Single theme spans every category",
			rows: [][]string{
				{"Fruits"},
				{"Citrus"},
				{"Orange", "Lemon"},
				{"Bob", "x", ""},
				{"Alice", "", "x"},
			},
			checkLayout: func(t *testing.T, layout *Layout) {
				assert.Equal(t, []string{"Fruits"}, labelsOf(layout.Themes))
				assert.Equal(t, []string{"Citrus"}, labelsOf(layout.Subthemes))
				assert.Equal(t, []int{0}, parentsOf(layout.Subthemes))
				assert.Equal(t, []string{"Orange", "Lemon"}, labelsOf(layout.Categories))
				assert.Equal(t, []int{0, 0}, parentsOf(layout.Categories))
				require.Len(t, layout.Entries, 2)
				assert.Equal(t, Entry{Row: 4, Name: "Bob", Categories: []int{0}}, layout.Entries[0])
				assert.Equal(t, Entry{Row: 5, Name: "Alice", Categories: []int{1}}, layout.Entries[1])
			},
		},
		{
			name: "Equal length rows pair index for index",
			rows: [][]string{
				{"T1", "T2", "T3"},
				{"S1", "S2", "S3"},
				{"C1", "C2", "C3"},
				{"N", "x", "x", "x"},
			},
			checkLayout: func(t *testing.T, layout *Layout) {
				assert.Equal(t, []int{0, 1, 2}, parentsOf(layout.Subthemes))
				assert.Equal(t, []int{0, 1, 2}, parentsOf(layout.Categories))
				assert.Equal(t, []int{0, 1, 2}, layout.Entries[0].Categories)
			},
		},
		{
			name: "Blank parent cells extend the label to their left",
			rows: [][]string{
				{"Animals", "", "", "Plants"},
				{"Mammals", "", "Birds", "Trees"},
				{"Dog", "Cat", "Owl", "Oak"},
				{"Rex", "x"},
				{"Hedwig", "", "", "X"},
				{"Groot", "", "", "", " x "},
			},
			checkLayout: func(t *testing.T, layout *Layout) {
				assert.Equal(t, []string{"Animals", "Plants"}, labelsOf(layout.Themes))
				assert.Equal(t, []string{"Mammals", "Birds", "Trees"}, labelsOf(layout.Subthemes))
				assert.Equal(t, []int{0, 0, 1}, parentsOf(layout.Subthemes))
				assert.Equal(t, []int{0, 0, 1, 2}, parentsOf(layout.Categories))
				assert.Equal(t, []int{0}, layout.Entries[0].Categories)
				assert.Equal(t, []int{2}, layout.Entries[1].Categories)
				assert.Equal(t, []int{3}, layout.Entries[2].Categories)
			},
		},
		{
			name: "Labels are trimmed and blank rows skipped",
			rows: [][]string{
				{"  Fruits "},
				{"Citrus\t"},
				{" Orange"},
				{},
				{"", "note"},
				{" Bob ", "x", "ignored"},
			},
			checkLayout: func(t *testing.T, layout *Layout) {
				assert.Equal(t, "Fruits", layout.Themes[0].Label)
				assert.Equal(t, "Citrus", layout.Subthemes[0].Label)
				assert.Equal(t, "Orange", layout.Categories[0].Label)
				require.Len(t, layout.Entries, 1)
				assert.Equal(t, "Bob", layout.Entries[0].Name)
				assert.Equal(t, 6, layout.Entries[0].Row)
			},
		},
		{
			name: "Name without markers has no categories",
			rows: [][]string{
				{"Fruits"},
				{"Citrus"},
				{"Orange"},
				{"Solo"},
			},
			checkLayout: func(t *testing.T, layout *Layout) {
				require.Len(t, layout.Entries, 1)
				assert.Empty(t, layout.Entries[0].Categories)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			layout, err := Parse(tc.rows)
			require.NoError(t, err)
			tc.checkLayout(t, layout)
		})
	}
}

func TestParse_MalformedInput(t *testing.T) {
	testCases := []struct {
		name           string
		rows           [][]string
		expectedRow    int
		expectedColumn int
		expectedReason string
	}{
		{
			name:           "Empty sheet",
			rows:           nil,
			expectedReason: "expected theme, subtheme and category header rows, found 0 rows",
		},
		{
			name:           "Missing category row",
			rows:           [][]string{{"Fruits"}, {"Citrus"}},
			expectedReason: "expected theme, subtheme and category header rows, found 2 rows",
		},
		{
			name:           "Blank category row",
			rows:           [][]string{{"Fruits"}, {"Citrus"}, {}, {"Bob", "x"}},
			expectedRow:    3,
			expectedReason: "no category labels",
		},
		{
			name:           "Blank theme row",
			rows:           [][]string{{""}, {"Citrus"}, {"Orange"}, {"Bob", "x"}},
			expectedRow:    1,
			expectedReason: "no theme labels",
		},
		{
			name:           "No data rows",
			rows:           [][]string{{"Fruits"}, {"Citrus"}, {"Orange"}},
			expectedReason: "no data rows after the header rows",
		},
		{
			name:           "Only blank data rows",
			rows:           [][]string{{"Fruits"}, {"Citrus"}, {"Orange"}, {""}, {" "}},
			expectedReason: "no data rows after the header rows",
		},
		{
			name:           "Subtheme left of the first theme",
			rows:           [][]string{{"", "Fruits"}, {"Citrus", "Berries"}, {"Orange", "Straw"}, {"Bob", "x"}},
			expectedRow:    2,
			expectedColumn: 1,
			expectedReason: `subtheme "Citrus" has no theme`,
		},
		{
			name:           "Theme without subtheme",
			rows:           [][]string{{"Fruits", "Veg"}, {"Citrus"}, {"Orange", "Carrot"}, {"Bob", "x"}},
			expectedRow:    1,
			expectedColumn: 2,
			expectedReason: `theme "Veg" has no subtheme below it`,
		},
		{
			name:           "Subtheme without category",
			rows:           [][]string{{"Fruits"}, {"Citrus", "Berries"}, {"Orange"}, {"Bob", "x"}},
			expectedRow:    2,
			expectedColumn: 2,
			expectedReason: `subtheme "Berries" has no category below it`,
		},
		{
			name:           "Marker outside the category columns",
			rows:           [][]string{{"Fruits"}, {"Citrus"}, {"Orange"}, {"Bob", "x", "x"}},
			expectedRow:    4,
			expectedColumn: 3,
			expectedReason: "marker has no category above it",
		},
		{
			name:           "Marker under a blank category cell",
			rows:           [][]string{{"Fruits"}, {"Citrus"}, {"Orange", "", "Lemon"}, {"Bob", "", "x"}},
			expectedRow:    4,
			expectedColumn: 3,
			expectedReason: "marker has no category above it",
		},
		{
			name:           "Markers without a name",
			rows:           [][]string{{"Fruits"}, {"Citrus"}, {"Orange"}, {"", "x"}},
			expectedRow:    4,
			expectedColumn: 1,
			expectedReason: "row has category markers but no name",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			layout, err := Parse(tc.rows)
			assert.Nil(t, layout)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput))
			assert.False(t, errors.Is(err, ErrStorageFailure))

			var importErr *Error
			require.True(t, errors.As(err, &importErr))
			assert.Equal(t, tc.expectedRow, importErr.Row)
			assert.Equal(t, tc.expectedColumn, importErr.Column)
			assert.Equal(t, tc.expectedReason, importErr.Reason)
		})
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: ErrStorageFailure, Row: 7, Column: 2, Reason: `upsert "Bob"`, Err: errors.New("deadlock")}
	assert.Equal(t, `storage failure at row 7, column 2: upsert "Bob": deadlock`, err.Error())
	assert.True(t, errors.Is(err, ErrStorageFailure))

	assert.Equal(t, "malformed input: no theme labels", malformed(0, 3, "no theme labels").Error())
}

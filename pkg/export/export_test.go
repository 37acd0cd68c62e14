package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func weekTable() Table {
	return Table{
		Title:   "Timetable CSE-A",
		Columns: []string{"Day", "Start", "End", "Course", "Room"},
		Rows: [][]string{
			{"monday", "09:00:00", "10:00:00", "Data Structures", "B-101"},
			{"tuesday", "11:00:00", "12:00:00", "Operating Systems", "B-204"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("docx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRenderCSV(t *testing.T) {
	doc, err := Render(FormatCSV, "week", weekTable())
	require.NoError(t, err)
	assert.Equal(t, "week.csv", doc.Filename)
	assert.Equal(t, "text/csv", doc.ContentType)
	lines := strings.Split(strings.TrimSpace(string(doc.Data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Day,Start,End,Course,Room", lines[0])
}

func TestRenderPDF(t *testing.T) {
	doc, err := Render(FormatPDF, "week", weekTable())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc.Data), "%PDF"))
}

func TestRenderXLSX(t *testing.T) {
	doc, err := Render(FormatXLSX, "week", weekTable())
	require.NoError(t, err)

	f, err := excelize.OpenReader(strings.NewReader(string(doc.Data)))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck
	value, err := f.GetCellValue("Timetable CSE-A", "D3")
	require.NoError(t, err)
	assert.Equal(t, "Operating Systems", value)
}

func TestRenderRejectsRaggedRows(t *testing.T) {
	table := weekTable()
	table.Rows = append(table.Rows, []string{"friday"})
	_, err := Render(FormatCSV, "week", table)
	assert.Error(t, err)
}

func TestRenderICS(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	data := string(RenderICS("March 2024", []CalendarEvent{
		{UID: "ev-1", Summary: "Midterm", Start: start, End: start.Add(time.Hour), Location: "Hall A"},
		{UID: "ev-2", Summary: "Holiday", Start: start, End: start, AllDay: true},
	}, start))

	assert.Contains(t, data, "BEGIN:VCALENDAR")
	assert.Contains(t, data, "SUMMARY:Midterm")
	assert.Contains(t, data, "UID:ev-2")
	assert.Contains(t, data, "DTSTART;VALUE=DATE:20240304")
}

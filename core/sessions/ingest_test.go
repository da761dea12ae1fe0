package sessions

import (
	"testing"
	"time"

	"github.com/seamosgenios/panel/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)

const sampleCSV = "Nombre,Apellidos,Correo,Duración,Hora de unión,Hora de salida\r\n" +
	"SG - VALERIA,AUSECHA CAMPO,valeria@x.co,1 h 23 min,2:30 p.m.,3:53 p.m.\r\n" +
	"IETAC—ALEXANDRA,PÉREZ,alex@x.co,45 min,2:41 p.m.,3:26 p.m.\r\n" +
	"\r\n" +
	"SOLO,TRES,CAMPOS\r\n"

func TestParseFileName(t *testing.T) {
	tests := []struct {
		name         string
		fileName     string
		expectedName string
		expectedDate string
	}{
		{
			name:         "platform export",
			fileName:     "Asistencia de DINÁMICA II - CIENCIAS (2025_03_01 14_30 GMT-5).csv",
			expectedName: "DINÁMICA II - CIENCIAS",
			expectedDate: "2025-03-01",
		},
		{
			name:         "nested path",
			fileName:     "/tmp/exports/Asistencia de Inglés B1 (2025_02_20).csv",
			expectedName: "Inglés B1",
			expectedDate: "2025-02-20",
		},
		{
			name:         "no patterns",
			fileName:     "lista.csv",
			expectedName: "lista.csv",
			expectedDate: "2025-03-14",
		},
		{
			name:         "name without date",
			fileName:     "Asistencia de Sociales (tarde).csv",
			expectedName: "Sociales",
			expectedDate: "2025-03-14",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, date := ParseFileName(tt.fileName, fixedNow)
			assert.Equal(t, tt.expectedName, name)
			assert.Equal(t, tt.expectedDate, date)
		})
	}
}

func TestParseFile(t *testing.T) {
	session, err := ParseFile(sampleCSV, "Asistencia de Ciencias SG (2025_03_01).csv", fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "Ciencias SG", session.Name)
	assert.Equal(t, "2025-03-01", session.Date)
	assert.Equal(t, "2:30 p.m. - 3:53 p.m.", session.Time)
	assert.Zero(t, session.ID, "IDs are assigned by the store")

	require.Len(t, session.Rows, 2, "blank and short rows are dropped")
	assert.Equal(t, schema.AttendeeRow{
		FirstName:    "SG - VALERIA",
		LastName:     "AUSECHA CAMPO",
		Email:        "valeria@x.co",
		DurationText: "1 h 23 min",
		JoinText:     "2:30 p.m.",
		LeaveText:    "3:53 p.m.",
	}, session.Rows[0])
}

func TestParseFile_TimeFromFirstRowWithJoin(t *testing.T) {
	content := "h1,h2,h3,h4,h5,h6\n" +
		"ANA,RUIZ,a@x.co,10 min,,\n" +
		"LUIS,GOMEZ,l@x.co,20 min,8:05 a.m.,8:25 a.m.\n"
	session, err := ParseFile(content, "x.csv", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "8:05 a.m. - 8:25 a.m.", session.Time)
	assert.Len(t, session.Rows, 2)
}

func TestParseFile_ExtraFieldsKept(t *testing.T) {
	content := "header\nANA,RUIZ,a@x.co,10 min,8:00 a.m.,8:10 a.m.,extra,more\n"
	session, err := ParseFile(content, "x.csv", fixedNow)
	require.NoError(t, err)
	require.Len(t, session.Rows, 1)
	assert.Equal(t, "8:10 a.m.", session.Rows[0].LeaveText)
}

func TestParseFile_QuotedCommaSplits(t *testing.T) {
	// Quoted commas are not supported; the row shifts but is still kept.
	content := "header\n\"RUIZ, ANA\",X,a@x.co,10 min,8:00 a.m.,8:10 a.m.\n"
	session, err := ParseFile(content, "x.csv", fixedNow)
	require.NoError(t, err)
	require.Len(t, session.Rows, 1)
	assert.Equal(t, "\"RUIZ", session.Rows[0].FirstName)
}

func TestParseFile_Empty(t *testing.T) {
	for _, content := range []string{"", "header only\n", "\n\n\n"} {
		_, err := ParseFile(content, "x.csv", fixedNow)
		assert.ErrorIs(t, err, ErrEmptyFile, "%q", content)
	}
}

func TestParseFile_HeaderAndShortRowsOnly(t *testing.T) {
	session, err := ParseFile("header\na,b,c\n", "x.csv", fixedNow)
	require.NoError(t, err)
	assert.Empty(t, session.Rows)
	assert.Empty(t, session.Time)
}

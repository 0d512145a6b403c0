package ficha

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kendall-kelly/modamedidas-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPDF(t *testing.T) {
	tests := []struct {
		name    string
		measure *models.Measure
	}{
		{"empty record", &models.Measure{}},
		{"single value", &models.Measure{Upper: models.UpperMeasures{Bust: cm(88)}, SuggestedSize: "M"}},
		{"full record with notes", func() *models.Measure {
			m := fullMeasure()
			m.FitType = models.FitLoose
			m.FabricType = "Lino — crudo"
			m.TechnicalNotes = strings.Repeat("Dobladillo de 3 cm, forro completo. ", 30)
			return m
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &models.Client{Name: "Señora Núñez", Phone: "555-0101", Gender: models.GenderFemale}
			sheet := Build(client, tt.measure, Studio{Name: "Taller Ñandú", Phone: "555"}, sheetDate)

			var buf bytes.Buffer
			require.NoError(t, Render(&buf, sheet))

			out := buf.Bytes()
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output should be a PDF document")
			assert.True(t, bytes.Contains(out, []byte("%%EOF")))
		})
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	sheet := Build(&models.Client{Name: "Ana"}, fullMeasure(), Studio{}, sheetDate)

	var first, second bytes.Buffer
	require.NoError(t, Render(&first, sheet))
	require.NoError(t, Render(&second, sheet))

	assert.Equal(t, first.Bytes(), second.Bytes())
}

package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(isTTY bool, mode Mode) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, 80, mode), out, errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		isTTY bool
		mode  Mode
		want  Mode
	}{
		{"auto on terminal", true, ModeAuto, ModeText},
		{"auto when piped", false, ModeAuto, ModeJSON},
		{"empty mode is auto", false, "", ModeJSON},
		{"explicit text when piped", false, ModeText, ModeText},
		{"explicit json on terminal", true, ModeJSON, ModeJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestTable(t *testing.T) {
	r, out, _ := newTestRenderer(false, ModeText)

	r.Table([]string{"Name", "Country"}, [][]string{{"Aman", "Japan"}, {"Ritz", "UAE"}})

	s := out.String()
	assert.Contains(t, s, "NAME")
	assert.Contains(t, s, "Aman")
	assert.Contains(t, s, "Japan")
	assert.Contains(t, s, "| Ritz")
}

func TestCard(t *testing.T) {
	r, out, _ := newTestRenderer(false, ModeText)

	r.Card("Aman Tokyo", []Field{{"City", "Tokyo"}, {"Brand", ""}, {"Units", "40"}})

	s := out.String()
	assert.Contains(t, s, "Aman Tokyo\n")
	assert.Contains(t, s, "City:  Tokyo")
	assert.Contains(t, s, "Units: 40")
	assert.NotContains(t, s, "Brand")
}

func TestJSONAndMessages(t *testing.T) {
	r, out, errOut := newTestRenderer(false, ModeJSON)

	require.NoError(t, r.JSON(map[string]int{"total": 3}))
	assert.JSONEq(t, `{"total":3}`, out.String())

	r.Error("boom")
	assert.Contains(t, errOut.String(), "Error: boom")
}

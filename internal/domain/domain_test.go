package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus("Active"))
	assert.False(t, ValidStatus("active"))
	assert.False(t, ValidStatus("Won"))

	assert.True(t, ValidLeadStatus("Won"))
	assert.False(t, ValidLeadStatus("Draft"))
}

func TestValidScreen(t *testing.T) {
	for _, screen := range Screens {
		assert.True(t, ValidScreen(screen))
	}
	assert.False(t, ValidScreen("planets"))
}

func TestAffected(t *testing.T) {
	tests := []struct {
		screen string
		want   []string
	}{
		{ScreenUsers, []string{ScreenUsers}},
		{ScreenLeads, []string{ScreenLeads}},
		{ScreenBrands, []string{ScreenBrands, ScreenResidences}},
		{ScreenResidences, []string{ScreenResidences, ScreenBrands, ScreenLeads}},
		{ScreenAmenities, []string{ScreenAmenities, ScreenResidences}},
		{ScreenBrandTypes, []string{ScreenBrandTypes, ScreenBrands}},
	}
	for _, tt := range tests {
		t.Run(tt.screen, func(t *testing.T) {
			assert.Equal(t, tt.want, Affected(tt.screen))
		})
	}
}

func TestAffected_DoesNotShareBacking(t *testing.T) {
	a := Affected(ScreenBrands)
	a[1] = "changed"
	assert.Equal(t, []string{ScreenBrands, ScreenResidences}, Affected(ScreenBrands))
}

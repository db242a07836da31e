package entity

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFrenchRegulatoryID_Valid(t *testing.T) {
	id, err := NewFrenchRegulatoryID("123456789", "12345678900012", "SARL")

	require.NoError(t, err)
	assert.Equal(t, JurisdictionFR, id.Jurisdiction)
	assert.Equal(t, "123456789", id.Primary())
}

func TestNewFrenchRegulatoryID_SIRETAndLegalFormOptional(t *testing.T) {
	id, err := NewFrenchRegulatoryID("987654321", "", "")

	require.NoError(t, err)
	assert.Empty(t, id.SIRET)
	assert.Empty(t, id.LegalForm)
}

func TestNewFrenchRegulatoryID_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		siren     string
		siret     string
		legalForm string
		wantErr   error
	}{
		{name: "siren too short", siren: "12345678", wantErr: ErrInvalidSIREN},
		{name: "siren with letters", siren: "12345678a", wantErr: ErrInvalidSIREN},
		{name: "siret too long", siren: "123456789", siret: "123456789000123", wantErr: ErrInvalidSIRET},
		{name: "unknown legal form", siren: "123456789", legalForm: "GMBH", wantErr: ErrInvalidLegalForm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFrenchRegulatoryID(tt.siren, tt.siret, tt.legalForm)

			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestNewUSRegulatoryID(t *testing.T) {
	id, err := NewUSRegulatoryID("12-3456789")
	require.NoError(t, err)
	assert.Equal(t, "12-3456789", id.Primary())

	_, err = NewUSRegulatoryID("123456789")
	assert.True(t, errors.Is(err, ErrInvalidEIN))

	_, err = NewUSRegulatoryID("12-345678")
	assert.True(t, errors.Is(err, ErrInvalidEIN))
}

func TestNewGenericRegulatoryID(t *testing.T) {
	id, err := NewGenericRegulatoryID("HRB-123456")
	require.NoError(t, err)
	assert.Equal(t, JurisdictionOther, id.Jurisdiction)
	assert.Equal(t, "HRB-123456", id.Primary())

	_, err = NewGenericRegulatoryID("")
	assert.True(t, errors.Is(err, ErrEmptyIdentifier))
}

func TestRegulatoryID_PrimaryNilSafe(t *testing.T) {
	var id *RegulatoryID

	assert.Empty(t, id.Primary())
}

package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRawParticipants(t *testing.T) {
	tests := []struct {
		name    string
		list    []RawParticipant
		wantErr error
	}{
		{
			name:    "empty list",
			list:    nil,
			wantErr: ErrEmptyParticipantList,
		},
		{
			name:    "blank name",
			list:    []RawParticipant{{Name: "Ann"}, {Name: "  "}},
			wantErr: ErrMissingParticipantName,
		},
		{
			name: "valid",
			list: []RawParticipant{{Name: "Ann", Company: "Acme"}, {Name: "Bo"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRawParticipants(tt.list)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestValidateRawParticipants_ReportsIndex(t *testing.T) {
	err := ValidateRawParticipants([]RawParticipant{{Name: "Ann"}, {Name: ""}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")

	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, ErrCodeValidation, domainErr.Code)
}

func TestRawParticipant_HasInlineProfile(t *testing.T) {
	assert.False(t, RawParticipant{Name: "Ann"}.HasInlineProfile())
	assert.False(t, RawParticipant{Name: "Ann", ProfileData: json.RawMessage("null")}.HasInlineProfile())
	assert.True(t, RawParticipant{Name: "Ann", ProfileData: json.RawMessage(`{"skills":["go"]}`)}.HasInlineProfile())
}

func TestParticipant_WithScore(t *testing.T) {
	p := Participant{ID: "ann-1", Name: "Ann"}

	scored := p.WithScore(0.9, "founder")

	require.NotNil(t, scored.Score)
	assert.Equal(t, 0.9, *scored.Score)
	assert.Equal(t, "founder", scored.Reasoning)
	assert.Nil(t, p.Score)
}

func TestDomainError_Format(t *testing.T) {
	err := NewDomainErrorWithCause(ErrCodeNotFound, "profile not found", errors.New("no results"))

	assert.Equal(t, "[NOT_FOUND] profile not found: no results", err.Error())
	assert.True(t, errors.Is(err, ErrProfileNotFound))
	assert.False(t, errors.Is(err, ErrNoResolverConfigured))
}

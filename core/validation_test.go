package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile *Profile
		wantErr error
	}{
		{
			name:    "nil profile",
			profile: nil,
			wantErr: ErrInvalidProfile,
		},
		{
			name:    "empty email",
			profile: &Profile{FirstName: "Jane", LastName: "Doe"},
			wantErr: ErrMissingEmail,
		},
		{
			name:    "whitespace email",
			profile: &Profile{Email: "   "},
			wantErr: ErrMissingEmail,
		},
		{
			name:    "valid minimal profile",
			profile: &Profile{Email: "jane@example.com"},
			wantErr: nil,
		},
		{
			name: "valid full profile",
			profile: &Profile{
				FirstName:   "Jane",
				LastName:    "Doe",
				Email:       "jane@example.com",
				PhoneNumber: "+1 555 0100",
				Skills:      []string{"Go", "Kubernetes"},
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfile(tt.profile)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestValidateStoredProfile(t *testing.T) {
	t.Run("missing cv path", func(t *testing.T) {
		err := ValidateStoredProfile(&Profile{Email: "jane@example.com"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingCvPath))
	})

	t.Run("missing email wins over missing cv path", func(t *testing.T) {
		err := ValidateStoredProfile(&Profile{CvPath: "/uploads/jane.pdf"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingEmail))
	})

	t.Run("valid stored profile", func(t *testing.T) {
		err := ValidateStoredProfile(&Profile{
			Email:  "jane@example.com",
			CvPath: "/uploads/jane.pdf",
		})
		assert.NoError(t, err)
	})
}

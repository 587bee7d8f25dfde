package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		form    Form
		wantErr error
	}{
		{"valid", Form{Rating: 5, Comment: "Great jacket"}, nil},
		{"lowest rating", Form{Rating: 1, Comment: "meh"}, nil},
		{"zero rating", Form{Rating: 0, Comment: "x"}, ErrInvalidRating},
		{"rating too high", Form{Rating: 6, Comment: "x"}, ErrInvalidRating},
		{"empty comment", Form{Rating: 4}, ErrCommentRequired},
		{"blank comment", Form{Rating: 4, Comment: "   "}, ErrCommentRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSubmit(t *testing.T) {
	r, err := Submit("1", "Alex Green", Form{Rating: 4, Comment: "  Fits well  "})

	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "1", r.ProductID)
	assert.Equal(t, "Alex Green", r.UserName)
	assert.Equal(t, 4, r.Rating)
	assert.Equal(t, "Fits well", r.Comment)
	assert.False(t, r.CreatedAt.IsZero())
}

func TestSubmit_Invalid(t *testing.T) {
	_, err := Submit("", "Alex", Form{Rating: 4, Comment: "ok"})
	assert.ErrorIs(t, err, ErrProductRequired)

	_, err = Submit("1", "Alex", Form{Rating: 9, Comment: "ok"})
	assert.ErrorIs(t, err, ErrInvalidRating)
}

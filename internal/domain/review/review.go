package review

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrCommentRequired = errors.New("comment is required")
	ErrProductRequired = errors.New("product id is required")
)

// Form is the review form on the product detail screen
type Form struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Review is a submitted review. Reviews are logged, not stored.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (f Form) Validate() error {
	if f.Rating < MinRating || f.Rating > MaxRating {
		return ErrInvalidRating
	}
	if strings.TrimSpace(f.Comment) == "" {
		return ErrCommentRequired
	}
	return nil
}

// Submit validates the form and logs the review. The caller resets its form on success.
func Submit(productID, userName string, f Form) (*Review, error) {
	if productID == "" {
		return nil, ErrProductRequired
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	r := &Review{
		ID:        uuid.New().String(),
		ProductID: productID,
		UserName:  userName,
		Rating:    f.Rating,
		Comment:   strings.TrimSpace(f.Comment),
		CreatedAt: time.Now(),
	}
	log.Printf("[Review] %s rated product %s %d/5: %q", userName, productID, r.Rating, r.Comment)
	return r, nil
}

package entities

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Status is the reading status of a book.
type Status string

const (
	StatusWantToRead Status = "Want to Read"
	StatusReading    Status = "Reading"
	StatusRead       Status = "Read"
)

// Valid reports whether s is one of the known reading statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusRead:
		return true
	}
	return false
}

// isbnStrip removes everything except digits and the check character X.
var isbnStrip = regexp.MustCompile(`[^0-9X]`)

// Book is a single catalog record owned by a user.
//
// DateAdded is set once at creation. DateUpdated is refreshed by the
// repository on every write; the entity itself stays a plain data holder,
// except for SetRating which enforces the rating range.
type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index" json:"user_id"`
	Title           string    `gorm:"index;size:255;not null" json:"title"`
	Author          string    `gorm:"index;size:255;not null" json:"author"`
	ISBN            string    `gorm:"size:20" json:"isbn,omitempty"`
	Genre           string    `gorm:"index;size:100" json:"genre,omitempty"`
	PublicationYear int       `json:"publication_year,omitempty"`
	Pages           int       `json:"pages,omitempty"`
	Description     string    `gorm:"type:text" json:"description,omitempty"`
	Rating          float64   `gorm:"index;default:0" json:"rating"`
	Status          Status    `gorm:"index;size:20;default:'Want to Read'" json:"status"`
	DateAdded       time.Time `gorm:"column:date_added;autoCreateTime" json:"date_added"`
	DateUpdated     time.Time `gorm:"column:date_updated;autoCreateTime;autoUpdateTime" json:"date_updated"`
}

func (Book) TableName() string {
	return "books"
}

// NewBook creates an in-memory book with defaults, ready to be populated
// and handed to the repository.
func NewBook(title, author, isbn, genre string, year, pages int, description string) *Book {
	now := time.Now()
	return &Book{
		Title:           title,
		Author:          author,
		ISBN:            isbn,
		Genre:           genre,
		PublicationYear: year,
		Pages:           pages,
		Description:     description,
		Rating:          0.0,
		Status:          StatusWantToRead,
		DateAdded:       now,
		DateUpdated:     now,
	}
}

// SetRating assigns a rating. Values outside [0.0, 5.0] are rejected and the
// previous rating kept; a successful assignment touches DateUpdated.
func (b *Book) SetRating(rating float64) bool {
	if rating < 0.0 || rating > 5.0 {
		return false
	}
	b.Rating = rating
	b.DateUpdated = time.Now()
	return true
}

// IsValidTitle reports whether the title is non-blank after trimming.
func (b *Book) IsValidTitle() bool {
	return strings.TrimSpace(b.Title) != ""
}

// IsValidAuthor reports whether the author is non-blank after trimming.
func (b *Book) IsValidAuthor() bool {
	return strings.TrimSpace(b.Author) != ""
}

// IsValidISBN reports whether the ISBN is empty (it is optional) or reduces
// to exactly 10 or 13 digit-or-X characters once punctuation is stripped.
func (b *Book) IsValidISBN() bool {
	if strings.TrimSpace(b.ISBN) == "" {
		return true
	}
	clean := isbnStrip.ReplaceAllString(b.ISBN, "")
	return len(clean) == 10 || len(clean) == 13
}

// IsValidYear reports whether the publication year is positive and not in
// the future.
func (b *Book) IsValidYear() bool {
	return b.PublicationYear > 0 && b.PublicationYear <= time.Now().Year()
}

// IsValidPages reports whether the page count is positive.
func (b *Book) IsValidPages() bool {
	return b.Pages > 0
}

// IsValidRating reports whether the rating lies in [0.0, 5.0].
func (b *Book) IsValidRating() bool {
	return b.Rating >= 0.0 && b.Rating <= 5.0
}

// IsValidStatus reports whether the status is one of the three known values.
func (b *Book) IsValidStatus() bool {
	return b.Status.Valid()
}

// IsValid reports whether every field-level validation passes. Callers are
// expected to check this before submitting to the repository.
func (b *Book) IsValid() bool {
	return b.IsValidTitle() && b.IsValidAuthor() && b.IsValidISBN() &&
		b.IsValidYear() && b.IsValidPages() && b.IsValidRating() && b.IsValidStatus()
}

// RatingStars renders the rating as a five-star string for display.
func (b *Book) RatingStars() string {
	full := int(b.Rating)
	half := b.Rating-float64(full) >= 0.5

	var stars strings.Builder
	for i := 0; i < full; i++ {
		stars.WriteRune('★')
	}
	if half {
		stars.WriteRune('☆')
	}
	remaining := 5 - full
	if half {
		remaining--
	}
	for i := 0; i < remaining; i++ {
		stars.WriteRune('☆')
	}
	return stars.String()
}

// ShortDescription truncates the description for table display.
func (b *Book) ShortDescription() string {
	desc := strings.TrimSpace(b.Description)
	if desc == "" {
		return "No description available"
	}
	if len(desc) > 100 {
		return desc[:97] + "..."
	}
	return desc
}

func (b *Book) String() string {
	return fmt.Sprintf("%s by %s (%d) - %s", b.Title, b.Author, b.PublicationYear, b.Status)
}

// StatusOptions lists the selectable reading statuses.
func StatusOptions() []Status {
	return []Status{StatusWantToRead, StatusReading, StatusRead}
}

// GenreOptions lists the suggested genres. The field itself is free text.
func GenreOptions() []string {
	return []string{
		"Fiction", "Non-Fiction", "Mystery", "Romance", "Science Fiction",
		"Fantasy", "Biography", "History", "Programming", "Business",
		"Self-Help", "Health", "Travel", "Cooking", "Art", "Other",
	}
}

package entities

import (
	"fmt"
	"strings"
)

// GenreCount is one row of the top-genres breakdown.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int64  `json:"count"`
}

// Statistics is the aggregate reading report for one owner's catalog.
// AverageRating covers only books with a positive rating and is zero when
// no book has been rated.
type Statistics struct {
	TotalBooks      int64        `json:"total_books"`
	ReadCount       int64        `json:"read_count"`
	ReadingCount    int64        `json:"reading_count"`
	WantToReadCount int64        `json:"want_to_read_count"`
	AverageRating   float64      `json:"average_rating"`
	TotalPages      int64        `json:"total_pages"`
	TopGenres       []GenreCount `json:"top_genres,omitempty"`
}

// Summary formats the statistics as a report for direct display.
func (s *Statistics) Summary() string {
	var b strings.Builder

	b.WriteString("Reading Statistics:\n")
	fmt.Fprintf(&b, "Total Books: %d\n", s.TotalBooks)
	fmt.Fprintf(&b, "Read: %d\n", s.ReadCount)
	fmt.Fprintf(&b, "Currently Reading: %d\n", s.ReadingCount)
	fmt.Fprintf(&b, "Want to Read: %d\n", s.WantToReadCount)
	fmt.Fprintf(&b, "Average Rating: %.1f/5.0\n", s.AverageRating)
	fmt.Fprintf(&b, "Total Pages: %d\n", s.TotalPages)

	if len(s.TopGenres) > 0 {
		b.WriteString("\nTop Genres:\n")
		for _, g := range s.TopGenres {
			fmt.Fprintf(&b, "- %s: %d books\n", g.Genre, g.Count)
		}
	}

	return b.String()
}

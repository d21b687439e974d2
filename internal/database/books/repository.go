// Package books provides database operations for the book catalog.
//
// Every read is scoped to an owning user; writes are keyed by the book
// identifier. Expected conditions (missing row, duplicate ISBN) are reported
// as the typed errors in the database package, never as panics, and
// diagnostics are logged at the point of failure.
//
// # Usage
//
//	repo := books.NewRepository(db, log)
//	book, err := repo.GetByID(123)
package books

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/bookshelf/bookshelf/internal/database"
	"github.com/bookshelf/bookshelf/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB, log zerolog.Logger) *Repository {
	return &Repository{db: db, log: log}
}

// Filter describes an advanced search. Zero-valued fields are not applied;
// MinRating is a pointer so that "no threshold" and "at least 0.0" stay
// distinguishable.
type Filter struct {
	Term      string
	Genre     string
	Status    entities.Status
	MinRating *float64
}

// Create persists a new book for the given owner and back-fills the
// generated identifier. A duplicate ISBN within the owner's catalog returns
// ErrDuplicateISBN.
func (r *Repository) Create(book *entities.Book, ownerID uint) error {
	book.UserID = ownerID
	if err := r.db.Create(book).Error; err != nil {
		if database.IsUniqueViolation(err) {
			r.log.Warn().Str("isbn", book.ISBN).Msg("isbn already exists")
			return database.ErrDuplicateISBN
		}
		r.log.Error().Err(err).Str("title", book.Title).Msg("failed to create book")
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// GetByID retrieves a book by its identifier. A missing row is ErrNotFound.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, database.ErrNotFound
		}
		r.log.Error().Err(err).Uint("id", id).Msg("failed to get book")
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}

// ListAll retrieves every book for the owner, newest first.
func (r *Repository) ListAll(ownerID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("user_id = ?", ownerID).
		Order("date_added DESC, id DESC").
		Find(&books).Error
	if err != nil {
		r.log.Error().Err(err).Msg("failed to list books")
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Search returns the owner's books whose title, author or ISBN contains the
// term as a case-insensitive substring, ordered by title.
func (r *Repository) Search(ownerID uint, term string) ([]entities.Book, error) {
	var books []entities.Book
	pattern := "%" + term + "%"
	err := r.db.Where("user_id = ?", ownerID).
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?) OR LOWER(isbn) LIKE LOWER(?)", pattern, pattern, pattern).
		Order("title ASC").
		Find(&books).Error
	if err != nil {
		r.log.Error().Err(err).Str("term", term).Msg("failed to search books")
		return nil, fmt.Errorf("search books: %w", err)
	}
	return books, nil
}

// ListByStatus returns the owner's books with the exact status, by title.
func (r *Repository) ListByStatus(ownerID uint, status entities.Status) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("user_id = ? AND status = ?", ownerID, status).
		Order("title ASC").
		Find(&books).Error
	if err != nil {
		r.log.Error().Err(err).Str("status", string(status)).Msg("failed to list books by status")
		return nil, fmt.Errorf("list books by status: %w", err)
	}
	return books, nil
}

// ListByGenre returns the owner's books with the exact genre, by title.
func (r *Repository) ListByGenre(ownerID uint, genre string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("user_id = ? AND genre = ?", ownerID, genre).
		Order("title ASC").
		Find(&books).Error
	if err != nil {
		r.log.Error().Err(err).Str("genre", genre).Msg("failed to list books by genre")
		return nil, fmt.Errorf("list books by genre: %w", err)
	}
	return books, nil
}

// SearchWithFilters combines an optional substring match with optional
// exact-match genre/status filters and an optional inclusive minimum rating,
// all ANDed together, ordered by title.
func (r *Repository) SearchWithFilters(ownerID uint, filter Filter) ([]entities.Book, error) {
	query := r.db.Where("user_id = ?", ownerID)

	if term := strings.TrimSpace(filter.Term); term != "" {
		pattern := "%" + term + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?) OR LOWER(isbn) LIKE LOWER(?)", pattern, pattern, pattern)
	}
	if genre := strings.TrimSpace(filter.Genre); genre != "" {
		query = query.Where("genre = ?", genre)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.MinRating != nil {
		query = query.Where("rating >= ?", *filter.MinRating)
	}

	var books []entities.Book
	if err := query.Order("title ASC").Find(&books).Error; err != nil {
		r.log.Error().Err(err).Msg("failed to search books with filters")
		return nil, fmt.Errorf("search books with filters: %w", err)
	}
	return books, nil
}

// Update overwrites every mutable field of the row keyed by book.ID and
// refreshes date_updated. A missing row is ErrNotFound; an ISBN held by
// another of the owner's books is ErrDuplicateISBN.
func (r *Repository) Update(book *entities.Book) error {
	tx := r.db.Model(&entities.Book{}).Where("id = ?", book.ID).Updates(map[string]any{
		"title":            book.Title,
		"author":           book.Author,
		"isbn":             book.ISBN,
		"genre":            book.Genre,
		"publication_year": book.PublicationYear,
		"pages":            book.Pages,
		"description":      book.Description,
		"rating":           book.Rating,
		"status":           book.Status,
		"date_updated":     time.Now(),
	})
	if tx.Error != nil {
		if database.IsUniqueViolation(tx.Error) {
			r.log.Warn().Str("isbn", book.ISBN).Uint("id", book.ID).Msg("isbn already exists")
			return database.ErrDuplicateISBN
		}
		r.log.Error().Err(tx.Error).Uint("id", book.ID).Msg("failed to update book")
		return fmt.Errorf("update book: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// UpdateRating sets only the rating of one book. Out-of-range values are
// rejected with ErrInvalidRating.
func (r *Repository) UpdateRating(id uint, rating float64) error {
	if rating < 0.0 || rating > 5.0 {
		return database.ErrInvalidRating
	}
	tx := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(map[string]any{
		"rating":       rating,
		"date_updated": time.Now(),
	})
	if tx.Error != nil {
		r.log.Error().Err(tx.Error).Uint("id", id).Msg("failed to update rating")
		return fmt.Errorf("update rating: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// UpdateStatus sets only the reading status of one book.
func (r *Repository) UpdateStatus(id uint, status entities.Status) error {
	if !status.Valid() {
		return database.ErrInvalidStatus
	}
	tx := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(map[string]any{
		"status":       status,
		"date_updated": time.Now(),
	})
	if tx.Error != nil {
		r.log.Error().Err(tx.Error).Uint("id", id).Msg("failed to update status")
		return fmt.Errorf("update status: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Delete removes the book permanently. A missing row is ErrNotFound.
func (r *Repository) Delete(id uint) error {
	tx := r.db.Delete(&entities.Book{}, id)
	if tx.Error != nil {
		r.log.Error().Err(tx.Error).Uint("id", id).Msg("failed to delete book")
		return fmt.Errorf("delete book: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Count returns the owner's total number of books.
func (r *Repository) Count(ownerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("user_id = ?", ownerID).Count(&count).Error
	if err != nil {
		r.log.Error().Err(err).Msg("failed to count books")
		return 0, fmt.Errorf("count books: %w", err)
	}
	return count, nil
}

// CountByStatus returns how many of the owner's books have the status.
func (r *Repository) CountByStatus(ownerID uint, status entities.Status) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).
		Where("user_id = ? AND status = ?", ownerID, status).
		Count(&count).Error
	if err != nil {
		r.log.Error().Err(err).Str("status", string(status)).Msg("failed to count books by status")
		return 0, fmt.Errorf("count books by status: %w", err)
	}
	return count, nil
}

// DistinctGenres returns the owner's non-empty genres, deduplicated and
// sorted.
func (r *Repository) DistinctGenres(ownerID uint) ([]string, error) {
	var genres []string
	err := r.db.Model(&entities.Book{}).
		Where("user_id = ? AND genre <> ''", ownerID).
		Distinct().
		Order("genre ASC").
		Pluck("genre", &genres).Error
	if err != nil {
		r.log.Error().Err(err).Msg("failed to list genres")
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

// DistinctAuthors returns the owner's authors, deduplicated and sorted.
func (r *Repository) DistinctAuthors(ownerID uint) ([]string, error) {
	var authors []string
	err := r.db.Model(&entities.Book{}).
		Where("user_id = ? AND author <> ''", ownerID).
		Distinct().
		Order("author ASC").
		Pluck("author", &authors).Error
	if err != nil {
		r.log.Error().Err(err).Msg("failed to list authors")
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

// IsISBNTaken reports whether any of the owner's books already carries the
// ISBN. An empty ISBN is never taken.
func (r *Repository) IsISBNTaken(ownerID uint, isbn string) (bool, error) {
	if strings.TrimSpace(isbn) == "" {
		return false, nil
	}
	var count int64
	err := r.db.Model(&entities.Book{}).
		Where("user_id = ? AND isbn = ?", ownerID, isbn).
		Count(&count).Error
	if err != nil {
		r.log.Error().Err(err).Str("isbn", isbn).Msg("failed to check isbn")
		return false, fmt.Errorf("check isbn: %w", err)
	}
	return count > 0, nil
}

// IsISBNTakenByOther reports whether a book other than excludeID carries the
// ISBN, for pre-update checks.
func (r *Repository) IsISBNTakenByOther(ownerID uint, isbn string, excludeID uint) (bool, error) {
	if strings.TrimSpace(isbn) == "" {
		return false, nil
	}
	var count int64
	err := r.db.Model(&entities.Book{}).
		Where("user_id = ? AND isbn = ? AND id <> ?", ownerID, isbn, excludeID).
		Count(&count).Error
	if err != nil {
		r.log.Error().Err(err).Str("isbn", isbn).Msg("failed to check isbn")
		return false, fmt.Errorf("check isbn: %w", err)
	}
	return count > 0, nil
}

// Paginate returns a window of the owner's books, newest first.
func (r *Repository) Paginate(ownerID uint, offset, limit int) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("user_id = ?", ownerID).
		Order("date_added DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&books).Error
	if err != nil {
		r.log.Error().Err(err).Int("offset", offset).Int("limit", limit).Msg("failed to paginate books")
		return nil, fmt.Errorf("paginate books: %w", err)
	}
	return books, nil
}

// TopRated returns up to limit rated books, best first.
func (r *Repository) TopRated(ownerID uint, limit int) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("user_id = ? AND rating > 0", ownerID).
		Order("rating DESC, title ASC").
		Limit(limit).
		Find(&books).Error
	if err != nil {
		r.log.Error().Err(err).Msg("failed to list top rated books")
		return nil, fmt.Errorf("list top rated books: %w", err)
	}
	return books, nil
}

// RecentlyAdded returns up to limit books, newest first.
func (r *Repository) RecentlyAdded(ownerID uint, limit int) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("user_id = ?", ownerID).
		Order("date_added DESC, id DESC").
		Limit(limit).
		Find(&books).Error
	if err != nil {
		r.log.Error().Err(err).Msg("failed to list recently added books")
		return nil, fmt.Errorf("list recently added books: %w", err)
	}
	return books, nil
}

// Statistics aggregates the owner's catalog into a reading report. On an
// empty catalog every figure is zero; the average rating covers only books
// with a positive rating.
func (r *Repository) Statistics(ownerID uint) (*entities.Statistics, error) {
	var row struct {
		TotalBooks      int64
		ReadCount       sql.NullInt64
		ReadingCount    sql.NullInt64
		WantToReadCount sql.NullInt64
		AverageRating   sql.NullFloat64
		TotalPages      sql.NullInt64
	}
	err := r.db.Raw(`
		SELECT
			COUNT(*) AS total_books,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS read_count,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS reading_count,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS want_to_read_count,
			AVG(CASE WHEN rating > 0 THEN rating END) AS average_rating,
			SUM(pages) AS total_pages
		FROM books
		WHERE user_id = ?`,
		entities.StatusRead, entities.StatusReading, entities.StatusWantToRead, ownerID,
	).Scan(&row).Error
	if err != nil {
		r.log.Error().Err(err).Msg("failed to aggregate statistics")
		return nil, fmt.Errorf("aggregate statistics: %w", err)
	}

	var topGenres []entities.GenreCount
	err = r.db.Raw(`
		SELECT genre, COUNT(*) AS count
		FROM books
		WHERE user_id = ? AND genre <> ''
		GROUP BY genre
		ORDER BY count DESC, genre ASC
		LIMIT 5`,
		ownerID,
	).Scan(&topGenres).Error
	if err != nil {
		r.log.Error().Err(err).Msg("failed to aggregate top genres")
		return nil, fmt.Errorf("aggregate top genres: %w", err)
	}

	return &entities.Statistics{
		TotalBooks:      row.TotalBooks,
		ReadCount:       row.ReadCount.Int64,
		ReadingCount:    row.ReadingCount.Int64,
		WantToReadCount: row.WantToReadCount.Int64,
		AverageRating:   row.AverageRating.Float64,
		TotalPages:      row.TotalPages.Int64,
		TopGenres:       topGenres,
	}, nil
}

// Package database owns the SQLite connection and schema lifecycle for the
// catalog. The Database value is constructed explicitly and injected into
// repositories; there is no process-wide singleton.
package database

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookshelf/bookshelf/internal/entities"
)

var defaultBooks = []entities.Book{
	{
		Title:           "Clean Code",
		Author:          "Robert C. Martin",
		ISBN:            "978-0132350884",
		Genre:           "Programming",
		PublicationYear: 2008,
		Pages:           464,
		Description:     "A handbook of agile software craftsmanship that teaches you how to write better code.",
		Rating:          4.5,
		Status:          entities.StatusRead,
	},
	{
		Title:           "Effective Java",
		Author:          "Joshua Bloch",
		ISBN:            "978-0134685991",
		Genre:           "Programming",
		PublicationYear: 2017,
		Pages:           416,
		Description:     "The definitive guide to Java platform best practices from the creator of the Java Collections Framework.",
		Rating:          4.8,
		Status:          entities.StatusReading,
	},
	{
		Title:           "The Pragmatic Programmer",
		Author:          "David Thomas & Andrew Hunt",
		ISBN:            "978-0135957059",
		Genre:           "Programming",
		PublicationYear: 2019,
		Pages:           352,
		Description:     "Your journey to mastery in software development.",
		Rating:          0.0,
		Status:          entities.StatusWantToRead,
	},
	{
		Title:           "Design Patterns",
		Author:          "Gang of Four",
		ISBN:            "978-0201633610",
		Genre:           "Programming",
		PublicationYear: 1994,
		Pages:           395,
		Description:     "Elements of reusable object-oriented software design patterns.",
		Rating:          4.3,
		Status:          entities.StatusWantToRead,
	},
	{
		Title:           "Java: The Complete Reference",
		Author:          "Herbert Schildt",
		ISBN:            "978-1260440232",
		Genre:           "Programming",
		PublicationYear: 2020,
		Pages:           1248,
		Description:     "Comprehensive guide to Java programming language.",
		Rating:          4.2,
		Status:          entities.StatusReading,
	},
}

type Database struct {
	DB  *gorm.DB
	log zerolog.Logger
}

// NewDatabase opens (creating if missing) the SQLite file at dbPath, ensures
// the schema exists and seeds the sample catalog when the books table is
// empty.
func NewDatabase(dbPath string, log zerolog.Logger) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Non-empty ISBNs are unique per owner; many books without an ISBN may
	// coexist, so a plain unique index over the column would not do.
	err = db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_books_owner_isbn ON books(user_id, isbn) WHERE isbn <> ''`,
	).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create isbn index: %w", err)
	}

	database := &Database{DB: db, log: log}

	if err := database.seedBooks(); err != nil {
		return nil, fmt.Errorf("failed to seed books: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("database initialized")

	return database, nil
}

// Close releases the underlying connection.
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// seedBooks inserts the sample catalog on first run only. Seeded rows belong
// to the first registered account.
func (d *Database) seedBooks() error {
	var count int64
	if err := d.DB.Model(&entities.Book{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, book := range defaultBooks {
		book.UserID = 1
		if err := d.DB.Create(&book).Error; err != nil {
			return fmt.Errorf("failed to create book %q: %w", book.Title, err)
		}
		d.log.Debug().Str("title", book.Title).Msg("seeded book")
	}
	return nil
}

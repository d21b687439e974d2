package database

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookshelf/bookshelf/internal/entities"
)

func testDatabase(t *testing.T) (*Database, string, func()) {
	dbPath := "./test_database_" + t.Name() + ".db"

	db, err := NewDatabase(dbPath, zerolog.Nop())
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return db, dbPath, cleanup
}

func TestNewDatabase_CreatesSchema(t *testing.T) {
	db, _, cleanup := testDatabase(t)
	defer cleanup()

	assert.True(t, db.DB.Migrator().HasTable(&entities.Book{}))
	assert.True(t, db.DB.Migrator().HasTable(&entities.User{}))
}

func TestNewDatabase_SeedsSampleBooks(t *testing.T) {
	db, _, cleanup := testDatabase(t)
	defer cleanup()

	var count int64
	require.NoError(t, db.DB.Model(&entities.Book{}).Count(&count).Error)
	assert.Equal(t, int64(5), count)

	var book entities.Book
	require.NoError(t, db.DB.Where("title = ?", "Clean Code").First(&book).Error)
	assert.Equal(t, "Robert C. Martin", book.Author)
	assert.Equal(t, entities.StatusRead, book.Status)
}

func TestNewDatabase_SeedOnlyRunsOnce(t *testing.T) {
	db, dbPath, cleanup := testDatabase(t)
	defer cleanup()
	require.NoError(t, db.Close())

	// reopening an existing catalog must not duplicate the samples
	db2, err := NewDatabase(dbPath, zerolog.Nop())
	require.NoError(t, err)
	defer db2.Close()

	var count int64
	require.NoError(t, db2.DB.Model(&entities.Book{}).Count(&count).Error)
	assert.Equal(t, int64(5), count)
}

func TestNewDatabase_EnforcesOwnerISBNUniqueness(t *testing.T) {
	db, _, cleanup := testDatabase(t)
	defer cleanup()

	dup := entities.NewBook("Clean Code (copy)", "Robert C. Martin", "978-0132350884", "Programming", 2008, 464, "")
	dup.UserID = 1

	err := db.DB.Create(dup).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestNewDatabase_AllowsManyEmptyISBNs(t *testing.T) {
	db, _, cleanup := testDatabase(t)
	defer cleanup()

	for _, title := range []string{"First", "Second"} {
		book := entities.NewBook(title, "Someone", "", "", 2001, 100, "")
		book.UserID = 1
		require.NoError(t, db.DB.Create(book).Error)
	}
}

func TestDatabase_Close(t *testing.T) {
	db, _, cleanup := testDatabase(t)
	defer cleanup()

	assert.NoError(t, db.Close())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.False(t, IsNotFound(ErrDuplicateISBN))
	assert.False(t, IsNotFound(nil))
}

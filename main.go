package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bookshelf/bookshelf/internal/config"
	"github.com/bookshelf/bookshelf/internal/database"
	"github.com/bookshelf/bookshelf/internal/database/books"
	"github.com/bookshelf/bookshelf/internal/database/users"
	"github.com/bookshelf/bookshelf/internal/entities"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "-h", "--help", "help":
		printUsage()
		return
	case "version":
		fmt.Printf("bookshelf %s (%s)\n", Version, Commit)
		return
	}

	cfg := config.NewConfig()

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(level)

	db, err := database.NewDatabase(cfg.Database.Path, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	bookRepo := books.NewRepository(db.DB, log)
	userRepo := users.NewRepository(db.DB, log, cfg.Auth.BcryptCost)

	switch command {
	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		owner := fs.Uint("user", 1, "owner account id")
		fs.Parse(args)

		all, err := bookRepo.ListAll(uint(*owner))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to list books")
		}
		printBooks(all)

	case "search":
		fs := flag.NewFlagSet("search", flag.ExitOnError)
		owner := fs.Uint("user", 1, "owner account id")
		fs.Parse(args)
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "Usage: bookshelf search [-user id] <term>")
			os.Exit(1)
		}

		found, err := bookRepo.Search(uint(*owner), fs.Arg(0))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to search books")
		}
		printBooks(found)

	case "stats":
		fs := flag.NewFlagSet("stats", flag.ExitOnError)
		owner := fs.Uint("user", 1, "owner account id")
		fs.Parse(args)

		stats, err := bookRepo.Statistics(uint(*owner))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to aggregate statistics")
		}
		fmt.Print(stats.Summary())

	case "genres":
		fs := flag.NewFlagSet("genres", flag.ExitOnError)
		owner := fs.Uint("user", 1, "owner account id")
		fs.Parse(args)

		genres, err := bookRepo.DistinctGenres(uint(*owner))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to list genres")
		}
		for _, genre := range genres {
			fmt.Println(genre)
		}

	case "register":
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "Usage: bookshelf register <username>")
			os.Exit(1)
		}
		password, err := readPassword()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		user, err := userRepo.Register(args[0], password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registered %s (id %d)\n", user.Username, user.ID)

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func readPassword() (string, error) {
	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(password, "\r\n"), nil
}

func printBooks(list []entities.Book) {
	if len(list) == 0 {
		fmt.Println("No books found.")
		return
	}
	for _, b := range list {
		fmt.Printf("%4d  %-40s  %-28s  %4d  %-12s  %s\n",
			b.ID, b.Title, b.Author, b.PublicationYear, b.Status, b.RatingStars())
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  list      List all books in the catalog\n")
	fmt.Fprintf(os.Stderr, "  search    Search books by title, author or ISBN\n")
	fmt.Fprintf(os.Stderr, "  stats     Show the reading statistics report\n")
	fmt.Fprintf(os.Stderr, "  genres    List the distinct genres in the catalog\n")
	fmt.Fprintf(os.Stderr, "  register  Create a new account\n")
	fmt.Fprintf(os.Stderr, "  version   Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}

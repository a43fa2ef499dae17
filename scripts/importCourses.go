package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"kursai/config"
	"kursai/database"
	"kursai/repository"
	"kursai/services"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Usage: go run ./scripts <seller-username> [courses.csv]
func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if len(os.Args) < 2 {
		log.Fatal().Msg("usage: importCourses <seller-username> [courses.csv]")
	}
	sellerName := os.Args[1]
	path := "courses.csv"
	if len(os.Args) > 2 {
		path = os.Args[2]
	}

	// Load config and connect to database
	cfg := config.LoadConfig()
	db, err := database.ConnectDb(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	store := repository.NewGormStore(db)

	ctx := context.Background()
	user, err := store.FindUserByUsername(ctx, sellerName)
	if err != nil {
		log.Fatal().Err(err).Str("seller", sellerName).Msg("Failed to find seller")
	}
	seller := services.Principal{UserID: user.ID, Username: user.Username, Email: user.Email}

	file, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open CSV file")
	}

	stats, err := importCourses(ctx, file, services.NewCourseService(store, nil, log), seller, log)
	file.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}

	log.Info().
		Int("inserted", stats.inserted).
		Int("updated", stats.updated).
		Int("skipped", stats.skipped).
		Msg("=== Import Complete ===")
}

type importStats struct {
	inserted int
	updated  int
	skipped  int
}

// importCourses creates or updates the seller's courses from CSV rows with the
// columns title, description, price and category. A row whose title matches an
// existing course of the seller updates that course.
func importCourses(ctx context.Context, r io.Reader, courses *services.CourseService, seller services.Principal, log zerolog.Logger) (importStats, error) {
	var stats importStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return stats, errors.New("CSV file is empty")
	}
	if err != nil {
		return stats, fmt.Errorf("read header: %w", err)
	}

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"title", "description", "price", "category"} {
		if _, ok := headerIndex[col]; !ok {
			return stats, fmt.Errorf("missing column %q", col)
		}
	}

	mine, err := courses.ListMine(ctx, seller)
	if err != nil {
		return stats, err
	}
	existing := make(map[string]services.CourseView, len(mine))
	for _, c := range mine {
		existing[c.Title] = c
	}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read line %d: %w", line, err)
		}

		price, err := decimal.NewFromString(getField(row, headerIndex, "price"))
		if err != nil {
			log.Warn().Int("line", line).Msg("Skipping row with invalid price")
			stats.skipped++
			continue
		}
		in := services.CourseInput{
			Title:       getField(row, headerIndex, "title"),
			Description: getField(row, headerIndex, "description"),
			Price:       price,
			Category:    getField(row, headerIndex, "category"),
		}

		if current, ok := existing[in.Title]; ok {
			// the CSV has no attachment columns, keep what the course already has
			in.AttachmentFileName = current.AttachmentFileName
			in.AttachmentFileType = current.AttachmentFileType
			in.AttachmentFileURL = current.AttachmentFileURL
			in.AttachmentFileSize = current.AttachmentFileSize
			if _, err := courses.Update(ctx, seller, current.ID, in); err != nil {
				log.Warn().Err(err).Int("line", line).Msg("Error updating course")
				stats.skipped++
				continue
			}
			stats.updated++
			continue
		}

		created, err := courses.Create(ctx, seller, in)
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("Error inserting course")
			stats.skipped++
			continue
		}
		existing[created.Title] = *created
		stats.inserted++
	}
	return stats, nil
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

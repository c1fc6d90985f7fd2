package reviewstore

import (
	"context"
	"database/sql"
	"time"

	"brandsentinel-backend/lib/sentiment"

	_ "modernc.org/sqlite"
)

// Section tags which part of the site a record came from.
type Section string

const (
	SectionReviews      Section = "Reviews"
	SectionProducts     Section = "Products"
	SectionTestimonials Section = "Testimonials"
)

// Record is the normalized shape shared by all scraped sections.
// Undated sections leave Date at the zero value.
type Record struct {
	Id          string
	Section     Section
	Title       string
	Text        string
	Rating      int
	Date        time.Time
	Author      string
	Price       string
	Url         string
	Description string
	Image       string
	Sentiment   string
	Confidence  float64
}

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

func dateToUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func unixToDate(u int64) time.Time {
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0).UTC()
}

// ReplaceSection swaps out every record of a section in one transaction,
// so a scrape run never leaves a section half-written.
func (s Store) ReplaceSection(ctx context.Context, section Section, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM records WHERE section = ?`, string(section))
	if err != nil {
		return err
	}

	for _, r := range records {
		if r.Sentiment == "" {
			r.Sentiment = sentiment.LabelUnknown
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO records (
				id, section, title, text, rating, date,
				author, price, url, description, image,
				sentiment, confidence
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				section = excluded.section,
				title = excluded.title,
				text = excluded.text,
				rating = excluded.rating,
				date = excluded.date,
				author = excluded.author,
				price = excluded.price,
				url = excluded.url,
				description = excluded.description,
				image = excluded.image,
				sentiment = excluded.sentiment,
				confidence = excluded.confidence`,
			r.Id, string(section), r.Title, r.Text, r.Rating, dateToUnix(r.Date),
			r.Author, r.Price, r.Url, r.Description, r.Image,
			r.Sentiment, r.Confidence,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s Store) scanRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var section string
		var date int64
		err := rows.Scan(
			&r.Id, &section, &r.Title, &r.Text, &r.Rating, &date,
			&r.Author, &r.Price, &r.Url, &r.Description, &r.Image,
			&r.Sentiment, &r.Confidence,
		)
		if err != nil {
			return nil, err
		}
		r.Section = Section(section)
		r.Date = unixToDate(date)
		records = append(records, r)
	}
	return records, rows.Err()
}

const selectColumns = `id, section, title, text, rating, date,
	author, price, url, description, image, sentiment, confidence`

// BySection returns a section's records ordered by date then id.
func (s Store) BySection(ctx context.Context, section Section) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM records WHERE section = ? ORDER BY date, id`,
		string(section),
	)
	if err != nil {
		return nil, err
	}
	return s.scanRecords(rows)
}

// ByMonth returns a section's records dated inside the given month.
func (s Store) ByMonth(ctx context.Context, section Section, year int, month time.Month) ([]Record, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM records
		WHERE section = ? AND date >= ? AND date < ?
		ORDER BY date, id`,
		string(section), start.Unix(), end.Unix(),
	)
	if err != nil {
		return nil, err
	}
	return s.scanRecords(rows)
}

// SetSentiment attaches a classification to one record.
func (s Store) SetSentiment(ctx context.Context, id string, result sentiment.Result) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE records SET sentiment = ?, confidence = ? WHERE id = ?`,
		result.Label, result.Confidence, id,
	)
	return err
}

// DateRange reports the earliest and latest dated records across the
// store; ok is false when nothing dated exists.
func (s Store) DateRange(ctx context.Context) (min, max time.Time, ok bool, err error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT MIN(date), MAX(date) FROM records WHERE date > 0`)

	var minUnix, maxUnix sql.NullInt64
	err = row.Scan(&minUnix, &maxUnix)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	if !minUnix.Valid {
		return time.Time{}, time.Time{}, false, nil
	}
	return unixToDate(minUnix.Int64), unixToDate(maxUnix.Int64), true, nil
}

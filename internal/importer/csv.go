package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nissyi-gh/socialdebt/internal/ledger"
	"github.com/nissyi-gh/socialdebt/internal/model"
)

// Header is the first line of every exported file.
var Header = []string{"Title", "Person", "Description", "Direction", "Value", "Due Date", "Status", "Tags", "Rating", "Date"}

// MinFields is the fewest fields a data row may have.
const MinFields = 6

const (
	tagSeparator = "; "
	dateLayout   = "2006-01-02T15:04:05.000Z07:00"
)

var (
	// ErrNoValidData means no row of the file could be imported.
	ErrNoValidData = errors.New("no valid data found in CSV file")
	// ErrUnreadable means the file could not be read at all.
	ErrUnreadable = errors.New("error reading file")
	// ErrTooFewFields marks a row with fewer than MinFields fields.
	ErrTooFewFields = errors.New("too few fields")
)

// IsFatal reports whether err aborted the whole import.
func IsFatal(err error) bool {
	return errors.Is(err, ErrNoValidData) || errors.Is(err, ErrUnreadable)
}

// Adder is the repository's add pipeline.
type Adder interface {
	Add(d ledger.Draft, opts ...ledger.AddOption) (model.Favor, error)
}

// RowError describes a skipped data row. Line is 1-based and counts the header.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Report summarizes an import.
type Report struct {
	Imported   int
	Skipped    []RowError
	StorageErr error // last failed write, if any
}

// Row is a decoded data row.
type Row struct {
	Draft  ledger.Draft
	Status model.Status
	Rating int
	Date   time.Time // zero when the column is empty or malformed
}

// ExportFileName suggests a file name for an export made at now.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("favor-tracker-%s.csv", now.Format(model.DateLayout))
}

// ExportCSV renders favors as CSV text. Every data field is quoted.
func ExportCSV(favors []model.Favor) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(Header, ","))
	for _, f := range favors {
		sb.WriteByte('\n')
		for i, cell := range exportRow(f) {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(quote(cell))
		}
	}
	return sb.String()
}

// WriteCSV writes ExportCSV(favors) to w.
func WriteCSV(w io.Writer, favors []model.Favor) error {
	_, err := io.WriteString(w, ExportCSV(favors))
	return err
}

func exportRow(f model.Favor) []string {
	value := ""
	if f.Value != nil {
		value = strconv.Itoa(*f.Value)
	}
	due := ""
	if f.DueDate != nil {
		due = *f.DueDate
	}
	return []string{
		f.Title,
		f.Person,
		f.Description,
		string(f.Direction),
		value,
		due,
		string(f.Status),
		strings.Join(f.Tags, tagSeparator),
		strconv.Itoa(f.Rating),
		f.Date.UTC().Format(dateLayout),
	}
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// quote escapes s as a single-line CSV field.
func quote(s string) string {
	return `"` + strings.ReplaceAll(lineBreaks.Replace(s), `"`, `""`) + `"`
}

// ReadFile loads a CSV file for Import.
func ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return string(b), nil
}

// ImportFile reads path and imports it. ctx is checked between the read and
// the import so a cancelled caller adds nothing.
func ImportFile(ctx context.Context, a Adder, path string) (Report, error) {
	text, err := ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("import %s: %w", path, err)
	}
	return Import(a, text)
}

// Import adds every decodable row of text through a. The first line is a
// header and is discarded. Rows that fail to decode or validate are
// skipped; ErrNoValidData is returned only when nothing was imported.
func Import(a Adder, text string) (Report, error) {
	type numbered struct {
		no   int
		text string
	}
	var lines []numbered
	for i, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, numbered{no: i + 1, text: strings.TrimRight(l, "\r")})
		}
	}
	if len(lines) < 2 {
		return Report{}, fmt.Errorf("%w: file is empty or has no data rows", ErrNoValidData)
	}

	var rep Report
	for _, line := range lines[1:] {
		lineNo := line.no
		row, err := DecodeRow(line.text)
		if err != nil {
			slog.Warn("skipping CSV row", "line", lineNo, "error", err)
			rep.Skipped = append(rep.Skipped, RowError{Line: lineNo, Err: err})
			continue
		}
		if _, err := a.Add(row.Draft,
			ledger.WithStatus(row.Status),
			ledger.WithRating(row.Rating),
			ledger.WithCreatedAt(row.Date),
		); err != nil {
			var verr *ledger.ValidationError
			if errors.As(err, &verr) {
				slog.Warn("CSV row rejected", "line", lineNo, "error", err)
				rep.Skipped = append(rep.Skipped, RowError{Line: lineNo, Err: err})
				continue
			}
			// the favor is in memory; only its write failed
			rep.StorageErr = err
		}
		rep.Imported++
	}

	if rep.Imported == 0 {
		return rep, ErrNoValidData
	}
	slog.Info("CSV imported", "imported", rep.Imported, "skipped", len(rep.Skipped))
	return rep, nil
}

// DecodeRow maps one data line onto a Row by column position.
func DecodeRow(line string) (Row, error) {
	fields, err := splitFields(line)
	if err != nil {
		return Row{}, err
	}
	if len(fields) < MinFields {
		return Row{}, fmt.Errorf("%w: got %d, need %d", ErrTooFewFields, len(fields), MinFields)
	}
	col := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	row := Row{
		Draft: ledger.Draft{
			Title:       col(0),
			Person:      col(1),
			Description: col(2),
			Direction:   col(3),
			DueDate:     col(5),
		},
		Status: model.ParseStatus(strings.TrimSpace(col(6))),
	}
	if v, err := strconv.Atoi(strings.TrimSpace(col(4))); err == nil {
		row.Draft.Value = &v
	}
	for _, tag := range strings.Split(col(7), tagSeparator) {
		if tag != "" {
			row.Draft.Tags = append(row.Draft.Tags, tag)
		}
	}
	if n, err := strconv.Atoi(strings.TrimSpace(col(8))); err == nil {
		row.Rating = n
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(col(9))); err == nil {
		row.Date = t
	}
	return row, nil
}

// splitFields splits a line on commas outside double quotes. Inside a
// quoted field a doubled quote stands for one quote character.
func splitFields(line string) ([]string, error) {
	var (
		fields []string
		cur    strings.Builder
		quoted bool
		i      int
	)
	for i < len(line) {
		c := line[i]
		switch {
		case quoted && c == '"':
			if i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				quoted = false
			}
		case quoted:
			cur.WriteByte(c)
		case c == '"' && strings.TrimSpace(cur.String()) == "":
			cur.Reset()
			quoted = true
		case c == ',':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
		i++
	}
	if quoted {
		return nil, errors.New("unterminated quoted field")
	}
	return append(fields, cur.String()), nil
}

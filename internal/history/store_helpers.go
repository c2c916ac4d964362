package history

import (
	"database/sql"
	"errors"
	"time"
)

// timeLayout keeps a fixed fraction width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id          string
		kind        string
		video       sql.NullString
		output      sql.NullString
		strategy    sql.NullString
		status      string
		errorKind   sql.NullString
		message     sql.NullString
		chunks      sql.NullInt64
		failed      sql.NullInt64
		startedRaw  sql.NullString
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&kind,
		&video,
		&output,
		&strategy,
		&status,
		&errorKind,
		&message,
		&chunks,
		&failed,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	run := &Run{
		ID:           id,
		Kind:         kind,
		Video:        video.String,
		Output:       output.String,
		Strategy:     strategy.String,
		Status:       status,
		ErrorKind:    errorKind.String,
		Message:      message.String,
		Chunks:       int(chunks.Int64),
		FailedChunks: int(failed.Int64),
	}
	if started, err := parseTimeString(startedRaw.String); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(timeLayout)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

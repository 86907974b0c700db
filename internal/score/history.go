package score

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// HistoryStore keeps the summaries of finished runs, keyed by the hash of
// the chart payload they were played on.
type HistoryStore struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time
}

type Record struct {
	ID       int64
	Sum      string
	PlayedAt time.Time
	Summary  Summary
}

const initStatement = `
create table if not exists scores
  (
	  id integer not null primary key,
	  sum text not null,
	  played_at integer not null,
	  score integer not null,
	  accuracy integer not null,
	  summary blob not null
  );
create index if not exists scores_sum on scores (sum);
`

// OpenHistory opens (creating if needed) the sqlite database at path.
// ":memory:" gives a throwaway store.
func OpenHistory(path string, log zerolog.Logger) (*HistoryStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open score database %s", path)
	}
	// A memory database lives and dies with its connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(initStatement); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "unable to create scores table")
	}
	return &HistoryStore{db: db, log: log, now: time.Now}, nil
}

func (h *HistoryStore) Close() error {
	if h.db == nil {
		return nil
	}
	return h.db.Close()
}

func (h *HistoryStore) Save(sum string, s Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "unable to marshal summary")
	}
	_, err = h.db.Exec(
		"insert into scores(sum, played_at, score, accuracy, summary) values(?, ?, ?, ?, ?)",
		sum, h.now().UnixMilli(), s.Score, s.Accuracy, data,
	)
	if err != nil {
		return errors.Wrap(err, "unable to save score")
	}
	h.log.Debug().Str("sum", sum).Int("score", s.Score).Msg("saved score")
	return nil
}

// Load returns every run of the chart, oldest first. Rows that fail to
// decode are logged and skipped.
func (h *HistoryStore) Load(sum string) ([]Record, error) {
	rows, err := h.db.Query("select id, sum, played_at, summary from scores where sum = ? order by id", sum)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load scores")
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var (
			r        Record
			playedAt int64
			data     []byte
		)
		if err := rows.Scan(&r.ID, &r.Sum, &playedAt, &data); err != nil {
			return nil, errors.Wrap(err, "unable to scan score")
		}
		if err := json.Unmarshal(data, &r.Summary); err != nil {
			h.log.Warn().Err(err).Int64("id", r.ID).Msg("unable to unmarshal score summary")
			continue
		}
		r.PlayedAt = time.UnixMilli(playedAt)
		records = append(records, r)
	}
	return records, errors.Wrap(rows.Err(), "unable to read scores")
}

// Best returns the highest scoring run of the chart, if there is one.
func (h *HistoryStore) Best(sum string) (Record, bool, error) {
	records, err := h.Load(sum)
	if err != nil {
		return Record{}, false, err
	}
	var best Record
	found := false
	for _, r := range records {
		if !found || r.Summary.Score > best.Summary.Score {
			best = r
			found = true
		}
	}
	return best, found, nil
}

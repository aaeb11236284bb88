package ledger

import (
	"cmp"
	"io"
	"slices"

	"github.com/charmbracelet/log"
)

// Ledger is the in-memory view of every player record in a Store. Records
// keep the order in which they were first seen.
type Ledger struct {
	store   Store
	records map[string]Record
	order   []string
	logger  *log.Logger
}

// Open loads every record from store.
func Open(store Store, logger *log.Logger) (*Ledger, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	l := &Ledger{
		store:  store,
		logger: logger.WithPrefix("ledger"),
	}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload discards in-memory state and reads the store again. When a name
// appears more than once the last record wins.
func (l *Ledger) Reload() error {
	records, err := l.store.Load()
	if err != nil {
		return err
	}

	l.records = make(map[string]Record, len(records))
	l.order = l.order[:0]
	for _, r := range records {
		l.Put(r)
	}
	return nil
}

// Get returns the record for name. Names are case sensitive.
func (l *Ledger) Get(name string) (Record, bool) {
	r, ok := l.records[name]
	return r, ok
}

// GetOrCreate returns the record for name, creating a fresh one with the
// starting bankroll when absent. created reports which happened.
func (l *Ledger) GetOrCreate(name string) (rec Record, created bool, err error) {
	if err := ValidateName(name); err != nil {
		return Record{}, false, err
	}
	if r, ok := l.records[name]; ok {
		return r, false, nil
	}

	rec = NewRecord(name)
	l.Put(rec)
	l.logger.Info("Created player", "name", name, "bankroll", rec.Bankroll)
	return rec, true, nil
}

// Put stores r, replacing any record with the same name.
func (l *Ledger) Put(r Record) {
	if _, ok := l.records[r.Name]; !ok {
		l.order = append(l.order, r.Name)
	}
	l.records[r.Name] = r
}

// Len returns the number of players
func (l *Ledger) Len() int {
	return len(l.order)
}

// Records returns every record in ledger order
func (l *Ledger) Records() []Record {
	out := make([]Record, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.records[name])
	}
	return out
}

// Leaderboard returns up to n records ordered by bankroll, then win rate,
// then name. n <= 0 returns all of them.
func (l *Ledger) Leaderboard(n int) []Record {
	out := l.Records()
	slices.SortStableFunc(out, func(a, b Record) int {
		if c := cmp.Compare(b.Bankroll, a.Bankroll); c != 0 {
			return c
		}
		if c := cmp.Compare(b.WinRate(), a.WinRate()); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Save writes every record to the store. Failures come back as
// *StoreWriteError and leave the in-memory ledger intact.
func (l *Ledger) Save() error {
	if err := l.store.Save(l.Records()); err != nil {
		l.logger.Warn("Failed to save ledger", "store", l.store, "error", err)
		return &StoreWriteError{Store: l.store.String(), Err: err}
	}
	l.logger.Debug("Saved ledger", "store", l.store, "records", len(l.order))
	return nil
}

// Close releases the underlying store.
func (l *Ledger) Close() error {
	return l.store.Close()
}

// Package recording stores the results of estimation passes in a SQLite
// database.
package recording

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/sarchlab/nocperf/estimation"
	"github.com/tebeka/atexit"
)

const (
	passTable  = "passes"
	layerTable = "layers"
)

// PassEntry is one row of the passes table.
type PassEntry struct {
	PassID             string
	Label              string
	Network            string
	NumLayers          int
	EstimatedLayers    int
	NumCores           int
	LocalMemoryBytes   int64
	TotalLatency       int64
	TotalSeconds       float64
	TotalDynamicEnergy float64
	TotalLeakageEnergy float64
	TrafficLoad        int64
	TrafficStore       int64
	CommTraffic        int64
}

// LayerEntry is one row of the layers table.
type LayerEntry struct {
	PassID                  string
	LayerIndex              int
	Name                    string
	Kind                    string
	ActiveCores             int
	OpsPerCore              int64
	CommLatency             int64
	MainMemoryLatency       int64
	CompLatency             int64
	CommEnergy              float64
	CompEnergy              float64
	LocalMemEnergy          float64
	MainMemoryEnergy        float64
	CommEnergyLeakage       float64
	CompEnergyLeakage       float64
	LocalMemEnergyLeakage   float64
	MainMemoryEnergyLeakage float64
	TrafficLoad             int64
	TrafficStore            int64
	CommTraffic             int64
}

// Recorder buffers passes and writes them to the database on Flush. It is
// also flushed when the program exits through atexit.
type Recorder struct {
	*sql.DB

	dbName    string
	batchSize int
	passes    []PassEntry
	layers    []LayerEntry
}

// New creates a recorder that writes to path.sqlite3. With an empty path, a
// unique name is generated. The file must not exist yet.
func New(path string) (*Recorder, error) {
	r := &Recorder{
		dbName:    path,
		batchSize: 10000,
	}

	if r.dbName == "" {
		r.dbName = "nocperf_" + xid.New().String()
	}

	filename := r.dbName + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		return nil, fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	return r.init(db)
}

// NewWithDB creates a recorder on an open database.
func NewWithDB(db *sql.DB) (*Recorder, error) {
	r := &Recorder{batchSize: 10000}

	return r.init(db)
}

func (r *Recorder) init(db *sql.DB) (*Recorder, error) {
	r.DB = db

	for name, sample := range map[string]any{
		passTable:  PassEntry{},
		layerTable: LayerEntry{},
	} {
		if err := r.createTable(name, sample); err != nil {
			return nil, err
		}
	}

	atexit.Register(func() {
		if err := r.Flush(); err != nil {
			slog.Error("RecorderFlushFailed", "Error", err.Error())
		}
	})

	return r, nil
}

// Filename returns the database file, or an empty string if the recorder
// was given its database.
func (r *Recorder) Filename() string {
	if r.dbName == "" {
		return ""
	}

	return r.dbName + ".sqlite3"
}

func (r *Recorder) createTable(name string, sample any) error {
	fields := strings.Join(structs.Names(sample), ", \n\t")
	query := `CREATE TABLE IF NOT EXISTS ` + name +
		` (` + "\n\t" + fields + "\n" + `);`

	if _, err := r.Exec(query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	return nil
}

// RecordPass buffers the result of a pass and returns the id given to it.
// Passes that stopped early are recorded with the layers they finished.
func (r *Recorder) RecordPass(
	label string,
	e *estimation.Estimation,
	stats *estimation.GlobalStats,
) (string, error) {
	passID := xid.New().String()
	costModel := e.CostModel()
	cycles := stats.TotalLatency()

	r.passes = append(r.passes, PassEntry{
		PassID:             passID,
		Label:              label,
		Network:            e.Network().Name(),
		NumLayers:          e.Network().NumLayers(),
		EstimatedLayers:    len(stats.LayerStats),
		NumCores:           costModel.NumCores(),
		LocalMemoryBytes:   costModel.LocalMemoryBytes(),
		TotalLatency:       cycles,
		TotalSeconds:       estimation.CyclesToSeconds(cycles, costModel.Freq()),
		TotalDynamicEnergy: stats.TotalDynamicEnergy(),
		TotalLeakageEnergy: stats.TotalLeakageEnergy(),
		TrafficLoad:        stats.TotalMainMemoryTrafficLoad,
		TrafficStore:       stats.TotalMainMemoryTrafficStore,
		CommTraffic:        stats.TotalCommTraffic,
	})

	for i, ls := range stats.LayerStats {
		r.layers = append(r.layers, layerEntry(passID, i, ls))
	}

	if len(r.passes)+len(r.layers) >= r.batchSize {
		return passID, r.Flush()
	}

	return passID, nil
}

func layerEntry(passID string, i int, ls estimation.LayerStat) LayerEntry {
	return LayerEntry{
		PassID:                  passID,
		LayerIndex:              i,
		Name:                    ls.Name,
		Kind:                    ls.Kind.Name(),
		ActiveCores:             ls.ActiveCores,
		OpsPerCore:              ls.OpsPerCore,
		CommLatency:             ls.CommLatency,
		MainMemoryLatency:       ls.MainMemoryLatency,
		CompLatency:             ls.CompLatency,
		CommEnergy:              ls.CommEnergy,
		CompEnergy:              ls.CompEnergy,
		LocalMemEnergy:          ls.LocalMemEnergy,
		MainMemoryEnergy:        ls.MainMemoryEnergy,
		CommEnergyLeakage:       ls.CommEnergyLeakage,
		CompEnergyLeakage:       ls.CompEnergyLeakage,
		LocalMemEnergyLeakage:   ls.LocalMemEnergyLeakage,
		MainMemoryEnergyLeakage: ls.MainMemoryEnergyLeakage,
		TrafficLoad:             ls.MainMemoryTrafficLoad,
		TrafficStore:            ls.MainMemoryTrafficStore,
		CommTraffic:             ls.CommTraffic,
	}
}

// Flush writes all the buffered rows in one transaction.
func (r *Recorder) Flush() error {
	if len(r.passes) == 0 && len(r.layers) == 0 {
		return nil
	}

	tx, err := r.Begin()
	if err != nil {
		return err
	}

	err = insertAll(tx, passTable, r.passes)
	if err == nil {
		err = insertAll(tx, layerTable, r.layers)
	}

	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	r.passes = nil
	r.layers = nil

	return nil
}

// Close flushes the buffered rows and closes the database.
func (r *Recorder) Close() error {
	if err := r.Flush(); err != nil {
		return err
	}

	return r.DB.Close()
}

func insertAll[T any](tx *sql.Tx, table string, entries []T) error {
	if len(entries) == 0 {
		return nil
	}

	names := structs.Names(entries[0])
	marks := make([]string, len(names))
	for i := range marks {
		marks[i] = "?"
	}

	stmt, err := tx.Prepare("INSERT INTO " + table +
		" VALUES (" + strings.Join(marks, ", ") + ")")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.Exec(structs.Values(entry)...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}

	return nil
}

package trace

import (
	"database/sql"
	"fmt"

	// Registers the pure-Go "sqlite" driver.
	_ "github.com/glebarez/go-sqlite"
)

// RunInfo describes the run a trace belongs to.
type RunInfo struct {
	ID           string
	Pager        string
	Frames       int
	Instructions uint64
	TotalCost    uint64
}

const createTablesSQL = `
create table if not exists runs
(
	run_id       varchar(64) primary key,
	pager        varchar(32) not null,
	frames       integer     not null,
	instructions integer     not null,
	total_cost   integer     not null
);
create table if not exists faults
(
	run_id         varchar(64) not null,
	seq            integer     not null,
	instruction    integer     not null,
	process        integer     not null,
	page           integer     not null,
	kind           varchar(16) not null,
	frame          integer     not null,
	victim_process integer     not null,
	victim_page    integer     not null
);
create index if not exists faults_run_id_index on faults (run_id);
`

// SaveSQLite writes run and every record of st into the SQLite database at path,
// creating the tables if needed. All rows are written in one transaction.
func SaveSQLite(path string, run RunInfo, st *SimulationTrace) (err error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening trace database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing trace database: %w", cerr)
		}
	}()

	if _, err := db.Exec(createTablesSQL); err != nil {
		return fmt.Errorf("creating trace tables: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting trace transaction: %w", err)
	}
	if err := insertRun(tx, run, st); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing trace: %w", err)
	}
	return nil
}

func insertRun(tx *sql.Tx, run RunInfo, st *SimulationTrace) error {
	if _, err := tx.Exec(
		`insert into runs (run_id, pager, frames, instructions, total_cost) values (?, ?, ?, ?, ?)`,
		run.ID, run.Pager, run.Frames, run.Instructions, run.TotalCost,
	); err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}
	if st == nil {
		return nil
	}

	stmt, err := tx.Prepare(`insert into faults
		(run_id, seq, instruction, process, page, kind, frame, victim_process, victim_page)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing fault insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range st.Faults {
		if _, err := stmt.Exec(run.ID, i, f.Instruction, f.Process, f.Page, f.Kind,
			f.Frame, f.VictimProcess, f.VictimPage); err != nil {
			return fmt.Errorf("inserting fault %d: %w", i, err)
		}
	}
	return nil
}

// LoadSQLite reads back the records of runID in recording order.
func LoadSQLite(path, runID string) ([]FaultRecord, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening trace database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`select instruction, process, page, kind, frame, victim_process, victim_page
		from faults where run_id = ? order by seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying faults: %w", err)
	}
	defer rows.Close()

	var records []FaultRecord
	for rows.Next() {
		var f FaultRecord
		if err := rows.Scan(&f.Instruction, &f.Process, &f.Page, &f.Kind,
			&f.Frame, &f.VictimProcess, &f.VictimPage); err != nil {
			return nil, fmt.Errorf("scanning fault: %w", err)
		}
		records = append(records, f)
	}
	return records, rows.Err()
}

package models

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Maintenance modes

GENERATE_MODELS=true writes typed query helpers for every model into
./generated using gorm/gen. It never touches the schema: migrations are
applied by database.Migrate only.

GENERATE_COLUMN_REPORT=true compares each table with its Go model and prints

	--- Table: projects ---
	Columns not mapped by the model:
	  - legacy_flag
	Model fields missing from the table:
	  - display_order

A clean report is what database.Migrate leaves behind; anything else means
the schema was edited outside the migration steps.
*/

// All returns one pointer per persisted model, in migration order.
func All() []any {
	return []any{
		&Project{},
		&Skill{},
		&Certification{},
		&BlogPost{},
		&About{},
		&SiteSettings{},
		&PortfolioAnalytics{},
		&AdminUser{},
	}
}

func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("checking database connection: %w", err)
	}

	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			LogLevel: logger.Info,
			Colorful: true,
		},
	)

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db.Session(&gorm.Session{Logger: verbose}))
	g.ApplyBasic(All()...)
	g.Execute()
	return nil
}

// ColumnMismatch lists the differences between one table and its model.
type ColumnMismatch struct {
	Table    string
	Exists   bool
	Unmapped []string // in the table, not in the model
	Missing  []string // in the model, not in the table
}

func (m ColumnMismatch) Clean() bool {
	return m.Exists && len(m.Unmapped) == 0 && len(m.Missing) == 0
}

// ColumnMismatchReport inspects every model's table through the gorm migrator,
// so it works on any dialect the application supports.
func ColumnMismatchReport(db *gorm.DB) ([]ColumnMismatch, error) {
	var report []ColumnMismatch
	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parsing model %T: %w", model, err)
		}
		entry := ColumnMismatch{Table: stmt.Schema.Table}

		if !db.Migrator().HasTable(model) {
			entry.Missing = append(entry.Missing, stmt.Schema.DBNames...)
			report = append(report, entry)
			continue
		}
		entry.Exists = true

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("reading columns of %s: %w", entry.Table, err)
		}
		dbColumns := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			dbColumns = append(dbColumns, ct.Name())
		}

		entry.Unmapped = findColumnMismatches(dbColumns, stmt.Schema.DBNames)
		entry.Missing = findColumnMismatches(stmt.Schema.DBNames, dbColumns)
		report = append(report, entry)
	}
	return report, nil
}

// WriteColumnMismatchReport renders a report in the format shown above.
func WriteColumnMismatchReport(w io.Writer, report []ColumnMismatch) {
	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")
	total := 0
	for _, entry := range report {
		fmt.Fprintf(w, "\n--- Table: %s ---\n", entry.Table)
		if !entry.Exists {
			fmt.Fprintln(w, "Table does not exist yet (run the migrations)")
			continue
		}
		if entry.Clean() {
			fmt.Fprintln(w, "All columns are accounted for in the model.")
			continue
		}
		if len(entry.Unmapped) > 0 {
			fmt.Fprintln(w, "Columns not mapped by the model:")
			for _, col := range entry.Unmapped {
				fmt.Fprintf(w, "  - %s\n", col)
			}
		}
		if len(entry.Missing) > 0 {
			fmt.Fprintln(w, "Model fields missing from the table:")
			for _, col := range entry.Missing {
				fmt.Fprintf(w, "  - %s\n", col)
			}
		}
		total += len(entry.Unmapped) + len(entry.Missing)
	}
	fmt.Fprintf(w, "\n=== SUMMARY ===\n")
	fmt.Fprintf(w, "Total mismatched columns across all tables: %d\n", total)
}

// findColumnMismatches returns the names in have that want does not contain.
func findColumnMismatches(have, want []string) []string {
	wantSet := make(map[string]bool, len(want))
	for _, name := range want {
		wantSet[name] = true
	}

	var mismatches []string
	for _, name := range have {
		if !wantSet[name] {
			mismatches = append(mismatches, name)
		}
	}
	sort.Strings(mismatches)
	return mismatches
}

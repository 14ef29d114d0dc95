package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/linusc17/fitness-planner/internal/validation"
)

// ExportDump exports every application table into a single TOML file. Each
// table becomes an array of rows, each row a map from column name to value.
func (s *Storage) ExportDump(ctx context.Context, outputPath string) error {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%';`)
	if err != nil {
		return fmt.Errorf("querying sqlite_master: %w", err)
	}

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			rows.Close()
			return fmt.Errorf("scanning table name: %w", err)
		}
		if knownTable(tableName) {
			tables = append(tables, tableName)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating tables: %w", err)
	}

	dbDump := make(map[string][]map[string]interface{})
	for _, tableName := range tables {
		tableData, err := s.dumpTable(ctx, tableName)
		if err != nil {
			return err
		}
		dbDump[tableName] = tableData
	}

	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(dbDump); err != nil {
		return fmt.Errorf("encoding TOML: %w", err)
	}

	// Make the output path absolute relative to the current directory.
	outputPath, err = filepath.Abs(outputPath)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}

	return nil
}

func (s *Storage) dumpTable(ctx context.Context, tableName string) ([]map[string]interface{}, error) {
	// tableName comes from the Tables allow-list.
	tableRows, err := s.DB.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY rowid;", tableName))
	if err != nil {
		return nil, fmt.Errorf("querying table %s: %w", tableName, err)
	}
	defer tableRows.Close()

	cols, err := tableRows.Columns()
	if err != nil {
		return nil, fmt.Errorf("getting columns for table %s: %w", tableName, err)
	}

	tableData := []map[string]interface{}{}
	for tableRows.Next() {
		values := make([]interface{}, len(cols))
		valuePtrs := make([]interface{}, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := tableRows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("scanning row in table %s: %w", tableName, err)
		}

		rowMap := make(map[string]interface{})
		for i, col := range cols {
			val := values[i]
			if b, ok := val.([]byte); ok {
				rowMap[col] = string(b)
			} else if val != nil {
				rowMap[col] = val
			}
		}
		tableData = append(tableData, rowMap)
	}
	return tableData, tableRows.Err()
}

// DefaultDumpPath returns ~/.config/fitness-planner/db_dump.toml.
func DefaultDumpPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "fitness-planner")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "db_dump.toml"), nil
}

// ImportDump reads the TOML dump at filePath and rebuilds the database by
// deleting current rows from every dumped table and inserting the dumped rows.
// Plans that would be refused by SaveWorkoutPlan or SaveMealPlan abort the
// import and leave the database untouched.
func (s *Storage) ImportDump(ctx context.Context, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("Reading file %s: %w", filePath, err)
	}

	var dbDump map[string][]map[string]interface{}
	if _, err := toml.Decode(string(data), &dbDump); err != nil {
		return fmt.Errorf("Decoding TOML: %w", err)
	}

	for table := range dbDump {
		if !knownTable(table) {
			return fmt.Errorf("unknown table %q in dump", table)
		}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Disable foreign keys for the duration of the import.
	if _, err := tx.ExecContext(ctx, "PRAGMA foreign_keys = OFF;"); err != nil {
		return fmt.Errorf("Disabling foreign keys: %w", err)
	}

	// Parents first so the order is stable when foreign keys are enforced.
	for _, table := range Tables {
		rows, ok := dbDump[table]
		if !ok {
			continue
		}

		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s;", table)); err != nil {
			return fmt.Errorf("Clearing table %s: %w", table, err)
		}

		for _, row := range rows {
			columns := make([]string, 0, len(row))
			for col := range row {
				if !isColumnName(col) {
					return fmt.Errorf("invalid column %q in table %s", col, table)
				}
				columns = append(columns, col)
			}
			sort.Strings(columns)

			placeholders := make([]string, len(columns))
			values := make([]interface{}, len(columns))
			for i, col := range columns {
				placeholders[i] = "?"
				values[i] = row[col]
			}
			query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
				table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
			if _, err := tx.ExecContext(ctx, query, values...); err != nil {
				return fmt.Errorf("Inserting into table %s: %w", table, err)
			}
		}
	}

	if err := checkImportedPlans(ctx, tx); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		return fmt.Errorf("Re-enabling foreign keys: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Committing transaction: %w", err)
	}

	return nil
}

// checkImportedPlans holds dumped plans to the same rules as saved ones.
func checkImportedPlans(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx, `SELECT `+workoutColumns+` FROM workout_plans`)
	if err != nil {
		return fmt.Errorf("Reading imported workout plans: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		plan, err := scanWorkoutPlan(rows)
		if err != nil {
			return fmt.Errorf("Decoding imported workout plan: %w", err)
		}
		if err := validation.CheckWorkoutPlan(plan); err != nil {
			return fmt.Errorf("invalid workout plan %s in dump: %w", plan.ID, err)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	mealRows, err := tx.QueryContext(ctx, `SELECT `+mealColumns+` FROM meal_plans`)
	if err != nil {
		return fmt.Errorf("Reading imported meal plans: %w", err)
	}
	defer mealRows.Close()
	for mealRows.Next() {
		plan, err := scanMealPlan(mealRows)
		if err != nil {
			return fmt.Errorf("Decoding imported meal plan: %w", err)
		}
		if err := validation.CheckMealPlan(plan); err != nil {
			return fmt.Errorf("invalid meal plan %s in dump: %w", plan.ID, err)
		}
	}
	return mealRows.Err()
}

func isColumnName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && r != '_' {
			return false
		}
	}
	return true
}

package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "loaded_at").
		From("fact_datasets").
		Where(IsNull("superseded_at"), Eq("fact_count", 3)).
		OrderBy("loaded_at DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, loaded_at FROM fact_datasets WHERE superseded_at IS NULL AND fact_count = $1 ORDER BY loaded_at DESC LIMIT 1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderRequiresTable(t *testing.T) {
	if _, _, err := Select("*").ToSQL(); err == nil {
		t.Fatalf("expected error for missing table")
	}
}

func TestInsertBuilderMultiRow(t *testing.T) {
	query, args, err := InsertInto("player_match_facts").
		Columns("player_key", "season").
		Values("id:1", 2024).
		Values("id:2", 2023).
		Suffix("ON CONFLICT DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO player_match_facts (player_key, season) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "id:2" || args[3] != 2023 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderRowWidth(t *testing.T) {
	_, _, err := InsertInto("t").Columns("a", "b").Values(1).ToSQL()
	if err == nil {
		t.Fatalf("expected error for short row")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("fact_datasets").
		SetExpr("superseded_at", "NOW()").
		Set("fact_count", 0).
		Where(IsNull("superseded_at"), Expr("id <> ?", "d1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE fact_datasets SET superseded_at = NOW(), fact_count = $1 WHERE superseded_at IS NULL AND id <> $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 0 || args[1] != "d1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

type testRow struct {
	Key     string   `db:"player_key"`
	Season  int      `db:"season,omitempty"`
	Ignored string   `db:"-"`
	Price   *float64 `db:"current_price"`
	hidden  string
}

func TestInsertModels(t *testing.T) {
	price := 731200.0
	rows := []testRow{
		{Key: "id:1", Season: 2024, Price: &price},
		{Key: "name:tom|carlton", Season: 2024, hidden: "x"},
	}

	query, args, err := InsertModels("player_match_facts", rows, "")
	if err != nil {
		t.Fatalf("build insert models query: %v", err)
	}

	wantQuery := "INSERT INTO player_match_facts (player_key, season, current_price) VALUES ($1, $2, $3), ($4, $5, $6)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 {
		t.Fatalf("unexpected args: %+v", args)
	}
	if p, ok := args[5].(*float64); !ok || p != nil {
		t.Fatalf("expected nil price pointer, got %#v", args[5])
	}
}

func TestInsertModelsEmpty(t *testing.T) {
	if _, _, err := InsertModels[testRow]("t", nil, ""); err == nil {
		t.Fatalf("expected error for empty models")
	}
}

func TestColumns(t *testing.T) {
	cols, err := Columns(&testRow{})
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	if len(cols) != 3 || cols[0] != "player_key" || cols[2] != "current_price" {
		t.Fatalf("unexpected columns: %v", cols)
	}
}

package sqlite

// Schema DDL. The database is rebuilt from bakes.jsonl on every Attach.
const (
	createBakes = `CREATE TABLE IF NOT EXISTS bakes (
    bake_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    args TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	idxBakesUpdated = `CREATE INDEX IF NOT EXISTS idx_bakes_updated ON bakes(updated_at);`
)

var schemaStatements = []string{
	createBakes,
	idxBakesUpdated,
}

// timeLayout sorts lexically in time order for UTC values.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const (
	dbFileName    = "halfbaked.db"
	bakesJSONL    = "bakes.jsonl"
	jsonlTempGlob = ".jsonl-*.tmp"
)

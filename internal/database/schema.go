package database

const (
	// SchemaVersion is bumped whenever the DDL below changes.
	SchemaVersion = 2

	// UntitledTitle marks a poem without a title; listings sort it last.
	UntitledTitle = "无题"

	// UnknownAuthor is stored when the source record has no author.
	UnknownAuthor = "佚名"

	fullTextTable = "poems_fts"
)

// CreateTablesSQL contains all table creation statements
var CreateTablesSQL = []string{
	`CREATE TABLE IF NOT EXISTS poems (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		dynasty TEXT NOT NULL,
		content TEXT NOT NULL,
		paragraphs TEXT NOT NULL,
		tags TEXT,
		pinyin TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// CreateIndexesSQL contains all index creation statements
var CreateIndexesSQL = []string{
	`CREATE INDEX IF NOT EXISTS idx_author ON poems(author)`,
	`CREATE INDEX IF NOT EXISTS idx_dynasty ON poems(dynasty)`,
	`CREATE INDEX IF NOT EXISTS idx_title ON poems(title)`,
}

// fullTextModule is one way of building the external-content index over poems.
type fullTextModule struct {
	Name string
	DDL  string
}

// fullTextModules are tried in order; the first one the SQLite build
// supports wins. FTS5 needs the sqlite_fts5 build tag with mattn/go-sqlite3,
// FTS4 is always compiled in.
var fullTextModules = []fullTextModule{
	{
		Name: "fts5",
		DDL: `CREATE VIRTUAL TABLE IF NOT EXISTS poems_fts USING fts5(
			title, author, content,
			content='poems', content_rowid='id'
		)`,
	},
	{
		Name: "fts4",
		DDL: `CREATE VIRTUAL TABLE IF NOT EXISTS poems_fts USING fts4(
			content="poems", title, author, content
		)`,
	},
}

const (
	metaSchemaVersion = "schema_version"
	metaFullTextKind  = "fts_module"
	metaFullTextBuilt = "fts_rebuilt_at"
)

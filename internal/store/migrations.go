package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	project_id  TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'to-do',
	priority    TEXT NOT NULL DEFAULT '',
	assignee    TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id);

CREATE TABLE IF NOT EXISTS github_integrations (
	id               TEXT PRIMARY KEY,
	project_id       TEXT NOT NULL UNIQUE,
	repository_owner TEXT NOT NULL,
	repository_name  TEXT NOT NULL,
	connection_type  TEXT NOT NULL CHECK(connection_type IN ('pat', 'github_app')),
	encrypted_pat    TEXT,
	installation_id  INTEGER,
	is_active        INTEGER NOT NULL DEFAULT 1 CHECK(is_active IN (0, 1)),
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS issue_links (
	id           TEXT PRIMARY KEY,
	task_id      TEXT NOT NULL UNIQUE REFERENCES tasks(id) ON DELETE CASCADE,
	issue_url    TEXT NOT NULL,
	issue_number INTEGER NOT NULL CHECK(issue_number > 0),
	direction    TEXT NOT NULL CHECK(direction IN ('exported', 'imported')),
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

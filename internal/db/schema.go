package db

// SchemaSQL is the complete schema for fresh installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository tests
// load it through GetSchemaSQL() instead of declaring their own tables, so a
// column referenced by a repository but missing here fails immediately with
// "no such column".
//
// When adding columns or tables:
//  1. Append a migration in migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL,
	email TEXT,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS workspaces (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	created_by TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (created_by) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS workspace_members (
	workspace_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	role TEXT NOT NULL CHECK(role IN ('owner', 'member')) DEFAULT 'member',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (workspace_id, user_id),
	FOREIGN KEY (workspace_id) REFERENCES workspaces(id) ON DELETE CASCADE,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS boards (
	id TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL,
	name TEXT NOT NULL,
	key TEXT NOT NULL,
	description TEXT,
	task_counter INTEGER NOT NULL DEFAULT 0,
	created_by TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	UNIQUE(workspace_id, key),
	FOREIGN KEY (workspace_id) REFERENCES workspaces(id) ON DELETE CASCADE,
	FOREIGN KEY (created_by) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS board_members (
	board_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	role TEXT NOT NULL CHECK(role IN ('admin', 'maintainer', 'collaborator', 'guest')),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (board_id, user_id),
	FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS states (
	id TEXT PRIMARY KEY,
	board_id TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT,
	category TEXT NOT NULL CHECK(category IN ('open', 'active', 'completed')) DEFAULT 'open',
	sequence REAL NOT NULL,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_states_board_sequence ON states(board_id, sequence);

CREATE TABLE IF NOT EXISTS priorities (
	id TEXT PRIMARY KEY,
	board_id TEXT NOT NULL,
	name TEXT NOT NULL,
	position INTEGER NOT NULL,
	FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS estimates (
	id TEXT PRIMARY KEY,
	board_id TEXT NOT NULL,
	key INTEGER NOT NULL,
	value TEXT NOT NULL,
	FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS labels (
	id TEXT PRIMARY KEY,
	board_id TEXT NOT NULL,
	name TEXT NOT NULL,
	color TEXT,
	UNIQUE(board_id, name),
	FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS sprints (
	id TEXT PRIMARY KEY,
	board_id TEXT NOT NULL,
	name TEXT NOT NULL,
	goal TEXT,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	archived_at DATETIME,
	FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	board_id TEXT NOT NULL,
	parent_id TEXT,
	state_id TEXT NOT NULL,
	priority_id TEXT,
	assignee_id TEXT,
	sprint_id TEXT,
	estimate_id TEXT,
	task_type TEXT NOT NULL CHECK(task_type IN ('task', 'bug', 'story', 'epic')) DEFAULT 'task',
	number INTEGER NOT NULL,
	name TEXT NOT NULL,
	summary TEXT NOT NULL,
	description TEXT,
	sequence REAL NOT NULL,
	created_by TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	archived_at DATETIME,
	UNIQUE(board_id, number),
	FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE,
	FOREIGN KEY (parent_id) REFERENCES tasks(id) ON DELETE CASCADE,
	FOREIGN KEY (state_id) REFERENCES states(id),
	FOREIGN KEY (priority_id) REFERENCES priorities(id) ON DELETE SET NULL,
	FOREIGN KEY (assignee_id) REFERENCES users(id) ON DELETE SET NULL,
	FOREIGN KEY (sprint_id) REFERENCES sprints(id) ON DELETE SET NULL,
	FOREIGN KEY (estimate_id) REFERENCES estimates(id) ON DELETE SET NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_state_sequence ON tasks(state_id, sequence);
CREATE INDEX IF NOT EXISTS idx_tasks_board ON tasks(board_id);

CREATE TABLE IF NOT EXISTS task_labels (
	task_id TEXT NOT NULL,
	label_id TEXT NOT NULL,
	PRIMARY KEY (task_id, label_id),
	FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
	FOREIGN KEY (label_id) REFERENCES labels(id) ON DELETE CASCADE
);

-- One row per task per calendar day; only today's row is ever rewritten.
CREATE TABLE IF NOT EXISTS task_snapshots (
	id TEXT PRIMARY KEY,
	task_id TEXT NOT NULL,
	date TEXT NOT NULL,
	state_id TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(task_id, date),
	FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
	FOREIGN KEY (state_id) REFERENCES states(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS task_comments (
	id TEXT PRIMARY KEY,
	task_id TEXT NOT NULL,
	author_id TEXT,
	content TEXT NOT NULL,
	comment_type TEXT NOT NULL CHECK(comment_type IN ('update', 'activity')),
	created_at DATETIME NOT NULL,
	FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
	FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE SET NULL
);
CREATE INDEX IF NOT EXISTS idx_task_comments_task ON task_comments(task_id, created_at);
`

// GetSchemaSQL returns the authoritative schema.
func GetSchemaSQL() string {
	return SchemaSQL
}

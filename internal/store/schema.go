package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS nodes (
    node_id              TEXT PRIMARY KEY,
    ordinal              INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    title                TEXT NOT NULL,
    department           TEXT NOT NULL,
    reports_to           TEXT,
    is_admin             INTEGER NOT NULL DEFAULT 0,
    pos_x                REAL NOT NULL DEFAULT 0,
    pos_y                REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS node_children (
    parent_id            TEXT NOT NULL REFERENCES nodes(node_id) ON DELETE CASCADE,
    child_id             TEXT NOT NULL REFERENCES nodes(node_id) ON DELETE CASCADE,
    ordinal              INTEGER NOT NULL,
    PRIMARY KEY (parent_id, child_id)
);

CREATE TABLE IF NOT EXISTS meta (
    key                  TEXT PRIMARY KEY,
    value                TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nodes_ordinal ON nodes(ordinal);
CREATE INDEX IF NOT EXISTS idx_children_parent ON node_children(parent_id, ordinal);
`

package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS slots (
    name                 TEXT PRIMARY KEY,
    value                TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS blobs (
    ref                  TEXT PRIMARY KEY,
    data                 BLOB NOT NULL,
    size_bytes           INTEGER NOT NULL,
    created_at           TEXT NOT NULL
);
`

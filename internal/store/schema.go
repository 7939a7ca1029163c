package store

const schema = `
CREATE TABLE IF NOT EXISTS installed_mods (
    mod_id TEXT NOT NULL,
    game_variant TEXT NOT NULL,
    UNIQUE (mod_id, game_variant)
);

CREATE TABLE IF NOT EXISTS installed_soundpacks (
    soundpack_id TEXT NOT NULL,
    game_variant TEXT NOT NULL,
    UNIQUE (soundpack_id, game_variant)
);

CREATE TABLE IF NOT EXISTS installed_tilesets (
    tileset_id TEXT NOT NULL,
    game_variant TEXT NOT NULL,
    UNIQUE (tileset_id, game_variant)
);

CREATE TABLE IF NOT EXISTS settings (
    _id INTEGER PRIMARY KEY CHECK (_id = 1),
    font_path TEXT
);

CREATE TABLE IF NOT EXISTS color_settings (
    _id INTEGER PRIMARY KEY CHECK (_id = 1),
    theme_path TEXT
);

CREATE INDEX IF NOT EXISTS idx_installed_mods_variant ON installed_mods(game_variant);
CREATE INDEX IF NOT EXISTS idx_installed_soundpacks_variant ON installed_soundpacks(game_variant);
CREATE INDEX IF NOT EXISTS idx_installed_tilesets_variant ON installed_tilesets(game_variant);
`

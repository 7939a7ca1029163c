// Package components stores which mods, soundpacks, and tilesets are
// installed for each game variant.
//
// The three kinds share one Repository implementation; a Kind descriptor
// supplies the table and id column. Every mutating call is a single SQL
// statement run through the store's execution bridge, so concurrent writers
// serialize on SQLite's own lock rather than on an application mutex.
package components

// Kind describes one installed-component table.
type Kind struct {
	Name     string // singular, used in errors and logs
	Plural   string
	Table    string
	IDColumn string
}

var (
	Mods       = Kind{Name: "mod", Plural: "mods", Table: "installed_mods", IDColumn: "mod_id"}
	Soundpacks = Kind{Name: "soundpack", Plural: "soundpacks", Table: "installed_soundpacks", IDColumn: "soundpack_id"}
	Tilesets   = Kind{Name: "tileset", Plural: "tilesets", Table: "installed_tilesets", IDColumn: "tileset_id"}
)

// Kinds returns the component kinds in reset order.
func Kinds() []Kind {
	return []Kind{Mods, Soundpacks, Tilesets}
}

func (k Kind) String() string {
	return k.Name
}

package tui

// tab identifies which collection is shown.
type tab int

const (
	tabSettings tab = iota
	tabEngines
)

// String returns the tab title.
func (t tab) String() string {
	if t == tabEngines {
		return "Engines"
	}
	return "Settings"
}

// row is one displayed record.
type row struct {
	key   string
	value string
}

// rowsLoaded carries a reloaded collection back to the model.
type rowsLoaded struct {
	tab  tab
	rows []row
	err  error
}

// rowDeleted reports the outcome of a delete.
type rowDeleted struct {
	tab tab
	key string
	err error
}

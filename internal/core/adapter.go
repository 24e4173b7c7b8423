package core

import "gameframework/pkg/domain"

// DataAdapter returns the adapter in use, constructing and caching the
// default adapter on first access.
func (db *Database) DataAdapter() domain.DataAdapter {
	if db.adapter == nil {
		db.adapter = db.defaultAdapter(db.name)
		db.logger.Debug("default data adapter created", "database", db.name, "adapter", adapterName(db.adapter))
	}
	return db.adapter
}

// SetDataAdapter replaces the adapter immediately. Passing nil restores the
// lazy default on next access. Records are not touched.
func (db *Database) SetDataAdapter(adapter domain.DataAdapter) {
	db.adapter = adapter
}

func adapterName(adapter domain.DataAdapter) string {
	if named, ok := adapter.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "custom"
}

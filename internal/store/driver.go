package store

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// dialectors maps supported driver names to their GORM dialector constructors.
var dialectors = map[string]func(dsn string) gorm.Dialector{
	"sqlite":   sqlite.Open,
	"postgres": postgres.Open,
}

// GetDialector returns the GORM dialector for a configured driver name.
func GetDialector(driver, dsn string) (gorm.Dialector, error) {
	open, ok := dialectors[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return open(dsn), nil
}

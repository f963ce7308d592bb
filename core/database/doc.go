// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure the connection from the
// application's configuration. MySQL is the production driver; sqlite is
// supported for single-file local deployments and tests.
//
// # Connect
//
// Connect establishes a connection based on Config.Driver. The returned
// *gorm.DB is threaded explicitly into every operation that touches storage;
// no package holds an ambient connection.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table on either dialect. The health
// feature uses it to verify the patients/payments schema after migration.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database

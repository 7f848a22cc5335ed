// Package testdb provides helpers for tests that run against a real
// Postgres database.
//
// Tests call Open, which skips the test unless a database URL is configured,
// connects, and applies the embedded migrations. Each test then runs its
// statements inside WithTx, whose transaction is always rolled back, so tests
// never see each other's rows and leave no data behind.
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.Open(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        s := postgres.NewPostgresTaskStore(tx)
//	        // ...
//	    })
//	}
package testdb

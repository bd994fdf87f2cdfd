// Package store implements the entity.Repository port over SQL.
//
// SQLite (modernc.org/sqlite) is the default backend; PostgreSQL (lib/pq) is
// selected with database.driver = "postgres". Queries are built with
// go-sqlbuilder in the backend's flavor and executed through sqlx. The schema
// is owned by embedded golang-migrate migrations and applied on Open.
//
// The bookings table exists so that a club with dependent records cannot be
// deleted: its foreign key is declared ON DELETE RESTRICT and the resulting
// constraint error surfaces as entity.ErrReferentialIntegrity.
package store

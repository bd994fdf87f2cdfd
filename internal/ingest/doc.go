// Package ingest imports scraped club listings from CSV. Rows that resolve
// to an existing club are reported and left alone; the rest are created as
// pending records for review.
package ingest

// Package mockdb implements the store interfaces on top of the in-memory
// query engine in pkg/mockdb.
//
// Every method builds one query per table through a mockdb.Client, the
// same way the Postgres-backed stores issue SQL. Data lives only as long as
// the process.
package mockdb

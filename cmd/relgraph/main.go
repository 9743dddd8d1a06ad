// Command relgraph serves a relational schema as GraphQL from the command
// line: it renders the schema document, checks it against a database and
// runs queries and mutations.
package main

import (
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

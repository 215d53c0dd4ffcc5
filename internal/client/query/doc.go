// Package query builds PostgREST-style requests for a single table and sends
// them through the gateway.
//
// A Builder is an immutable value: every chained call (Select, Eq, Order,
// Limit, ...) returns a new Builder and leaves the receiver untouched, so a
// partially built query can be stored and reused as a base for any number
// of unrelated queries:
//
//	top := query.From[models.RankingEntry](gw, "rankings").Select("*").Order("score", false)
//	best, err := top.Limit(10).Execute(ctx)
//	mine, err := top.Eq("player_name", "Ann").Execute(ctx)
//
// Reads compile to
//
//	/rest/v1/{table}?select=<cols>&<col>=<op>.<value>&...&order=<col>.<asc|desc>,...&limit=<n>&offset=<n>
//
// with filters and orders in the order they were added. Limit and Offset are
// single-valued: the last call wins.
package query

package api

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dmapi/internal/domain"
)

// InstallVersionOrdering forces every query against the download-versions
// table to order by creation date descending, replacing whatever ordering the
// query asked for. This mirrors the host's global ordering override for that
// entity type: listings always show the newest version first, no matter who
// queries. Aggregate queries are left alone: PostgreSQL rejects ORDER BY on
// an unselected column in a count.
func InstallVersionOrdering(db *gorm.DB) error {
	versionTable := domain.Version{}.TableName()

	return db.Callback().Query().Before("gorm:query").Register("dmr:version_orderby", func(tx *gorm.DB) {
		if tx.Statement.Table != versionTable || isAggregateSelect(tx.Statement) {
			return
		}

		delete(tx.Statement.Clauses, "ORDER BY")
		tx.Statement.AddClause(clause.OrderBy{
			Columns: []clause.OrderByColumn{
				{Column: clause.Column{Name: "created_at"}, Desc: true},
			},
		})
	})
}

// isAggregateSelect reports whether the statement selects a count expression,
// as gorm's Count finisher builds.
func isAggregateSelect(stmt *gorm.Statement) bool {
	c, ok := stmt.Clauses["SELECT"]
	if !ok {
		return false
	}
	sel, ok := c.Expression.(clause.Select)
	if !ok {
		return false
	}
	expr, ok := sel.Expression.(clause.Expr)
	return ok && strings.Contains(strings.ToLower(expr.SQL), "count(")
}

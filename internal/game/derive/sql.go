package derive

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// ExistsSQL lowers an existence or status accessor into a single scalar
// query: SELECT EXISTS (SELECT 1 ...). The returned query answers for the
// root row identified by rootID.
func ExistsSQL(spec Spec, rootID string) (string, []any, error) {
	if spec.Kind != KindExistence && spec.Kind != KindStatus {
		return "", nil, fmt.Errorf("derive: %s is not a boolean accessor", spec.Name)
	}

	inner, err := pathQuery(spec, rootID, "1")
	if err != nil {
		return "", nil, err
	}
	innerSQL, args, err := inner.ToSql()
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("SELECT EXISTS (%s)", innerSQL), args, nil
}

// CountSQL lowers a count accessor into a scalar COUNT(*) query.
func CountSQL(spec Spec, rootID string) (string, []any, error) {
	if spec.Kind != KindCount {
		return "", nil, fmt.Errorf("derive: %s is not a count accessor", spec.Name)
	}
	if len(spec.Path) == 0 {
		return "", nil, fmt.Errorf("derive: %s counts nothing", spec.Name)
	}

	query, err := pathQuery(spec, rootID, "COUNT(*)")
	if err != nil {
		return "", nil, err
	}
	return query.ToSql()
}

// NavigateSQL lowers a navigation accessor into a query returning the
// target entity's id, or no rows when nothing matches. The ordering must
// break ties the same way the in-memory interpreter does: relationship
// order along the whole hop path wins, not just the terminal table's
// columns.
func NavigateSQL(spec Spec, rootID string) (string, []any, error) {
	if spec.Kind != KindNavigation {
		return "", nil, fmt.Errorf("derive: %s is not a navigation accessor", spec.Name)
	}
	if len(spec.Path) == 0 {
		return "", nil, fmt.Errorf("derive: %s navigates nowhere", spec.Name)
	}

	terminal := terminalEntity(spec)
	info, ok := entities[terminal]
	if !ok {
		return "", nil, fmt.Errorf("derive: unknown entity %q", terminal)
	}

	query, err := pathQuery(spec, rootID, info.table+".id")
	if err != nil {
		return "", nil, err
	}

	switch spec.Select {
	case SelectFlagFirst:
		cols, err := pathOrderColumns(spec, "")
		if err != nil {
			return "", nil, err
		}
		query = query.OrderBy(cols...)
	case SelectLatestCreated:
		// Latest wins; ties keep the first in relationship order.
		query = query.OrderBy(fmt.Sprintf("%s.created_at DESC", info.table))
		cols, err := pathOrderColumns(spec, "created_at")
		if err != nil {
			return "", nil, err
		}
		query = query.OrderBy(cols...)
	case SelectFirstSequence:
		if info.sequence == nil {
			return "", nil, fmt.Errorf("derive: %s has no sequence", terminal)
		}
		query = query.OrderBy(fmt.Sprintf("%s.sequence ASC", info.table))
		cols, err := pathOrderColumns(spec, "sequence")
		if err != nil {
			return "", nil, err
		}
		query = query.OrderBy(cols...)
	default:
		return "", nil, fmt.Errorf("derive: %s has no selection rule", spec.Name)
	}

	return query.Limit(1).ToSql()
}

// pathOrderColumns lists the relationship-order columns for every hop in
// the spec's path, table-qualified and ascending. The in-memory
// interpreter visits terminal nodes grouped by their ancestors, so the
// SQL ordering has to sort intermediate hops before the terminal table.
// skipTerminal names a terminal column the caller already ordered by.
func pathOrderColumns(spec Spec, skipTerminal string) ([]string, error) {
	var cols []string
	last := len(spec.Path) - 1
	for i, hop := range spec.Path {
		hopInfo, ok := entities[hop.Entity]
		if !ok {
			return nil, fmt.Errorf("derive: unknown entity %q", hop.Entity)
		}
		for _, col := range hopInfo.orderBy {
			if i == last && col == skipTerminal {
				continue
			}
			cols = append(cols, fmt.Sprintf("%s.%s ASC", hopInfo.table, col))
		}
	}
	return cols, nil
}

// pathQuery builds the correlated join chain for a spec: the first hop is
// anchored to the root row by id, later hops join on the registered edge
// columns, and the filter applies to the terminal table.
func pathQuery(spec Spec, rootID string, selectExpr string) (sq.SelectBuilder, error) {
	rootInfo, ok := entities[spec.Root]
	if !ok {
		return sq.SelectBuilder{}, fmt.Errorf("derive: unknown entity %q", spec.Root)
	}

	// Zero-path status accessors predicate on the root row itself.
	if len(spec.Path) == 0 {
		query := sq.Select(selectExpr).
			From(rootInfo.table).
			Where(sq.Eq{rootInfo.table + ".id": rootID})
		return applyFilter(query, spec, rootInfo.table)
	}

	from := spec.Root
	fromInfo := rootInfo
	var query sq.SelectBuilder
	for i, hop := range spec.Path {
		rel, ok := relations[relKey{from, hop.Entity}]
		if !ok {
			return sq.SelectBuilder{}, fmt.Errorf("derive: no relation from %s to %s", from, hop.Entity)
		}
		hopInfo, ok := entities[hop.Entity]
		if !ok {
			return sq.SelectBuilder{}, fmt.Errorf("derive: unknown entity %q", hop.Entity)
		}

		if i == 0 {
			query = sq.Select(selectExpr).From(hopInfo.table)
			if rel.parentColumn == "id" {
				query = query.Where(sq.Eq{hopInfo.table + "." + rel.joinColumn: rootID})
			} else {
				// Lookup edge: the FK lives on the root row.
				query = query.Where(sq.Expr(
					fmt.Sprintf("%s.%s = (SELECT %s FROM %s WHERE id = ?)",
						hopInfo.table, rel.joinColumn, rel.parentColumn, fromInfo.table),
					rootID,
				))
			}
		} else {
			query = query.Join(fmt.Sprintf("%s ON %s.%s = %s.%s",
				hopInfo.table, hopInfo.table, rel.joinColumn, fromInfo.table, rel.parentColumn))
		}

		from = hop.Entity
		fromInfo = hopInfo
	}

	return applyFilter(query, spec, fromInfo.table)
}

func applyFilter(query sq.SelectBuilder, spec Spec, table string) (sq.SelectBuilder, error) {
	if spec.Filter == nil {
		return query, nil
	}

	col := table + "." + spec.Filter.Field
	switch spec.Filter.Op {
	case OpEq:
		return query.Where(sq.Eq{col: spec.Filter.Value}), nil
	case OpNe:
		return query.Where(sq.NotEq{col: spec.Filter.Value}), nil
	case OpNotNull:
		return query.Where(sq.NotEq{col: nil}), nil
	default:
		return sq.SelectBuilder{}, fmt.Errorf("derive: unsupported operator for %q", spec.Filter.Field)
	}
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Masterminds/squirrel"
	"github.com/brandedliving/backoffice/pkg/datatable"
)

const likeEscape = `\`

// escapeLike escapes LIKE wildcards in a literal.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// foldsFromWide holds the ASCII letters that some non-ASCII rune lowers to,
// such as 'k' for the Kelvin sign.
var foldsFromWide = func() map[rune]bool {
	out := make(map[rune]bool)
	for r := rune(utf8.RuneSelf); r <= unicode.MaxRune; r++ {
		if l := unicode.ToLower(r); l < utf8.RuneSelf {
			out[l] = true
		}
	}
	return out
}()

// likeLiteral renders one lower-cased rune of a query as a LIKE token.
// LOWER and LIKE only fold ASCII in SQLite, so runes that are not plain
// ASCII on both sides become the single-character wildcard and the exact
// pass decides.
func likeLiteral(r rune) string {
	if r >= utf8.RuneSelf || foldsFromWide[r] {
		return "_"
	}
	return escapeLike(string(r))
}

// subsequencePattern turns "act" into "%a%c%t%". Every fuzzy match is also a
// subsequence match, so the pattern narrows candidates before the exact pass.
func subsequencePattern(q string) string {
	var sb strings.Builder
	sb.WriteByte('%')
	for _, r := range strings.ToLower(q) {
		sb.WriteString(likeLiteral(r))
		sb.WriteByte('%')
	}
	return sb.String()
}

// substringPattern matches q anywhere, with the same folding as
// subsequencePattern.
func substringPattern(q string) string {
	var sb strings.Builder
	sb.WriteByte('%')
	for _, r := range strings.ToLower(q) {
		sb.WriteString(likeLiteral(r))
	}
	sb.WriteByte('%')
	return sb.String()
}

func likeExpr(expr, pattern string) squirrel.Sqlizer {
	return squirrel.Expr("LOWER("+expr+") LIKE ? ESCAPE '"+likeEscape+"'", pattern)
}

// where builds the facet and free-text conditions of a page request.
func (d *tableDef) where(req datatable.PageRequest) squirrel.And {
	var and squirrel.And

	columns := make([]string, 0, len(req.Facets))
	for col := range req.Facets {
		columns = append(columns, col)
	}
	slices.Sort(columns)
	for _, col := range columns {
		values := req.Facets.Selected(col)
		expr, ok := d.facets[col]
		if !ok || len(values) == 0 {
			continue
		}
		and = append(and, squirrel.Eq{expr: values})
	}

	if q := strings.TrimSpace(req.Query); q != "" {
		or := squirrel.Or{likeExpr(d.idExpr(), substringPattern(req.Query))}
		pattern := subsequencePattern(q)
		for _, expr := range d.search {
			or = append(or, likeExpr(expr, pattern))
		}
		and = append(and, or)
	}
	return and
}

func (d *tableDef) orderBy(sort datatable.SortState) []string {
	out := make([]string, 0, len(sort)+len(d.order))
	for _, key := range sort.Normalize() {
		expr, ok := d.sortable[key.Column]
		if !ok {
			continue
		}
		dir := "ASC"
		if key.Desc {
			dir = "DESC"
		}
		out = append(out, expr+" "+dir)
	}
	return append(out, d.order...)
}

func (d *tableDef) selectFrom(b squirrel.StatementBuilderType, columns ...string) squirrel.SelectBuilder {
	q := b.Select(columns...).From(d.table + " " + d.alias)
	for _, j := range d.joins {
		q = q.JoinClause(j)
	}
	return q
}

func (s *Store) count(ctx context.Context, d *tableDef, where squirrel.And) (int, error) {
	q := d.selectFrom(s.builder, "COUNT(*)")
	if len(where) > 0 {
		q = q.Where(where)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", d.screen, err)
	}
	return n, nil
}

func queryAll[R any](ctx context.Context, db *sql.DB, q squirrel.SelectBuilder, scan func(scanner) (R, error)) ([]R, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]R, 0)
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// timeValue scans timestamps stored natively or as text.
type timeValue struct {
	Time time.Time
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (t *timeValue) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into a timestamp", src)
	}
}

func (t *timeValue) parse(s string) error {
	// modernc appends the monotonic clock reading when formatting time.Time
	if i := strings.Index(s, " m="); i >= 0 {
		s = s[:i]
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			t.Time = ts
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

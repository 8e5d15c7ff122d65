package querysql

import (
	"strings"

	"github.com/xwb1989/sqlparser"
)

// span is a byte range of the statement text and the identifier parts it
// holds.
type span struct {
	start, end int
	parts      []string
}

// quoteDottedTables rewrites every FROM name of three or more dotted parts,
// such as data.people.csv, into one back-quoted identifier. The parser only
// accepts qualifier.name, so longer names would otherwise be syntax errors.
// Names of one or two parts and already quoted names are left alone. sql
// is returned unchanged when it does not tokenize cleanly; the parser then
// reports the error.
func quoteDottedTables(sql string) string {
	spans := dottedTableSpans(sql)
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		sql = sql[:s.start] + "`" + strings.Join(s.parts, ".") + "`" + sql[s.end:]
	}
	return sql
}

func dottedTableSpans(sql string) []span {
	tkn := sqlparser.NewStringTokenizer(sql)

	// next returns the token and its end offset. Position is one past the
	// offset of the lookahead character, which is the first byte after the
	// token.
	next := func() (int, []byte, int) {
		typ, val := tkn.Scan()
		return typ, val, tkn.Position - 1
	}

	var spans []span
	typ, _, _ := next()
	for typ != 0 && typ != sqlparser.LEX_ERROR {
		if typ != sqlparser.FROM {
			typ, _, _ = next()
			continue
		}

		var (
			cur   span
			start = -1
			val   []byte
			end   int
		)
		typ, val, end = next()
		for {
			part, ok := bareIdentifier(sql, typ, val, end)
			if !ok {
				break
			}
			if start < 0 {
				start = end - len(part)
			}
			cur.parts = append(cur.parts, part)
			cur.end = end

			typ, val, end = next()
			if typ != '.' {
				break
			}
			typ, val, end = next()
		}
		if len(cur.parts) >= 3 {
			cur.start = start
			spans = append(spans, cur)
		}
	}
	return spans
}

// bareIdentifier returns the source text of an unquoted identifier or
// keyword token ending at end.
func bareIdentifier(sql string, typ int, val []byte, end int) (string, bool) {
	if typ == 0 || typ == sqlparser.LEX_ERROR || len(val) == 0 {
		return "", false
	}
	start := end - len(val)
	if start < 0 || end > len(sql) {
		return "", false
	}
	text := sql[start:end]
	if !strings.EqualFold(text, string(val)) || !isIdentStart(text[0]) {
		return "", false
	}
	return text, true
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

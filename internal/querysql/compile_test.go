package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relq/internal/queryir"
	"github.com/roach88/relq/internal/value"
)

func TestCompile_SimpleSelect(t *testing.T) {
	stmt, err := Compile("SELECT name FROM people WHERE age > 18")
	require.NoError(t, err)

	assert.Equal(t, queryir.Select{
		From: queryir.Table{Parts: []string{"people"}},
		Filter: queryir.Binary{
			Op:    queryir.OpGreater,
			Left:  queryir.Column{Name: "age"},
			Right: queryir.Literal{Value: value.Integer(18)},
		},
		Targets: []queryir.Target{queryir.ColumnTarget{Source: "name"}},
	}, stmt)
}

func TestCompile_Wildcard(t *testing.T) {
	stmt, err := Compile("SELECT * FROM people")
	require.NoError(t, err)

	assert.Nil(t, stmt.Filter)
	assert.Equal(t, []queryir.Target{queryir.Wildcard{}}, stmt.Targets)
}

func TestCompile_AliasesAndMixedTargets(t *testing.T) {
	stmt, err := Compile("SELECT name AS who, age years, * FROM people")
	require.NoError(t, err)

	assert.Equal(t, []queryir.Target{
		queryir.ColumnTarget{Source: "name", Alias: "who"},
		queryir.ColumnTarget{Source: "age", Alias: "years"},
		queryir.Wildcard{},
	}, stmt.Targets)
}

func TestCompile_TableNames(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		parts []string
		path  string
	}{
		{"bare", "SELECT * FROM people", []string{"people"}, "people"},
		{"dotted", "SELECT * FROM people.csv", []string{"people", "csv"}, "people.csv"},
		{"quoted path", "SELECT * FROM `fixtures/people.csv`", []string{"fixtures/people.csv"}, "fixtures/people.csv"},
		{"s3 url", "SELECT * FROM `s3://bucket/people.csv`", []string{"s3://bucket/people.csv"}, "s3://bucket/people.csv"},
		{"alias ignored", "SELECT * FROM people AS p", []string{"people"}, "people"},
		{"three parts", "SELECT * FROM data.people.csv", []string{"data.people.csv"}, "data.people.csv"},
		{"four parts keep case", "SELECT * FROM Archive.v2.People.csv WHERE a", []string{"Archive.v2.People.csv"}, "Archive.v2.People.csv"},
		{"keyword part", "SELECT * FROM a.b.select", []string{"a.b.select"}, "a.b.select"},
		{"spaced dots", "SELECT * FROM a . b . csv", []string{"a.b.csv"}, "a.b.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Compile(tt.sql)
			require.NoError(t, err)
			assert.Equal(t, tt.parts, stmt.From.Parts)
			assert.Equal(t, tt.path, stmt.From.Path())
		})
	}
}

func TestCompile_Literals(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want value.Value
	}{
		{"integer", "SELECT * FROM t WHERE 42", value.Integer(42)},
		{"negative integer", "SELECT * FROM t WHERE -7", value.Integer(-7)},
		{"string", "SELECT * FROM t WHERE 'Bob'", value.String("Bob")},
		{"empty string", "SELECT * FROM t WHERE ''", value.String("")},
		{"true", "SELECT * FROM t WHERE true", value.Boolean(true)},
		{"false", "SELECT * FROM t WHERE FALSE", value.Boolean(false)},
		{"max int64", "SELECT * FROM t WHERE 9223372036854775807", value.Integer(9223372036854775807)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Compile(tt.sql)
			require.NoError(t, err)
			assert.Equal(t, queryir.Literal{Value: tt.want}, stmt.Filter)
		})
	}
}

func TestCompile_BooleanStructure(t *testing.T) {
	stmt, err := Compile("SELECT * FROM t WHERE (age > 18 OR vip) AND active")
	require.NoError(t, err)

	assert.Equal(t, queryir.Binary{
		Op: queryir.OpAnd,
		Left: queryir.Binary{
			Op: queryir.OpOr,
			Left: queryir.Binary{
				Op:    queryir.OpGreater,
				Left:  queryir.Column{Name: "age"},
				Right: queryir.Literal{Value: value.Integer(18)},
			},
			Right: queryir.Column{Name: "vip"},
		},
		Right: queryir.Column{Name: "active"},
	}, stmt.Filter)
}

func TestCompile_PreservesIdentifierCase(t *testing.T) {
	stmt, err := Compile("SELECT Name AS Who FROM people WHERE Age > 1")
	require.NoError(t, err)

	assert.Equal(t, queryir.ColumnTarget{Source: "Name", Alias: "Who"}, stmt.Targets[0])
	assert.Equal(t, queryir.Column{Name: "Age"}, stmt.Filter.(queryir.Binary).Left)
}

func TestCompile_RoundTripsThroughFormat(t *testing.T) {
	stmt, err := Compile("select name, age as years, * from people.csv where age > 18")
	require.NoError(t, err)

	assert.Equal(t, `SELECT name, age AS years, * FROM "people.csv" WHERE (age > 18)`, stmt.String())
}

func TestCompile_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"join", "SELECT * FROM a JOIN b ON a.id = b.id"},
		{"comma join", "SELECT * FROM a, b"},
		{"subquery source", "SELECT * FROM (SELECT * FROM a) AS s"},
		{"expression target", "SELECT age + 1 FROM people"},
		{"function target", "SELECT COUNT(*) FROM people"},
		{"qualified column target", "SELECT p.name FROM people AS p"},
		{"qualified wildcard", "SELECT p.* FROM people AS p"},
		{"qualified column in filter", "SELECT * FROM people AS p WHERE p.age > 1"},
		{"equality", "SELECT * FROM people WHERE age = 18"},
		{"less than", "SELECT * FROM people WHERE age < 18"},
		{"not", "SELECT * FROM people WHERE NOT active"},
		{"null literal", "SELECT * FROM people WHERE age > NULL"},
		{"arithmetic in filter", "SELECT * FROM people WHERE age + 1 > 2"},
		{"distinct", "SELECT DISTINCT name FROM people"},
		{"group by", "SELECT name FROM people GROUP BY name"},
		{"order by", "SELECT name FROM people ORDER BY name"},
		{"limit", "SELECT name FROM people LIMIT 1"},
		{"union", "SELECT name FROM a UNION SELECT name FROM b"},
		{"insert", "INSERT INTO people (name) VALUES ('x')"},
		{"delete", "DELETE FROM people"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.sql)
			require.Error(t, err)
			assert.True(t, queryir.IsUnsupported(err), "expected UNSUPPORTED, got %v", err)
		})
	}
}

func TestCompile_BadLiteral(t *testing.T) {
	for _, sql := range []string{
		"SELECT * FROM t WHERE age > 9223372036854775808",
		"SELECT * FROM t WHERE age > 1.5",
	} {
		_, err := Compile(sql)
		require.Error(t, err, sql)
		assert.Equal(t, queryir.ErrCodeBadLiteral, queryir.CodeOf(err), sql)
	}
}

func TestCompile_ParseErrors(t *testing.T) {
	for _, sql := range []string{"", "   \n", "SELEC name FROM people", "SELECT name FROM"} {
		_, err := Compile(sql)
		require.Error(t, err, "%q", sql)
		assert.Equal(t, queryir.ErrCodeParse, queryir.CodeOf(err), "%q", sql)
	}

	_, err := Compile("")
	assert.ErrorIs(t, err, ErrEmptyStatement)
}

func TestQuoteDottedTables(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{"one part", "SELECT * FROM people", "SELECT * FROM people"},
		{"two parts", "SELECT * FROM people.csv", "SELECT * FROM people.csv"},
		{"three parts", "SELECT a FROM x.y.csv WHERE a > 1", "SELECT a FROM `x.y.csv` WHERE a > 1"},
		{"end of input", "select * from x.y.csv", "select * from `x.y.csv`"},
		{"quoted left alone", "SELECT * FROM `x.y.csv`", "SELECT * FROM `x.y.csv`"},
		{"string mentions from", "SELECT * FROM t WHERE 'from a.b.c'", "SELECT * FROM t WHERE 'from a.b.c'"},
		{"column names untouched", "SELECT a.b.c FROM t", "SELECT a.b.c FROM t"},
		{"join operand untouched", "SELECT * FROM a.b.c JOIN d.e", "SELECT * FROM `a.b.c` JOIN d.e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quoteDottedTables(tt.sql))
		})
	}
}

func TestCompile_DottedTableStillRejectsJoin(t *testing.T) {
	_, err := Compile("SELECT * FROM a.b.csv JOIN c.csv")
	require.Error(t, err)
	assert.True(t, queryir.IsUnsupported(err))
}

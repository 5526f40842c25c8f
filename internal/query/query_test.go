package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexerTokenizesKeywordsCaseInsensitively(t *testing.T) {
	tokens, err := NewLexer("create Project foo-bar WITH name 'Foo Bar'").Tokenize()
	require.NoError(t, err)
	want := []TokenType{TokenCreate, TokenProject, TokenIdent, TokenWith, TokenName, TokenString, TokenEOF}
	got := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		got[i] = tok.Type
	}
	assert.Equal(t, want, got)
	assert.Equal(t, "foo-bar", tokens[2].Value)
}

func TestLexerHyphenBeforeDigitsIsNegativeNumber(t *testing.T) {
	tokens, err := NewLexer("foo-123").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, TokenIdent, tokens[0].Type)
	assert.Equal(t, "foo", tokens[0].Value)
	assert.Equal(t, TokenInteger, tokens[1].Type)
	assert.Equal(t, "-123", tokens[1].Value)
}

func TestLexerNumberVariants(t *testing.T) {
	tokens, err := NewLexer("42 -7 3.14").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, TokenUnsignedInteger, tokens[0].Type)
	assert.Equal(t, TokenInteger, tokens[1].Type)
	assert.Equal(t, TokenFloat, tokens[2].Type)
}

func TestLexerStringEscapes(t *testing.T) {
	tokens, err := NewLexer(`'a\nb\tc\\d\'e'`).Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "a\nb\tc\\d'e", tokens[0].Value)
}

func TestLexerUnterminatedString(t *testing.T) {
	_, err := NewLexer("'abc").Tokenize()
	assert.Error(t, err)
}

func TestParseCreateProjectWithFields(t *testing.T) {
	stmt, err := Parse(`CREATE PROJECT backend WITH NAME 'Backend' OWNER alice`)
	require.NoError(t, err)
	assert.Equal(t, StmtCreate, stmt.Kind)
	assert.Equal(t, EntityProject, stmt.CreateEntity)
	assert.Equal(t, "backend", stmt.CreateID)
	require.Contains(t, stmt.Fields, "name")
	assert.Equal(t, "Backend", stmt.Fields["name"].Str)
	require.Contains(t, stmt.Fields, "owner")
	assert.Equal(t, "alice", stmt.Fields["owner"].Ident)
}

func TestParseCreateIssueRequiresTitle(t *testing.T) {
	_, err := Parse(`CREATE ISSUE OF KIND BUG IN backend WITH DESCRIPTION 'no title'`)
	require.Error(t, err)
	var missing *MissingClauseError
	assert.ErrorAs(t, err, &missing)
}

func TestParseCreateIssueWithAllFields(t *testing.T) {
	stmt, err := Parse(`CREATE ISSUE OF KIND BUG IN backend WITH TITLE 'boom' PRIORITY HIGH ASSIGNEE bob`)
	require.NoError(t, err)
	assert.Equal(t, EntityIssue, stmt.CreateEntity)
	assert.Equal(t, "Bug", stmt.IssueKind)
	assert.Equal(t, "backend", stmt.ProjectID)
	assert.Equal(t, "boom", stmt.Fields["title"].Str)
	assert.Equal(t, "High", stmt.Fields["priority"].Ident)
	assert.Equal(t, "bob", stmt.Fields["assignee"].Ident)
}

func TestParseSelectWithFilterOrderLimitOffset(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM issues WHERE title LIKE 'fix%' AND priority IN (HIGH, CRITICAL) ORDER BY title DESC LIMIT 10 OFFSET 2`)
	require.NoError(t, err)
	assert.Equal(t, StmtSelect, stmt.Kind)
	assert.Equal(t, EntityIssue, stmt.SelectEntity)
	assert.True(t, stmt.Columns.Wildcard)
	require.NotNil(t, stmt.Where)
	assert.Equal(t, FilterAnd, stmt.Where.Kind)
	require.NotNil(t, stmt.OrderBy)
	assert.Equal(t, "title", stmt.OrderBy.Field)
	assert.Equal(t, Desc, stmt.OrderBy.Direction)
	require.NotNil(t, stmt.Limit)
	assert.EqualValues(t, 10, *stmt.Limit)
	require.NotNil(t, stmt.Offset)
	assert.EqualValues(t, 2, *stmt.Offset)
}

func TestParseSelectColumnsAdmitAttributeKeywords(t *testing.T) {
	stmt, err := Parse(`SELECT title, owner, assignee FROM issues`)
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "owner", "assignee"}, stmt.Columns.Fields)
}

func TestParseFilterPrecedence(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM issues WHERE status = 'Open' OR status = 'Blocked' AND priority = HIGH`)
	require.NoError(t, err)
	// AND binds tighter than OR.
	assert.Equal(t, FilterOr, stmt.Where.Kind)
	assert.Equal(t, FilterComparison, stmt.Where.Left.Kind)
	assert.Equal(t, FilterAnd, stmt.Where.Right.Kind)
}

func TestParseFilterNotAndParens(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM issues WHERE NOT (status = 'Open' AND priority = HIGH)`)
	require.NoError(t, err)
	assert.Equal(t, FilterNot, stmt.Where.Kind)
	assert.Equal(t, FilterAnd, stmt.Where.Operand.Kind)
}

func TestParseFilterIsNull(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM issues WHERE priority IS NULL`)
	require.NoError(t, err)
	assert.Equal(t, FilterIsNull, stmt.Where.Kind)

	stmt2, err := Parse(`SELECT * FROM issues WHERE priority IS NOT NULL`)
	require.NoError(t, err)
	assert.Equal(t, FilterIsNotNull, stmt2.Where.Kind)
}

func TestParseUpdateMultipleFields(t *testing.T) {
	stmt, err := Parse(`UPDATE ISSUE backend#1 SET priority = HIGH, assignee = bob`)
	require.NoError(t, err)
	assert.Equal(t, EntityIssue, stmt.UpdateTarget)
	assert.Equal(t, "backend#1", stmt.TargetID)
	require.Len(t, stmt.Updates, 2)
	assert.Equal(t, "priority", stmt.Updates[0].Field)
}

func TestParseIssueIdRequiresHash(t *testing.T) {
	_, err := Parse(`CLOSE ISSUE backend`)
	require.Error(t, err)
}

func TestParseDeleteAssignCloseReopenComment(t *testing.T) {
	del, err := Parse(`DELETE PROJECT backend`)
	require.NoError(t, err)
	assert.Equal(t, StmtDelete, del.Kind)
	assert.Equal(t, EntityProject, del.UpdateTarget)

	assign, err := Parse(`ASSIGN ISSUE backend#1 TO bob`)
	require.NoError(t, err)
	assert.Equal(t, "backend#1", assign.IssueID)
	assert.Equal(t, "bob", assign.AssigneeID)

	closeStmt, err := Parse(`CLOSE ISSUE backend#1 WITH WONTFIX`)
	require.NoError(t, err)
	assert.Equal(t, "WontFix", closeStmt.CloseReason)

	reopen, err := Parse(`REOPEN ISSUE backend#1`)
	require.NoError(t, err)
	assert.Equal(t, StmtReopen, reopen.Kind)

	comment, err := Parse(`COMMENT ON ISSUE backend#1 WITH 'hello there'`)
	require.NoError(t, err)
	assert.Equal(t, "hello there", comment.CommentBody)
}

// TestParseRenderParseRoundTrip exercises P1: parse(render(parse(s))) ==
// parse(s) for a representative sample of statements.
func TestParseRenderParseRoundTrip(t *testing.T) {
	samples := []string{
		`CREATE PROJECT backend`,
		`CREATE ISSUE OF KIND BUG IN backend WITH TITLE 'boom'`,
		`SELECT * FROM issues WHERE priority = HIGH ORDER BY title DESC LIMIT 5 OFFSET 1`,
		`UPDATE ISSUE backend#1 SET priority=HIGH`,
		`DELETE ISSUE backend#1`,
		`ASSIGN ISSUE backend#1 TO bob`,
		`CLOSE ISSUE backend#1 WITH DUPLICATE`,
		`REOPEN ISSUE backend#1`,
		`COMMENT ON ISSUE backend#1 WITH 'hello'`,
	}
	for _, s := range samples {
		first, err := Parse(s)
		require.NoError(t, err, s)
		rendered := first.String()
		second, err := Parse(rendered)
		require.NoError(t, err, rendered)
		assert.Equal(t, first.String(), second.String(), "round trip mismatch for %q", s)
	}
}

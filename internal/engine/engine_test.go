package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuecraft/issuecraft/internal/principal"
	"github.com/issuecraft/issuecraft/internal/query"
	"github.com/issuecraft/issuecraft/internal/record"
	"github.com/issuecraft/issuecraft/internal/storage/memory"
)

func newTestEngine(t *testing.T, owner string) (*Engine, principal.UserProvider, principal.AuthorizationProvider) {
	t.Helper()
	eng := New(memory.New())
	require.NoError(t, eng.PutUser(context.Background(), record.User{ID: owner, Name: owner}))
	up := principal.SingleUser{ID: owner}
	return eng, up, up
}

func run(t *testing.T, eng *Engine, principalID string, up principal.UserProvider, ap principal.AuthorizationProvider, iql string) (*Result, error) {
	t.Helper()
	stmt, err := query.Parse(iql)
	require.NoError(t, err)
	return eng.Execute(context.Background(), principalID, up, ap, stmt)
}

func mustRun(t *testing.T, eng *Engine, principalID string, up principal.UserProvider, ap principal.AuthorizationProvider, iql string) *Result {
	t.Helper()
	res, err := run(t, eng, principalID, up, ap, iql)
	require.NoError(t, err)
	return res
}

// Scenario 1: CREATE PROJECT basics.
func TestCreateProjectBasics(t *testing.T) {
	eng, up, ap := newTestEngine(t, "alice")
	res := mustRun(t, eng, "alice", up, ap, `CREATE PROJECT widgets WITH NAME 'Widgets' OWNER alice`)
	assert.Equal(t, uint64(1), res.Rows)

	res = mustRun(t, eng, "alice", up, ap, `SELECT * FROM projects`)
	assert.Contains(t, res.Data, "widgets:")
}

// Scenario 2: double CREATE PROJECT rejects with ProjectAlreadyExistsError.
func TestCreateProjectTwiceFails(t *testing.T) {
	eng, up, ap := newTestEngine(t, "alice")
	mustRun(t, eng, "alice", up, ap, `CREATE PROJECT widgets WITH OWNER alice`)
	_, err := run(t, eng, "alice", up, ap, `CREATE PROJECT widgets WITH OWNER alice`)
	require.Error(t, err)
	var target *ProjectAlreadyExistsError
	assert.ErrorAs(t, err, &target)
	assert.Equal(t, "widgets", target.ID)
}

// Scenario 3: sequential per-project issue numbering p#1, p#2, p#3.
func TestSequentialIssueNumbering(t *testing.T) {
	eng, up, ap := newTestEngine(t, "alice")
	mustRun(t, eng, "alice", up, ap, `CREATE PROJECT p WITH OWNER alice`)
	for i := 0; i < 3; i++ {
		mustRun(t, eng, "alice", up, ap, `CREATE ISSUE OF KIND BUG IN p WITH TITLE 'bug' ASSIGNEE alice`)
	}
	res := mustRun(t, eng, "alice", up, ap, `SELECT * FROM issues`)
	assert.Contains(t, res.Data, "p#1:")
	assert.Contains(t, res.Data, "p#2:")
	assert.Contains(t, res.Data, "p#3:")
}

// Scenario 4: cascade delete removes the project, its issues, and their
// comments, reporting the total affected row count (I5).
func TestCascadeDeleteProject(t *testing.T) {
	eng, up, ap := newTestEngine(t, "alice")
	mustRun(t, eng, "alice", up, ap, `CREATE PROJECT p WITH OWNER alice`)
	mustRun(t, eng, "alice", up, ap, `CREATE ISSUE OF KIND TASK IN p WITH TITLE 't' ASSIGNEE alice`)
	mustRun(t, eng, "alice", up, ap, `COMMENT ON ISSUE p#1 WITH 'first'`)

	res := mustRun(t, eng, "alice", up, ap, `DELETE PROJECT p`)
	assert.Equal(t, uint64(3), res.Rows) // project + issue + comment

	_, err := run(t, eng, "alice", up, ap, `DELETE PROJECT p`)
	require.Error(t, err)
	var notFound *ItemNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

// Scenario 5: close-then-reopen idempotency (I4/P6).
func TestCloseReopenIdempotency(t *testing.T) {
	eng, up, ap := newTestEngine(t, "alice")
	mustRun(t, eng, "alice", up, ap, `CREATE PROJECT p WITH OWNER alice`)
	mustRun(t, eng, "alice", up, ap, `CREATE ISSUE OF KIND BUG IN p WITH TITLE 't' ASSIGNEE alice`)

	res := mustRun(t, eng, "alice", up, ap, `CLOSE ISSUE p#1 WITH WONTFIX`)
	assert.Equal(t, uint64(1), res.Rows)

	_, err := run(t, eng, "alice", up, ap, `CLOSE ISSUE p#1`)
	require.Error(t, err)
	var alreadyClosed *IssueAlreadyClosedError
	assert.ErrorAs(t, err, &alreadyClosed)

	res = mustRun(t, eng, "alice", up, ap, `REOPEN ISSUE p#1`)
	assert.Equal(t, uint64(1), res.Rows)

	// Reopening an already-open issue is a documented no-op: Rows 0, no error.
	res = mustRun(t, eng, "alice", up, ap, `REOPEN ISSUE p#1`)
	assert.Equal(t, uint64(0), res.Rows)
}

// Scenario 6: LIKE + IN filter combination in SELECT's WHERE clause.
func TestSelectLikeAndInFilter(t *testing.T) {
	eng, up, ap := newTestEngine(t, "alice")
	mustRun(t, eng, "alice", up, ap, `CREATE PROJECT p WITH OWNER alice`)
	mustRun(t, eng, "alice", up, ap, `CREATE ISSUE OF KIND BUG IN p WITH TITLE 'Fix login crash' PRIORITY HIGH ASSIGNEE alice`)
	mustRun(t, eng, "alice", up, ap, `CREATE ISSUE OF KIND TASK IN p WITH TITLE 'Write docs' PRIORITY LOW ASSIGNEE alice`)

	res := mustRun(t, eng, "alice", up, ap, `SELECT * FROM issues WHERE title LIKE 'Fix%' AND priority IN (HIGH, CRITICAL)`)
	assert.Contains(t, res.Data, "p#1:")
	assert.NotContains(t, res.Data, "p#2:")
}

func TestCreateIssueUnknownProjectFails(t *testing.T) {
	eng, up, ap := newTestEngine(t, "alice")
	_, err := run(t, eng, "alice", up, ap, `CREATE ISSUE OF KIND BUG IN ghost WITH TITLE 't' ASSIGNEE alice`)
	require.Error(t, err)
	var notFound *ItemNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCreateProjectUnknownOwnerFails(t *testing.T) {
	eng, up, ap := newTestEngine(t, "alice")
	_, err := run(t, eng, "alice", up, ap, `CREATE PROJECT p WITH OWNER ghost`)
	require.Error(t, err)
	var notFound *UserNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestUpdateRejectsUnknownField(t *testing.T) {
	eng, up, ap := newTestEngine(t, "alice")
	mustRun(t, eng, "alice", up, ap, `CREATE PROJECT p WITH OWNER alice`)
	_, err := run(t, eng, "alice", up, ap, `UPDATE PROJECT p SET bogus = 'x'`)
	require.Error(t, err)
	var notFound *FieldNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestUpdateProjectDisplayName(t *testing.T) {
	eng, up, ap := newTestEngine(t, "alice")
	mustRun(t, eng, "alice", up, ap, `CREATE PROJECT p WITH OWNER alice`)
	res := mustRun(t, eng, "alice", up, ap, `UPDATE PROJECT p SET display = 'Renamed'`)
	assert.Equal(t, uint64(1), res.Rows)

	sel := mustRun(t, eng, "alice", up, ap, `SELECT * FROM projects`)
	assert.Contains(t, sel.Data, "Renamed")
}

// Owner-only authorization: only the comment's own author may update or
// delete it, regardless of what CheckAuthorization itself decides (§4.G).
func TestCommentUpdateRejectsNonAuthor(t *testing.T) {
	eng := New(memory.New())
	require.NoError(t, eng.PutUser(context.Background(), record.User{ID: "alice", Name: "alice"}))
	require.NoError(t, eng.PutUser(context.Background(), record.User{ID: "bob", Name: "bob"}))

	up := principal.MapUserProvider{Default: "alice"}
	ap := principal.OwnerOnlyAuthorization{}

	mustRun(t, eng, "alice", up, ap, `CREATE PROJECT p WITH OWNER alice`)
	mustRun(t, eng, "alice", up, ap, `CREATE ISSUE OF KIND BUG IN p WITH TITLE 't' ASSIGNEE alice`)
	mustRun(t, eng, "alice", up, ap, `COMMENT ON ISSUE p#1 WITH 'mine'`)

	sel := mustRun(t, eng, "alice", up, ap, `SELECT * FROM comments`)
	require.Contains(t, sel.Data, "C")

	// Extract the generated comment id from the rendered row ("<id>: ...").
	// Built as a Statement directly rather than re-lexed from IQL text: a
	// nanoid may itself contain a hyphen-digit run that the lexer would
	// otherwise split into a separate negative-integer token (§4.A).
	commentID := sel.Data[:strings.IndexByte(sel.Data, ':')]

	updateAs := func(principalID, content string) (*Result, error) {
		stmt := &query.Statement{
			Kind: query.StmtUpdate, UpdateTarget: query.EntityComment, TargetID: commentID,
			Updates: []query.FieldUpdate{{Field: "content", Value: query.IqlValue{Kind: query.ValueString, Str: content}}},
		}
		return eng.Execute(context.Background(), principalID, up, ap, stmt)
	}

	_, err := updateAs("bob", "hijacked")
	require.Error(t, err)
	var denied *PermissionDeniedError
	assert.ErrorAs(t, err, &denied)

	res, err := updateAs("alice", "edited")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Rows)
}

func TestAssignIssue(t *testing.T) {
	eng, up, ap := newTestEngine(t, "alice")
	mustRun(t, eng, "alice", up, ap, `CREATE PROJECT p WITH OWNER alice`)
	mustRun(t, eng, "alice", up, ap, `CREATE ISSUE OF KIND BUG IN p WITH TITLE 't' ASSIGNEE alice`)

	res := mustRun(t, eng, "alice", up, ap, `ASSIGN ISSUE p#1 TO alice`)
	assert.Equal(t, uint64(1), res.Rows)
}

func TestSelectOrderByLimit(t *testing.T) {
	eng, up, ap := newTestEngine(t, "alice")
	mustRun(t, eng, "alice", up, ap, `CREATE PROJECT p WITH OWNER alice`)
	mustRun(t, eng, "alice", up, ap, `CREATE ISSUE OF KIND BUG IN p WITH TITLE 'c' ASSIGNEE alice`)
	mustRun(t, eng, "alice", up, ap, `CREATE ISSUE OF KIND BUG IN p WITH TITLE 'a' ASSIGNEE alice`)
	mustRun(t, eng, "alice", up, ap, `CREATE ISSUE OF KIND BUG IN p WITH TITLE 'b' ASSIGNEE alice`)

	res := mustRun(t, eng, "alice", up, ap, `SELECT * FROM issues ORDER BY title ASC LIMIT 2`)
	assert.Equal(t, "2 row(s)", res.Info)
}

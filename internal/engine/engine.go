// Package engine implements the execution engine (§4.F): it dispatches a
// parsed query.Statement against the transactional key-value store,
// enforcing referential integrity, per-project monotonic issue numbering,
// authorization on comment writes, and schema-known field validation.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/issuecraft/issuecraft/internal/filter"
	"github.com/issuecraft/issuecraft/internal/idgen"
	"github.com/issuecraft/issuecraft/internal/principal"
	"github.com/issuecraft/issuecraft/internal/query"
	"github.com/issuecraft/issuecraft/internal/record"
	"github.com/issuecraft/issuecraft/internal/storage"
)

// Result is the uniform value every statement execution produces (§4.F):
// an affected-row count, optional human-readable info, and an optional
// data payload representing selected rows.
type Result struct {
	Rows uint64
	Info string
	Data string
}

// Engine owns a single handle to the transactional store and dispatches
// statements against it. It is not re-entrant: a single instance
// processes one statement to completion before another begins (§5).
type Engine struct {
	store storage.Store
}

// New returns an Engine backed by store.
func New(store storage.Store) *Engine {
	return &Engine{store: store}
}

// PutUser writes a user record directly into the meta table, standing in
// for the principal provider's out-of-band user creation (§3 Lifecycle:
// "the query language itself does not create users").
func (e *Engine) PutUser(ctx context.Context, u record.User) error {
	wtx, err := e.store.BeginWrite(ctx)
	if err != nil {
		return NewImplementationSpecific(err)
	}
	tbl, err := wtx.OpenTable(ctx, storage.TableMeta)
	if err != nil {
		wtx.Abort()
		return NewImplementationSpecific(err)
	}
	data, err := json.Marshal(u)
	if err != nil {
		wtx.Abort()
		return NewImplementationSpecific(err)
	}
	tbl.Insert(u.ID, string(data))
	if err := wtx.Commit(ctx); err != nil {
		return NewImplementationSpecific(err)
	}
	return nil
}

// Execute dispatches stmt and returns its Result. principalID is the
// caller's already-resolved identity (a CLI or other host typically
// derives it via userProvider.GetUser before invoking Execute); the
// engine itself only calls userProvider.GetUser(ctx, "") to resolve the
// *default* owner/assignee/author the statement grammar allows omitting
// (§4.F). authProvider is consulted on every write path against comments
// (§4.G).
func (e *Engine) Execute(ctx context.Context, principalID string, userProvider principal.UserProvider, authProvider principal.AuthorizationProvider, stmt *query.Statement) (*Result, error) {
	switch stmt.Kind {
	case query.StmtCreate:
		return e.execCreate(ctx, userProvider, stmt)
	case query.StmtSelect:
		return e.execSelect(ctx, stmt)
	case query.StmtUpdate:
		return e.execUpdate(ctx, principalID, authProvider, stmt)
	case query.StmtDelete:
		return e.execDelete(ctx, principalID, authProvider, stmt)
	case query.StmtAssign:
		return e.execAssign(ctx, stmt)
	case query.StmtClose:
		return e.execClose(ctx, stmt)
	case query.StmtReopen:
		return e.execReopen(ctx, stmt)
	case query.StmtComment:
		return e.execComment(ctx, userProvider, stmt)
	default:
		return nil, NewNotImplemented("unknown statement kind")
	}
}

// checkCommentAuthorization consults authProvider and additionally
// enforces the engine's own author-equality check, independent of
// whatever the provider decided (§4.F, §9).
func checkCommentAuthorization(ctx context.Context, authProvider principal.AuthorizationProvider, action principal.Action, principalID, author string) error {
	decision, err := authProvider.CheckAuthorization(ctx, principalID, action, principal.ResourceComment, map[string]any{"owner": author})
	if err != nil {
		return NewImplementationSpecific(err)
	}
	if decision != principal.Authorized {
		return NewPermissionDenied("comment authorization denied")
	}
	if principalID != author {
		return NewPermissionDenied("principal is not the comment's author")
	}
	return nil
}

func userExists(ctx context.Context, tx storage.ReadTx, id string) (bool, error) {
	tbl, err := tx.OpenTable(ctx, storage.TableMeta)
	if err != nil {
		return false, err
	}
	_, ok := tbl.Get(id)
	return ok, nil
}

func fieldString(fields map[string]query.IqlValue, name string) (string, bool) {
	v, ok := fields[name]
	if !ok {
		return "", false
	}
	switch v.Kind {
	case query.ValueString:
		return v.Str, true
	default:
		return v.Ident, true
	}
}

// --- CREATE ---------------------------------------------------------------

func (e *Engine) execCreate(ctx context.Context, userProvider principal.UserProvider, stmt *query.Statement) (*Result, error) {
	switch stmt.CreateEntity {
	case query.EntityUser:
		return nil, NewNotSupported("CREATE USER")
	case query.EntityProject:
		return e.execCreateProject(ctx, userProvider, stmt)
	case query.EntityIssue:
		return e.execCreateIssue(ctx, userProvider, stmt)
	default:
		return nil, NewNotImplemented("CREATE target")
	}
}

func (e *Engine) execCreateProject(ctx context.Context, userProvider principal.UserProvider, stmt *query.Statement) (*Result, error) {
	wtx, err := e.store.BeginWrite(ctx)
	if err != nil {
		return nil, NewImplementationSpecific(err)
	}
	tbl, err := wtx.OpenTable(ctx, storage.TableProjects)
	if err != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(err)
	}
	if _, exists := tbl.Get(stmt.CreateID); exists {
		wtx.Abort()
		return nil, NewProjectAlreadyExists(stmt.CreateID)
	}

	owner, hasOwner := fieldString(stmt.Fields, "owner")
	if !hasOwner {
		owner, err = userProvider.GetUser(ctx, "")
		if err != nil {
			wtx.Abort()
			return nil, NewImplementationSpecific(err)
		}
	}
	if ok, err := userExists(ctx, wtx, owner); err != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(err)
	} else if !ok {
		wtx.Abort()
		return nil, NewUserNotFound(owner)
	}

	display, _ := fieldString(stmt.Fields, "name")
	description, _ := fieldString(stmt.Fields, "description")
	proj := record.Project{ID: stmt.CreateID, Owner: owner, Display: display, Description: description}
	data, err := json.Marshal(proj)
	if err != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(err)
	}
	tbl.Insert(proj.ID, string(data))
	if err := wtx.Commit(ctx); err != nil {
		return nil, NewImplementationSpecific(err)
	}
	return &Result{Rows: 1}, nil
}

// issuesOfProject returns every issue keyed under project p (id prefix
// "p#") from tbl. Issue keys compare lexicographically, not numerically
// (`p#2` sorts after `p#18...`), so this enumerates by prefix via Iter
// rather than bounding a Range with a numeric sentinel (§4.F, I3).
func issuesOfProject(tbl storage.Table, project string) []storage.KeyValue {
	prefix := project + "#"
	var out []storage.KeyValue
	for _, kv := range tbl.Iter() {
		if strings.HasPrefix(kv.Key, prefix) {
			out = append(out, kv)
		}
	}
	return out
}

func (e *Engine) execCreateIssue(ctx context.Context, userProvider principal.UserProvider, stmt *query.Statement) (*Result, error) {
	wtx, err := e.store.BeginWrite(ctx)
	if err != nil {
		return nil, NewImplementationSpecific(err)
	}
	projTbl, err := wtx.OpenTable(ctx, storage.TableProjects)
	if err != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(err)
	}
	if _, exists := projTbl.Get(stmt.ProjectID); !exists {
		wtx.Abort()
		return nil, NewItemNotFound("Project", stmt.ProjectID)
	}

	issueTbl, err := wtx.OpenTable(ctx, storage.TableIssues)
	if err != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(err)
	}

	assignee, hasAssignee := fieldString(stmt.Fields, "assignee")
	if !hasAssignee {
		assignee, err = userProvider.GetUser(ctx, "")
		if err != nil {
			wtx.Abort()
			return nil, NewImplementationSpecific(err)
		}
	}
	if ok, err := userExists(ctx, wtx, assignee); err != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(err)
	} else if !ok {
		wtx.Abort()
		return nil, NewUserNotFound(assignee)
	}

	n := uint64(len(issuesOfProject(issueTbl, stmt.ProjectID))) + 1

	title, _ := fieldString(stmt.Fields, "title")
	description, _ := fieldString(stmt.Fields, "description")
	priority, _ := fieldString(stmt.Fields, "priority")

	id := fmt.Sprintf("%s#%d", stmt.ProjectID, n)
	issue := record.Issue{
		ID: id, Title: title, Kind: record.IssueKind(stmt.IssueKind),
		Description: description, Status: record.Status{Kind: record.StatusOpen},
		Project: stmt.ProjectID, Priority: record.Priority(priority), Assignee: assignee,
	}
	data, err := json.Marshal(issue)
	if err != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(err)
	}
	issueTbl.Insert(id, string(data))
	if err := wtx.Commit(ctx); err != nil {
		return nil, NewImplementationSpecific(err)
	}
	return &Result{Rows: 1}, nil
}

// --- SELECT -----------------------------------------------------------

func tableFor(e query.EntityType) (string, error) {
	switch e {
	case query.EntityProject:
		return storage.TableProjects, nil
	case query.EntityIssue:
		return storage.TableIssues, nil
	case query.EntityComment:
		return storage.TableComments, nil
	case query.EntityUser:
		return "", NewNotSupported("SELECT FROM users")
	default:
		return "", NewNotImplemented("SELECT target")
	}
}

type selectedRow struct {
	id     string
	fields record.FieldMap
}

func (e *Engine) execSelect(ctx context.Context, stmt *query.Statement) (*Result, error) {
	tableName, err := tableFor(stmt.SelectEntity)
	if err != nil {
		return nil, err
	}
	rtx, err := e.store.BeginRead(ctx)
	if err != nil {
		return nil, NewImplementationSpecific(err)
	}
	tbl, err := rtx.OpenTable(ctx, tableName)
	if err != nil {
		return nil, NewImplementationSpecific(err)
	}

	entries := tbl.Iter()
	rows := make([]selectedRow, 0, len(entries))
	for _, kv := range entries {
		var fields record.FieldMap
		if err := json.Unmarshal([]byte(kv.Value), &fields); err != nil {
			return nil, NewImplementationSpecific(err)
		}
		rows = append(rows, selectedRow{id: kv.Key, fields: fields})
	}

	// §4.F: offset/limit are applied over the raw iteration, before
	// sort/filter.
	if stmt.Offset != nil {
		off := int(*stmt.Offset)
		if off >= len(rows) {
			rows = nil
		} else {
			rows = rows[off:]
		}
	}
	if stmt.Limit != nil {
		lim := int(*stmt.Limit)
		if lim < len(rows) {
			rows = rows[:lim]
		}
	}

	if stmt.OrderBy != nil {
		sortRows(rows, stmt.OrderBy)
	}

	if stmt.Where != nil {
		filtered := rows[:0:0]
		for _, r := range rows {
			if filter.Matches(stmt.Where, r.id, r.fields) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	data := renderRows(stmt.Columns, rows)
	return &Result{Rows: 0, Info: fmt.Sprintf("%d row(s)", len(rows)), Data: data}, nil
}

// sortRows stably sorts by OrderBy.Field using the same partial order the
// filter evaluator uses; records missing the field sort after records
// that have it (§4.D Ordering, P8).
func sortRows(rows []selectedRow, ob *query.OrderBy) {
	sort.SliceStable(rows, func(i, j int) bool {
		vi, oki := rows[i].fields[ob.Field]
		vj, okj := rows[j].fields[ob.Field]
		if oki != okj {
			return oki // i has it, j doesn't => i sorts first
		}
		if !oki {
			return false
		}
		cmp := filter.Compare(vi, vj)
		if ob.Direction == query.Desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func renderRows(cols query.Columns, rows []selectedRow) string {
	var sb strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&sb, "%s:", r.id)
		if cols.Wildcard {
			keys := make([]string, 0, len(r.fields))
			for k := range r.fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&sb, " %s=%v", k, r.fields[k])
			}
		} else {
			for _, f := range cols.Fields {
				fmt.Fprintf(&sb, " %s=%v", f, r.fields[f])
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// --- UPDATE -----------------------------------------------------------

func (e *Engine) execUpdate(ctx context.Context, principalID string, authProvider principal.AuthorizationProvider, stmt *query.Statement) (*Result, error) {
	if stmt.UpdateTarget == query.EntityUser {
		return nil, NewNotSupported("UPDATE USER")
	}
	tableName, err := tableFor(stmt.UpdateTarget)
	if err != nil {
		return nil, err
	}
	kind := entityKind(stmt.UpdateTarget)

	wtx, werr := e.store.BeginWrite(ctx)
	if werr != nil {
		return nil, NewImplementationSpecific(werr)
	}
	tbl, terr := wtx.OpenTable(ctx, tableName)
	if terr != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(terr)
	}
	raw, ok := tbl.Get(stmt.TargetID)
	if !ok {
		wtx.Abort()
		return nil, NewItemNotFound(kind.String(), stmt.TargetID)
	}

	var fields record.FieldMap
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(err)
	}

	if stmt.UpdateTarget == query.EntityComment {
		author, _ := fields["author"].(string)
		if err := checkCommentAuthorization(ctx, authProvider, principal.ActionUpdate, principalID, author); err != nil {
			wtx.Abort()
			return nil, err
		}
	}

	for _, upd := range stmt.Updates {
		if !record.HasField(kind, upd.Field) {
			wtx.Abort()
			return nil, NewFieldNotFound(upd.Field)
		}
		fields[upd.Field] = upd.Value.Raw()
	}

	out, merr := json.Marshal(fields)
	if merr != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(merr)
	}
	tbl.Insert(stmt.TargetID, string(out))
	if cerr := wtx.Commit(ctx); cerr != nil {
		return nil, NewImplementationSpecific(cerr)
	}
	return &Result{Rows: 1}, nil
}

func entityKind(e query.EntityType) record.Kind {
	switch e {
	case query.EntityUser:
		return record.KindUser
	case query.EntityProject:
		return record.KindProject
	case query.EntityIssue:
		return record.KindIssue
	case query.EntityComment:
		return record.KindComment
	default:
		return record.KindUser
	}
}

// --- DELETE (cascade, I5) -----------------------------------------------

func (e *Engine) execDelete(ctx context.Context, principalID string, authProvider principal.AuthorizationProvider, stmt *query.Statement) (*Result, error) {
	if stmt.UpdateTarget == query.EntityUser {
		return nil, NewNotSupported("DELETE USER")
	}

	wtx, err := e.store.BeginWrite(ctx)
	if err != nil {
		return nil, NewImplementationSpecific(err)
	}

	var rows uint64
	switch stmt.UpdateTarget {
	case query.EntityProject:
		rows, err = e.cascadeDeleteProject(ctx, wtx, stmt.TargetID)
	case query.EntityIssue:
		rows, err = e.cascadeDeleteIssue(ctx, wtx, stmt.TargetID)
	case query.EntityComment:
		rows, err = e.deleteComment(ctx, wtx, principalID, authProvider, stmt.TargetID)
	default:
		err = NewNotImplemented("DELETE target")
	}
	if err != nil {
		wtx.Abort()
		return nil, err
	}
	if cerr := wtx.Commit(ctx); cerr != nil {
		return nil, NewImplementationSpecific(cerr)
	}
	return &Result{Rows: rows}, nil
}

func (e *Engine) cascadeDeleteProject(ctx context.Context, wtx storage.WriteTx, projectID string) (uint64, error) {
	projTbl, err := wtx.OpenTable(ctx, storage.TableProjects)
	if err != nil {
		return 0, NewImplementationSpecific(err)
	}
	if _, ok := projTbl.Get(projectID); !ok {
		return 0, NewItemNotFound("Project", projectID)
	}

	issueTbl, err := wtx.OpenTable(ctx, storage.TableIssues)
	if err != nil {
		return 0, NewImplementationSpecific(err)
	}
	commentTbl, err := wtx.OpenTable(ctx, storage.TableComments)
	if err != nil {
		return 0, NewImplementationSpecific(err)
	}

	var rows uint64
	for _, kv := range issuesOfProject(issueTbl, projectID) {
		for _, c := range commentTbl.Iter() {
			var cf record.FieldMap
			if err := json.Unmarshal([]byte(c.Value), &cf); err != nil {
				return 0, NewImplementationSpecific(err)
			}
			if issue, _ := cf.Get("issue"); issue == kv.Key {
				commentTbl.Remove(c.Key)
				rows++
			}
		}
		issueTbl.Remove(kv.Key)
		rows++
	}

	projTbl.Remove(projectID)
	rows++
	return rows, nil
}

func (e *Engine) cascadeDeleteIssue(ctx context.Context, wtx storage.WriteTx, issueID string) (uint64, error) {
	issueTbl, err := wtx.OpenTable(ctx, storage.TableIssues)
	if err != nil {
		return 0, NewImplementationSpecific(err)
	}
	if _, ok := issueTbl.Get(issueID); !ok {
		return 0, NewItemNotFound("Issue", issueID)
	}
	commentTbl, err := wtx.OpenTable(ctx, storage.TableComments)
	if err != nil {
		return 0, NewImplementationSpecific(err)
	}

	var rows uint64
	for _, c := range commentTbl.Iter() {
		var cf record.FieldMap
		if err := json.Unmarshal([]byte(c.Value), &cf); err != nil {
			return 0, NewImplementationSpecific(err)
		}
		if issue, _ := cf.Get("issue"); issue == issueID {
			commentTbl.Remove(c.Key)
			rows++
		}
	}
	issueTbl.Remove(issueID)
	rows++
	return rows, nil
}

func (e *Engine) deleteComment(ctx context.Context, wtx storage.WriteTx, principalID string, authProvider principal.AuthorizationProvider, commentID string) (uint64, error) {
	tbl, err := wtx.OpenTable(ctx, storage.TableComments)
	if err != nil {
		return 0, NewImplementationSpecific(err)
	}
	raw, ok := tbl.Get(commentID)
	if !ok {
		return 0, NewItemNotFound("Comment", commentID)
	}
	var fields record.FieldMap
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return 0, NewImplementationSpecific(err)
	}
	author, _ := fields["author"].(string)
	if err := checkCommentAuthorization(ctx, authProvider, principal.ActionDelete, principalID, author); err != nil {
		return 0, err
	}
	tbl.Remove(commentID)
	return 1, nil
}

// --- ASSIGN / CLOSE / REOPEN --------------------------------------------

func (e *Engine) readIssue(ctx context.Context, tbl storage.Table, id string) (record.Issue, error) {
	raw, ok := tbl.Get(id)
	if !ok {
		return record.Issue{}, NewItemNotFound("Issue", id)
	}
	var issue record.Issue
	if err := json.Unmarshal([]byte(raw), &issue); err != nil {
		return record.Issue{}, NewImplementationSpecific(err)
	}
	return issue, nil
}

func (e *Engine) writeIssue(ctx context.Context, tbl storage.Table, issue record.Issue) error {
	data, err := json.Marshal(issue)
	if err != nil {
		return NewImplementationSpecific(err)
	}
	tbl.Insert(issue.ID, string(data))
	return nil
}

func (e *Engine) execAssign(ctx context.Context, stmt *query.Statement) (*Result, error) {
	wtx, err := e.store.BeginWrite(ctx)
	if err != nil {
		return nil, NewImplementationSpecific(err)
	}
	tbl, terr := wtx.OpenTable(ctx, storage.TableIssues)
	if terr != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(terr)
	}
	issue, ierr := e.readIssue(ctx, tbl, stmt.IssueID)
	if ierr != nil {
		wtx.Abort()
		return nil, ierr
	}
	issue.Assignee = stmt.AssigneeID
	if err := e.writeIssue(ctx, tbl, issue); err != nil {
		wtx.Abort()
		return nil, err
	}
	if err := wtx.Commit(ctx); err != nil {
		return nil, NewImplementationSpecific(err)
	}
	return &Result{Rows: 1}, nil
}

func (e *Engine) execClose(ctx context.Context, stmt *query.Statement) (*Result, error) {
	wtx, err := e.store.BeginWrite(ctx)
	if err != nil {
		return nil, NewImplementationSpecific(err)
	}
	tbl, terr := wtx.OpenTable(ctx, storage.TableIssues)
	if terr != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(terr)
	}
	issue, ierr := e.readIssue(ctx, tbl, stmt.IssueID)
	if ierr != nil {
		wtx.Abort()
		return nil, ierr
	}
	if issue.Status.IsClosed() {
		wtx.Abort()
		return nil, NewIssueAlreadyClosed(stmt.IssueID, string(issue.Status.Reason))
	}
	reason := record.CloseReason(stmt.CloseReason)
	if reason == "" {
		reason = record.CloseReasonDone
	}
	issue.Status = record.Status{Kind: record.StatusClosed, Reason: reason}
	if err := e.writeIssue(ctx, tbl, issue); err != nil {
		wtx.Abort()
		return nil, err
	}
	if err := wtx.Commit(ctx); err != nil {
		return nil, NewImplementationSpecific(err)
	}
	return &Result{Rows: 1}, nil
}

func (e *Engine) execReopen(ctx context.Context, stmt *query.Statement) (*Result, error) {
	wtx, err := e.store.BeginWrite(ctx)
	if err != nil {
		return nil, NewImplementationSpecific(err)
	}
	tbl, terr := wtx.OpenTable(ctx, storage.TableIssues)
	if terr != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(terr)
	}
	issue, ierr := e.readIssue(ctx, tbl, stmt.IssueID)
	if ierr != nil {
		wtx.Abort()
		return nil, ierr
	}
	if !issue.Status.IsClosed() {
		wtx.Abort()
		return &Result{Rows: 0}, nil
	}
	issue.Status = record.Status{Kind: record.StatusOpen}
	if err := e.writeIssue(ctx, tbl, issue); err != nil {
		wtx.Abort()
		return nil, err
	}
	if err := wtx.Commit(ctx); err != nil {
		return nil, NewImplementationSpecific(err)
	}
	return &Result{Rows: 1}, nil
}

// --- COMMENT -------------------------------------------------------------

func (e *Engine) execComment(ctx context.Context, userProvider principal.UserProvider, stmt *query.Statement) (*Result, error) {
	wtx, err := e.store.BeginWrite(ctx)
	if err != nil {
		return nil, NewImplementationSpecific(err)
	}
	issueTbl, terr := wtx.OpenTable(ctx, storage.TableIssues)
	if terr != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(terr)
	}
	if _, ok := issueTbl.Get(stmt.IssueID); !ok {
		wtx.Abort()
		return nil, NewItemNotFound("Issue", stmt.IssueID)
	}

	author, aerr := userProvider.GetUser(ctx, "")
	if aerr != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(aerr)
	}

	commentTbl, cerr := wtx.OpenTable(ctx, storage.TableComments)
	if cerr != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(cerr)
	}
	id, nerr := idgen.NewCommentID()
	if nerr != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(nerr)
	}
	comment := record.Comment{ID: id, Issue: stmt.IssueID, CreatedAt: time.Now().UTC(), Content: stmt.CommentBody, Author: author}
	data, merr := json.Marshal(comment)
	if merr != nil {
		wtx.Abort()
		return nil, NewImplementationSpecific(merr)
	}
	commentTbl.Insert(id, string(data))
	if err := wtx.Commit(ctx); err != nil {
		return nil, NewImplementationSpecific(err)
	}
	return &Result{Rows: 1}, nil
}

package query

import (
	"fmt"
	"strconv"
	"strings"
)

// titleCase upper-cases the first byte and lowers the rest, used to render
// the canonical spelling of kind/priority/close-reason keywords (e.g.
// "BUG" -> "Bug").
func titleCase(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// IqlValueKind discriminates the variants of IqlValue.
type IqlValueKind int

const (
	ValueString IqlValueKind = iota
	ValueInteger
	ValueUnsignedInteger
	ValueFloat
	ValueBoolean
	ValueNull
	ValuePriority
	ValueIdentifier
)

// IqlValue is the tagged union of literal values the language admits
// (§4.B). Exactly one of the typed fields is meaningful, selected by Kind.
type IqlValue struct {
	Kind   IqlValueKind
	Str    string
	Int    int64
	Uint   uint64
	Float  float64
	Bool   bool
	Ident  string
}

func (v IqlValue) String() string {
	switch v.Kind {
	case ValueString:
		return "'" + strings.ReplaceAll(v.Str, "'", "\\'") + "'"
	case ValueInteger:
		return strconv.FormatInt(v.Int, 10)
	case ValueUnsignedInteger:
		return strconv.FormatUint(v.Uint, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case ValueBoolean:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case ValueNull:
		return "NULL"
	case ValuePriority:
		return v.Ident
	case ValueIdentifier:
		return v.Ident
	default:
		return ""
	}
}

// Raw returns v as a plain Go value suitable for comparison against a
// decoded field-map entry.
func (v IqlValue) Raw() any {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueInteger:
		return v.Int
	case ValueUnsignedInteger:
		return v.Uint
	case ValueFloat:
		return v.Float
	case ValueBoolean:
		return v.Bool
	case ValueNull:
		return nil
	case ValuePriority, ValueIdentifier:
		return v.Ident
	default:
		return nil
	}
}

// ComparisonOp enumerates the relational/membership operators a
// Comparison node may carry.
type ComparisonOp int

const (
	OpEq ComparisonOp = iota
	OpNeq
	OpGt
	OpLt
	OpGte
	OpLte
	OpLike
)

func (op ComparisonOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNeq:
		return "!="
	case OpGt:
		return ">"
	case OpLt:
		return "<"
	case OpGte:
		return ">="
	case OpLte:
		return "<="
	case OpLike:
		return "LIKE"
	default:
		return "?"
	}
}

// FilterExpression is the recursive boolean-expression sum type evaluated
// by package filter (§4.D). Exactly one of the typed fields applies,
// selected by Kind.
type FilterExpression struct {
	Kind FilterKind

	// Comparison
	Field   string
	Op      ComparisonOp
	Literal IqlValue

	// And / Or / Not
	Left  *FilterExpression
	Right *FilterExpression
	Operand *FilterExpression

	// In
	Values []IqlValue

	// IsNull / IsNotNull reuse Field above.
}

// FilterKind discriminates FilterExpression's variants.
type FilterKind int

const (
	FilterComparison FilterKind = iota
	FilterAnd
	FilterOr
	FilterNot
	FilterIn
	FilterIsNull
	FilterIsNotNull
)

func (f *FilterExpression) String() string {
	if f == nil {
		return ""
	}
	switch f.Kind {
	case FilterComparison:
		return fmt.Sprintf("%s %s %s", f.Field, f.Op, f.Literal)
	case FilterAnd:
		return fmt.Sprintf("(%s AND %s)", f.Left, f.Right)
	case FilterOr:
		return fmt.Sprintf("(%s OR %s)", f.Left, f.Right)
	case FilterNot:
		return fmt.Sprintf("NOT %s", f.Operand)
	case FilterIn:
		parts := make([]string, len(f.Values))
		for i, v := range f.Values {
			parts[i] = v.String()
		}
		return fmt.Sprintf("%s IN (%s)", f.Field, strings.Join(parts, ", "))
	case FilterIsNull:
		return fmt.Sprintf("%s IS NULL", f.Field)
	case FilterIsNotNull:
		return fmt.Sprintf("%s IS NOT NULL", f.Field)
	default:
		return ""
	}
}

// Columns is either the SELECT wildcard or an explicit ordered field list.
type Columns struct {
	Wildcard bool
	Fields   []string
}

func (c Columns) String() string {
	if c.Wildcard {
		return "*"
	}
	return strings.Join(c.Fields, ", ")
}

// OrderDirection is Asc or Desc for an ORDER BY clause.
type OrderDirection int

const (
	Asc OrderDirection = iota
	Desc
)

func (d OrderDirection) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// OrderBy names the sort field and direction of a SELECT statement.
type OrderBy struct {
	Field     string
	Direction OrderDirection
}

// EntityType names one of the four entity kinds, as distinguished in
// UPDATE/DELETE target unions and SELECT's FROM clause.
type EntityType int

const (
	EntityUser EntityType = iota
	EntityProject
	EntityIssue
	EntityComment
)

func (e EntityType) String() string {
	switch e {
	case EntityUser:
		return "USER"
	case EntityProject:
		return "PROJECT"
	case EntityIssue:
		return "ISSUE"
	case EntityComment:
		return "COMMENT"
	default:
		return "?"
	}
}

// Plural renders the entity type the way SELECT's FROM clause spells it.
func (e EntityType) Plural() string {
	switch e {
	case EntityUser:
		return "users"
	case EntityProject:
		return "projects"
	case EntityIssue:
		return "issues"
	case EntityComment:
		return "comments"
	default:
		return "?"
	}
}

// FieldUpdate is one `field = value` assignment inside an UPDATE statement.
type FieldUpdate struct {
	Field string
	Value IqlValue
}

// StatementKind discriminates Statement's variants.
type StatementKind int

const (
	StmtCreate StatementKind = iota
	StmtSelect
	StmtUpdate
	StmtDelete
	StmtAssign
	StmtClose
	StmtReopen
	StmtComment
)

// Statement is the tagged union produced by the parser (§4.B): exactly one
// statement kind's payload is populated, selected by Kind.
type Statement struct {
	Kind StatementKind

	// CREATE
	CreateEntity EntityType // User, Project, or Issue
	CreateID     string     // identifier for User/Project
	IssueKind    string     // for CREATE ISSUE
	ProjectID    string     // project for CREATE ISSUE
	Fields       map[string]IqlValue

	// SELECT
	SelectEntity EntityType
	Columns      Columns
	Where        *FilterExpression
	OrderBy      *OrderBy
	Limit        *uint64
	Offset       *uint64

	// UPDATE
	UpdateTarget EntityType
	TargetID     string
	Updates      []FieldUpdate

	// DELETE reuses UpdateTarget/TargetID.

	// ASSIGN / CLOSE / REOPEN / COMMENT
	IssueID     string
	AssigneeID  string
	CloseReason string // empty means "use default"
	CommentBody string
}

func (s *Statement) String() string {
	switch s.Kind {
	case StmtCreate:
		return s.renderCreate()
	case StmtSelect:
		return s.renderSelect()
	case StmtUpdate:
		return s.renderUpdate()
	case StmtDelete:
		return fmt.Sprintf("DELETE %s %s", s.UpdateTarget, s.TargetID)
	case StmtAssign:
		return fmt.Sprintf("ASSIGN ISSUE %s TO %s", s.IssueID, s.AssigneeID)
	case StmtClose:
		if s.CloseReason == "" {
			return fmt.Sprintf("CLOSE ISSUE %s", s.IssueID)
		}
		return fmt.Sprintf("CLOSE ISSUE %s WITH %s", s.IssueID, s.CloseReason)
	case StmtReopen:
		return fmt.Sprintf("REOPEN ISSUE %s", s.IssueID)
	case StmtComment:
		return fmt.Sprintf("COMMENT ON ISSUE %s WITH '%s'", s.IssueID, strings.ReplaceAll(s.CommentBody, "'", "\\'"))
	default:
		return ""
	}
}

func (s *Statement) renderCreate() string {
	var sb strings.Builder
	sb.WriteString("CREATE ")
	switch s.CreateEntity {
	case EntityUser:
		sb.WriteString("USER ")
		sb.WriteString(s.CreateID)
	case EntityProject:
		sb.WriteString("PROJECT ")
		sb.WriteString(s.CreateID)
	case EntityIssue:
		sb.WriteString("ISSUE OF KIND ")
		sb.WriteString(s.IssueKind)
		sb.WriteString(" IN ")
		sb.WriteString(s.ProjectID)
	}
	if len(s.Fields) > 0 {
		sb.WriteString(" WITH ")
		first := true
		for k, v := range s.Fields {
			if !first {
				sb.WriteString(" ")
			}
			first = false
			sb.WriteString(strings.ToUpper(k))
			sb.WriteString(" ")
			sb.WriteString(v.String())
		}
	}
	return sb.String()
}

func (s *Statement) renderSelect() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(s.Columns.String())
	sb.WriteString(" FROM ")
	sb.WriteString(s.SelectEntity.Plural())
	if s.Where != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(s.Where.String())
	}
	if s.OrderBy != nil {
		fmt.Fprintf(&sb, " ORDER BY %s %s", s.OrderBy.Field, s.OrderBy.Direction)
	}
	if s.Limit != nil {
		fmt.Fprintf(&sb, " LIMIT %d", *s.Limit)
	}
	if s.Offset != nil {
		fmt.Fprintf(&sb, " OFFSET %d", *s.Offset)
	}
	return sb.String()
}

func (s *Statement) renderUpdate() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "UPDATE %s %s SET ", s.UpdateTarget, s.TargetID)
	parts := make([]string, len(s.Updates))
	for i, u := range s.Updates {
		parts[i] = fmt.Sprintf("%s=%s", u.Field, u.Value)
	}
	sb.WriteString(strings.Join(parts, ", "))
	return sb.String()
}

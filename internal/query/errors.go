package query

import "fmt"

// ParseError is the common interface satisfied by every parse-time error
// variant named in §4.C/§7. Position returns the byte offset the error
// pertains to, except for lexical failures: Parse reports those as an
// InvalidSyntaxError whose Pos is 0 and whose message carries the offset.
type ParseError interface {
	error
	Position() int
}

// UnexpectedEofError reports that input ran out while more tokens were
// still expected.
type UnexpectedEofError struct {
	Pos int
}

func (e *UnexpectedEofError) Error() string    { return fmt.Sprintf("unexpected end of input at position %d", e.Pos) }
func (e *UnexpectedEofError) Position() int    { return e.Pos }

// UnexpectedTokenError reports that the parser found a token it could not
// use at the current grammar position.
type UnexpectedTokenError struct {
	Expected string
	Found    string
	Pos      int
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("expected %s, found %s at position %d", e.Expected, e.Found, e.Pos)
}
func (e *UnexpectedTokenError) Position() int { return e.Pos }

// InvalidSyntaxError is a catch-all for grammar violations that don't fit
// the other named variants.
type InvalidSyntaxError struct {
	Msg string
	Pos int
}

func (e *InvalidSyntaxError) Error() string { return fmt.Sprintf("invalid syntax: %s at position %d", e.Msg, e.Pos) }
func (e *InvalidSyntaxError) Position() int  { return e.Pos }

// InvalidNumberError reports a numeric literal the lexer or parser could
// not convert.
type InvalidNumberError struct {
	Raw string
	Pos int
}

func (e *InvalidNumberError) Error() string { return fmt.Sprintf("invalid number %q at position %d", e.Raw, e.Pos) }
func (e *InvalidNumberError) Position() int  { return e.Pos }

// UnterminatedStringError reports a quoted string with no closing quote.
type UnterminatedStringError struct {
	Pos int
}

func (e *UnterminatedStringError) Error() string { return fmt.Sprintf("unterminated string starting at position %d", e.Pos) }
func (e *UnterminatedStringError) Position() int  { return e.Pos }

// InvalidEntityTypeError reports an entity keyword that wasn't one of
// USER/PROJECT/ISSUE/COMMENT where an entity was required.
type InvalidEntityTypeError struct {
	Raw string
	Pos int
}

func (e *InvalidEntityTypeError) Error() string { return fmt.Sprintf("invalid entity type %q at position %d", e.Raw, e.Pos) }
func (e *InvalidEntityTypeError) Position() int  { return e.Pos }

// InvalidPriorityError reports a priority token outside
// {CRITICAL,HIGH,MEDIUM,LOW}.
type InvalidPriorityError struct {
	Raw string
	Pos int
}

func (e *InvalidPriorityError) Error() string { return fmt.Sprintf("invalid priority %q at position %d", e.Raw, e.Pos) }
func (e *InvalidPriorityError) Position() int  { return e.Pos }

// InvalidCloseReasonError reports a close reason outside
// {DONE,DUPLICATE,WONTFIX}.
type InvalidCloseReasonError struct {
	Raw string
	Pos int
}

func (e *InvalidCloseReasonError) Error() string {
	return fmt.Sprintf("invalid close reason %q at position %d", e.Raw, e.Pos)
}
func (e *InvalidCloseReasonError) Position() int { return e.Pos }

// InvalidIssueKindError reports an issue kind outside
// {EPIC,IMPROVEMENT,BUG,TASK}.
type InvalidIssueKindError struct {
	Raw string
	Pos int
}

func (e *InvalidIssueKindError) Error() string {
	return fmt.Sprintf("invalid issue kind %q at position %d", e.Raw, e.Pos)
}
func (e *InvalidIssueKindError) Position() int { return e.Pos }

// InvalidIssueIdError reports a malformed `<project>#<n>` composite id.
type InvalidIssueIdError struct {
	Raw string
	Pos int
}

func (e *InvalidIssueIdError) Error() string { return fmt.Sprintf("invalid issue id %q at position %d", e.Raw, e.Pos) }
func (e *InvalidIssueIdError) Position() int  { return e.Pos }

// MissingClauseError reports a required clause (e.g. WITH TITLE on CREATE
// ISSUE) that was absent.
type MissingClauseError struct {
	Clause string
	Pos    int
}

func (e *MissingClauseError) Error() string { return fmt.Sprintf("missing required clause %q at position %d", e.Clause, e.Pos) }
func (e *MissingClauseError) Position() int  { return e.Pos }

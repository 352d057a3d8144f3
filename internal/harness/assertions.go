package harness

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/roach88/stepwright/internal/trace"
)

// validIdentifier matches valid SQL identifiers (table/column names).
// Only allows alphanumeric and underscore, must start with letter or underscore.
// This prevents SQL injection via identifier interpolation.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Assertion validates the report transcript or the trace store.
type Assertion struct {
	// Type specifies the assertion type:
	// - "report_contains": Check a report message containing the substring exists
	// - "report_order": Check message substrings appear in order
	// - "report_count": Check the total number of reports
	// - "trace_state": Query a trace store table and verify expected values
	Type string `yaml:"type"`

	// Message is the expected message substring (report_contains).
	Message string `yaml:"message,omitempty"`

	// Passed restricts report_contains to passing or failing reports.
	Passed *bool `yaml:"passed,omitempty"`

	// Messages are substrings expected in order (report_order).
	Messages []string `yaml:"messages,omitempty"`

	// Count is the expected number of reports (report_count).
	Count int `yaml:"count,omitempty"`

	// Table is the trace store table name (trace_state).
	Table string `yaml:"table,omitempty"`

	// Where specifies query filters (trace_state).
	// All fields must match exactly.
	Where map[string]any `yaml:"where,omitempty"`

	// Expect contains expected field values (trace_state).
	// Subset match - only specified fields are validated.
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertReportContains = "report_contains"
	AssertReportOrder    = "report_order"
	AssertReportCount    = "report_count"
	AssertTraceState     = "trace_state"
)

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertReportContains:
		if a.Message == "" {
			return fmt.Errorf("assertions[%d]: message is required for report_contains", index)
		}
	case AssertReportOrder:
		if len(a.Messages) == 0 {
			return fmt.Errorf("assertions[%d]: messages list is required for report_order", index)
		}
	case AssertReportCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for report_count", index)
		}
	case AssertTraceState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for trace_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for trace_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Reports  []string // Full transcript for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull transcript:\n")
	for i, message := range e.Reports {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, message)
	}

	return buf.String()
}

// assertReportContains checks that some report matches the substring,
// optionally restricted to passing or failing reports.
func assertReportContains(reports []trace.Report, assertion Assertion) error {
	for _, r := range reports {
		if assertion.Passed != nil && r.Passed != *assertion.Passed {
			continue
		}
		if strings.Contains(r.Message, assertion.Message) {
			return nil
		}
	}

	expected := fmt.Sprintf("report containing %q", assertion.Message)
	if assertion.Passed != nil {
		expected = fmt.Sprintf("%s with passed=%v", expected, *assertion.Passed)
	}
	return &AssertionError{
		Type:     AssertReportContains,
		Expected: expected,
		Actual:   "not found in transcript",
		Reports:  messages(reports),
	}
}

// assertReportOrder checks that the message substrings appear in order.
// Matches don't need to be consecutive (intervening reports are allowed).
func assertReportOrder(reports []trace.Report, assertion Assertion) error {
	next := 0
	for _, r := range reports {
		if next >= len(assertion.Messages) {
			break
		}
		if strings.Contains(r.Message, assertion.Messages[next]) {
			next++
		}
	}

	if next < len(assertion.Messages) {
		return &AssertionError{
			Type:     AssertReportOrder,
			Expected: fmt.Sprintf("messages in order: %v", assertion.Messages),
			Actual:   fmt.Sprintf("no report matched %q after position %d", assertion.Messages[next], next),
			Reports:  messages(reports),
		}
	}
	return nil
}

// assertReportCount checks the total number of reports.
func assertReportCount(reports []trace.Report, assertion Assertion) error {
	if len(reports) != assertion.Count {
		return &AssertionError{
			Type:     AssertReportCount,
			Expected: fmt.Sprintf("%d reports", assertion.Count),
			Actual:   fmt.Sprintf("%d reports", len(reports)),
			Reports:  messages(reports),
		}
	}
	return nil
}

// assertTraceState checks that the trace store table contains expected
// values. Queries the table with parameterized SQL and validates expected
// values using subset semantics.
//
// Security: Table and column names are validated against a whitelist
// pattern to prevent SQL injection via identifier interpolation.
func assertTraceState(ctx context.Context, st *trace.Store, assertion Assertion) error {
	if !validIdentifier.MatchString(assertion.Table) {
		return fmt.Errorf("invalid table name %q: must match pattern %s", assertion.Table, validIdentifier.String())
	}

	whereSQL, whereArgs, err := buildWhereClause(assertion.Where)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("SELECT * FROM %s", assertion.Table)
	if whereSQL != "" {
		query += " WHERE " + whereSQL
	}

	rows, err := st.Query(ctx, query, whereArgs...)
	if err != nil {
		return &AssertionError{
			Type:     AssertTraceState,
			Expected: fmt.Sprintf("query table %s", assertion.Table),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("get columns: %w", err)
	}

	if !rows.Next() {
		return &AssertionError{
			Type:     AssertTraceState,
			Expected: fmt.Sprintf("row in %s where %s", assertion.Table, formatWhereClause(assertion.Where)),
			Actual:   "row not found",
		}
	}

	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}
	if err := rows.Scan(valuePtrs...); err != nil {
		return fmt.Errorf("scan row: %w", err)
	}

	// A second matching row would make the assertion ambiguous.
	if rows.Next() {
		return &AssertionError{
			Type:     AssertTraceState,
			Expected: fmt.Sprintf("exactly one row in %s where %s", assertion.Table, formatWhereClause(assertion.Where)),
			Actual:   "multiple rows matched (assertion is ambiguous)",
		}
	}

	actualRow := make(map[string]any, len(columns))
	for i, col := range columns {
		actualRow[col] = values[i]
	}

	// Subset semantics - only check fields named in Expect.
	for key, expectedValue := range assertion.Expect {
		actualValue, exists := actualRow[key]
		if !exists {
			return &AssertionError{
				Type:     AssertTraceState,
				Expected: fmt.Sprintf("field %q to exist", key),
				Actual:   fmt.Sprintf("field %q not present in result columns: %v", key, columns),
			}
		}
		if !stateValuesEqual(expectedValue, actualValue) {
			return &AssertionError{
				Type:     AssertTraceState,
				Expected: fmt.Sprintf("field %q = %v (type %T)", key, expectedValue, expectedValue),
				Actual:   fmt.Sprintf("field %q = %v (type %T)", key, actualValue, actualValue),
			}
		}
	}

	return nil
}

// buildWhereClause constructs a parameterized WHERE clause. Returns the
// SQL fragment, arguments slice, and error. Keys are sorted for
// deterministic query generation.
//
// Security: Column names are validated against a whitelist pattern to
// prevent SQL injection via identifier interpolation.
func buildWhereClause(where map[string]any) (string, []any, error) {
	if len(where) == 0 {
		return "", nil, nil
	}

	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))

	for _, key := range keys {
		if !validIdentifier.MatchString(key) {
			return "", nil, fmt.Errorf("invalid column name %q in where clause: must match pattern %s", key, validIdentifier.String())
		}
		clauses = append(clauses, fmt.Sprintf("%s = ?", key))
		args = append(args, where[key])
	}

	return strings.Join(clauses, " AND "), args, nil
}

// formatWhereClause creates a human-readable description of WHERE conditions.
func formatWhereClause(where map[string]any) string {
	if len(where) == 0 {
		return "(no conditions)"
	}

	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

// stateValuesEqual compares expected and actual values from trace tables.
// Handles type coercion for SQLite values which may come back as
// different Go types than the YAML literals.
func stateValuesEqual(expected, actual any) bool {
	if expected == nil && actual == nil {
		return true
	}
	if expected == nil || actual == nil {
		return false
	}

	switch exp := expected.(type) {
	case string:
		actualStr, ok := actual.(string)
		return ok && exp == actualStr
	case int:
		if actualInt, ok := actual.(int64); ok {
			return int64(exp) == actualInt
		}
		actualInt, ok := actual.(int)
		return ok && exp == actualInt
	case int64:
		actualInt, ok := actual.(int64)
		return ok && exp == actualInt
	case bool:
		if actualBool, ok := actual.(bool); ok {
			return exp == actualBool
		}
		// SQLite stores booleans as integers.
		if actualInt, ok := actual.(int64); ok {
			return exp == (actualInt != 0)
		}
		return false
	}

	return fmt.Sprintf("%v", expected) == fmt.Sprintf("%v", actual)
}

func messages(reports []trace.Report) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.Message
	}
	return out
}

// AssertionContext provides access to the run's persisted reports and
// trace store for assertion evaluation.
type AssertionContext struct {
	Ctx     context.Context
	Store   *trace.Store
	Reports []trace.Report
}

// EvaluateAssertions evaluates all assertions against the run.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertReportContains:
			err = assertReportContains(actx.Reports, assertion)
		case AssertReportOrder:
			err = assertReportOrder(actx.Reports, assertion)
		case AssertReportCount:
			err = assertReportCount(actx.Reports, assertion)
		case AssertTraceState:
			if actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: trace_state requires a trace store", i)
			} else {
				err = assertTraceState(actx.Ctx, actx.Store, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	return errs
}

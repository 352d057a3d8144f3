package step

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/stepwright/internal/ui"
)

const (
	// DefaultExpectTimeout bounds how long an expect step polls for a
	// matching element.
	DefaultExpectTimeout = 2000 * time.Millisecond

	// expectPollInterval is the polling granularity of the expect loop.
	expectPollInterval = 50 * time.Millisecond
)

// handleExpect polls for an element matching the selector and validates
// attribute/text/value expectations against it. Succeeds as soon as every
// present check passes; fails once the timeout elapses without a pass.
func handleExpect(env *Env, d Decl, ctx Context, ok OnSuccess, fail OnFailure) {
	sel, errMsg := stringField(d.Fields, "selector")
	if errMsg != "" {
		fail("expect: "+errMsg, map[string]any{"type": d.Type})
		return
	}

	timeout := DefaultExpectTimeout
	if raw, present := d.Fields["timeout"]; present {
		t, numeric := asMillis(raw)
		if !numeric {
			fail("expect: timeout is not numeric", map[string]any{
				"timeout": fmt.Sprintf("%T", raw),
			})
			return
		}
		timeout = t
	}

	as, errMsg := optionalString(d.Fields, "as")
	if errMsg != "" {
		fail("expect: "+errMsg, nil)
		return
	}

	root := searchRoot(d, ctx)
	if root == nil {
		fail("expect: no active container to search", map[string]any{
			"selector": sel,
		})
		return
	}

	go func() {
		deadline := time.Now().Add(timeout)
		runCtx := env.context()

		lastMsg := "no element matches selector"
		lastDetails := map[string]any{"selector": sel}

		for {
			if el := root.Query(sel); el != nil {
				msg, details, err := checkElement(el, d.Fields)
				if err != nil {
					fail("expect: "+err.Error(), map[string]any{"selector": sel})
					return
				}
				if msg == "" {
					next := ctx
					if as != "" {
						next = ctx.With(as, el)
					}
					ok(next)
					return
				}
				lastMsg, lastDetails = msg, details
			}

			if !time.Now().Before(deadline) {
				lastDetails["selector"] = sel
				lastDetails["timeout"] = timeout.String()
				fail(fmt.Sprintf("expect: %s after %v", lastMsg, timeout), lastDetails)
				return
			}

			select {
			case <-time.After(expectPollInterval):
			case <-runCtx.Done():
				fail("expect: cancelled: "+runCtx.Err().Error(), map[string]any{
					"selector": sel,
				})
				return
			}
		}
	}()
}

// handleExpectNo succeeds iff no element matches the selector. With no
// active container, nothing can match, which counts as success.
func handleExpectNo(env *Env, d Decl, ctx Context, ok OnSuccess, fail OnFailure) {
	sel, errMsg := stringField(d.Fields, "selector")
	if errMsg != "" {
		fail("expect-no: "+errMsg, nil)
		return
	}

	root := searchRoot(d, ctx)
	if root != nil && root.Query(sel) != nil {
		fail("expect-no: a matching element exists", map[string]any{
			"selector": sel,
		})
		return
	}
	ok(ctx)
}

// handleExpectCount succeeds iff exactly count elements match. The `as`
// binding forwards the matched-element list into the context.
func handleExpectCount(env *Env, d Decl, ctx Context, ok OnSuccess, fail OnFailure) {
	sel, errMsg := stringField(d.Fields, "selector")
	if errMsg != "" {
		fail("expect-count: "+errMsg, nil)
		return
	}

	raw, present := d.Fields["count"]
	want, numeric := asInt(raw)
	if !present || !numeric {
		fail("expect-count: count is not numeric", map[string]any{
			"count": fmt.Sprintf("%T", raw),
		})
		return
	}

	as, errMsg := optionalString(d.Fields, "as")
	if errMsg != "" {
		fail("expect-count: "+errMsg, nil)
		return
	}

	var matches []ui.Element
	if root := searchRoot(d, ctx); root != nil {
		matches = root.QueryAll(sel)
	}

	if int64(len(matches)) != want {
		fail(fmt.Sprintf("expect-count: expected %d matches, found %d", want, len(matches)), map[string]any{
			"selector": sel,
			"expected": want,
			"actual":   len(matches),
		})
		return
	}

	next := ctx
	if as != "" {
		next = ctx.With(as, matches)
	}
	ok(next)
}

// checkElement validates the attribute/text/value expectations of an
// expect step against a found element. An empty message means every
// present check passed. A malformed expected-value type is returned as an
// error: it indicates a broken test definition, not a runtime condition.
func checkElement(el ui.Element, fields Fields) (string, map[string]any, error) {
	if raw, present := fields["attributes"]; present {
		attrs, err := attributeMap(raw)
		if err != nil {
			return "", nil, err
		}
		for name, want := range attrs {
			got, has := el.Attribute(name)
			if !has {
				return "attribute missing", map[string]any{
					"attribute": name, "expected": want,
				}, nil
			}
			if got != want {
				return "attribute mismatch", map[string]any{
					"attribute": name, "expected": want, "actual": got,
				}, nil
			}
		}
	}

	if want, present := fields["text"]; present {
		matched, err := matchText(want, el.Text())
		if err != nil {
			return "", nil, err
		}
		if !matched {
			return "text mismatch", map[string]any{
				"expected": fmt.Sprintf("%v", want), "actual": el.Text(),
			}, nil
		}
	}

	if want, present := fields["value"]; present {
		matched, err := matchText(want, el.Value())
		if err != nil {
			return "", nil, err
		}
		if !matched {
			return "value mismatch", map[string]any{
				"expected": fmt.Sprintf("%v", want), "actual": el.Value(),
			}, nil
		}
	}

	return "", nil, nil
}

// matchText applies the expect matching rule: a plain string needs only
// substring containment (NFC-normalized), while a pattern must match the
// whole text. Any other expected type is a usage error.
//
// The pattern is anchored before matching. Checking the bounds of the
// leftmost match instead would reject texts the pattern does match in
// full, e.g. `a|ab` against "ab".
func matchText(expected any, actual string) (bool, error) {
	switch want := expected.(type) {
	case string:
		return strings.Contains(norm.NFC.String(actual), norm.NFC.String(want)), nil
	case *regexp.Regexp:
		anchored, err := regexp.Compile("^(?:" + want.String() + ")$")
		if err != nil {
			return false, fmt.Errorf("anchor pattern %q: %w", want.String(), err)
		}
		return anchored.MatchString(actual), nil
	default:
		return false, fmt.Errorf("expected value must be a string or *regexp.Regexp, got %T", expected)
	}
}

// attributeMap normalizes the attributes field into name→expected string.
func attributeMap(raw any) (map[string]string, error) {
	switch m := raw.(type) {
	case map[string]string:
		return m, nil
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, v := range m {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("attribute %q: expected value must be a string, got %T", k, v)
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("attributes must be a map of string to string, got %T", raw)
	}
}

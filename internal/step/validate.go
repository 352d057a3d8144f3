package step

import "regexp"

// ValidateList checks every descriptor in a normalized step list before
// any execution. One invalid descriptor invalidates the whole run.
//
// Literal field values of the built-in types are type-checked here, per
// the usage-error taxonomy: a non-string selector or non-numeric count/ms
// written directly into a descriptor is a broken test definition. Values
// supplied as Resolver/Ref are only known at execution time and are
// checked there instead.
func (r *Registry) ValidateList(steps []Step) error {
	for i, s := range steps {
		switch s := s.(type) {
		case Func:
			if s.Run == nil {
				return NewDescriptorError(i, "functional step has no callable")
			}
		case Decl:
			if s.Type == "" {
				return NewDescriptorError(i, "declarative step is missing its type tag")
			}
			if err := validateDeclFields(i, s); err != nil {
				return err
			}
		case Group:
			return NewDescriptorError(i, "nested step group (groups are spliced one level only)")
		case nil:
			return NewDescriptorError(i, "nil step descriptor")
		default:
			return NewDescriptorError(i, "not a callable or a tagged descriptor")
		}
	}
	return nil
}

// validateDeclFields type-checks the literal fields of built-in steps.
func validateDeclFields(index int, d Decl) error {
	switch d.Type {
	case TypeExpect:
		if err := checkLiteralString(index, d, "selector", true); err != nil {
			return err
		}
		if err := checkLiteralNumeric(index, d, "timeout", false); err != nil {
			return err
		}
		for _, key := range []string{"text", "value"} {
			v, present := d.Fields[key]
			if !present || isResolvable(v) {
				continue
			}
			switch v.(type) {
			case string, *regexp.Regexp:
			default:
				return NewFieldError(index, d.Type, key, "must be a string or *regexp.Regexp")
			}
		}
		return checkLiteralString(index, d, "as", false)

	case TypeExpectNo:
		return checkLiteralString(index, d, "selector", true)

	case TypeExpectCount:
		if err := checkLiteralString(index, d, "selector", true); err != nil {
			return err
		}
		if err := checkLiteralNumeric(index, d, "count", true); err != nil {
			return err
		}
		return checkLiteralString(index, d, "as", false)

	case TypeClick:
		// selector/element presence is checked at execution: their absence
		// is a step failure, not a validation error.
		return checkLiteralString(index, d, "selector", false)

	case TypeInput:
		if err := checkLiteralString(index, d, "selector", false); err != nil {
			return err
		}
		v, present := d.Fields["text"]
		if !present {
			return NewFieldError(index, d.Type, "text", "is required")
		}
		// text is excluded from resolution; it must be a literal string.
		if _, ok := v.(string); !ok {
			return NewFieldError(index, d.Type, "text", "must be a literal string")
		}
		return nil

	case TypeWait:
		return checkLiteralNumeric(index, d, "ms", true)

	case TypeAwait:
		if _, present := d.Fields["promise"]; !present {
			return NewFieldError(index, d.Type, "promise", "is required")
		}
		return checkLiteralString(index, d, "as", false)
	}

	// render, cleanup, and extension types are checked by their handlers.
	return nil
}

func checkLiteralString(index int, d Decl, key string, required bool) error {
	v, present := d.Fields[key]
	if !present {
		if required {
			return NewFieldError(index, d.Type, key, "is required")
		}
		return nil
	}
	if isResolvable(v) {
		return nil
	}
	if _, ok := v.(string); !ok {
		return NewFieldError(index, d.Type, key, "must be a string")
	}
	return nil
}

func checkLiteralNumeric(index int, d Decl, key string, required bool) error {
	v, present := d.Fields[key]
	if !present {
		if required {
			return NewFieldError(index, d.Type, key, "is required")
		}
		return nil
	}
	if isResolvable(v) {
		return nil
	}
	if !isNumeric(v) {
		return NewFieldError(index, d.Type, key, "must be numeric")
	}
	return nil
}

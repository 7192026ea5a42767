package semantic

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	verr "github.com/nihei9/lilac/error"
)

var (
	errStdLibTooFewFields = errors.New("a signature needs a return type and a name")
	errStdLibUnknownType  = errors.New("unknown type")
	errStdLibDuplicate    = errors.New("duplicate function")
)

// ParseStdLib reads built-in function signatures, one `returnType name paramType...` per line. Blank lines
// are ignored.
func ParseStdLib(src string) ([]*Function, error) {
	var funcs []*Function
	var errs verr.SpecErrors
	seen := map[string]struct{}{}

	s := bufio.NewScanner(strings.NewReader(src))
	row := 0
	for s.Scan() {
		row++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			errs = append(errs, &verr.SpecError{
				Cause: errStdLibTooFewFields,
				Row:   row,
			})
			continue
		}

		ret, ok := parseType(fields[0])
		if !ok {
			errs = append(errs, &verr.SpecError{
				Cause:  errStdLibUnknownType,
				Detail: fields[0],
				Row:    row,
			})
			continue
		}
		f := &Function{
			RetType: ret,
			Name:    fields[1],
			Builtin: true,
		}
		valid := true
		for _, p := range fields[2:] {
			t, ok := parseType(p)
			if !ok || t == TypeVoid {
				errs = append(errs, &verr.SpecError{
					Cause:  errStdLibUnknownType,
					Detail: fmt.Sprintf("%v of %v", p, f.Name),
					Row:    row,
				})
				valid = false
				break
			}
			f.Params = append(f.Params, t)
		}
		if !valid {
			continue
		}
		if _, ok := seen[f.Name]; ok {
			errs = append(errs, &verr.SpecError{
				Cause:  errStdLibDuplicate,
				Detail: f.Name,
				Row:    row,
			})
			continue
		}
		seen[f.Name] = struct{}{}
		funcs = append(funcs, f)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return funcs, nil
}

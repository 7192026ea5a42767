package error

import (
	"errors"
	"strings"
	"testing"
)

func TestSpecError_Error(t *testing.T) {
	cause := errors.New("undefined symbol")
	tests := []struct {
		caption string
		err     *SpecError
		want    string
	}{
		{
			caption: "an error without a position prints only its cause",
			err: &SpecError{
				Cause: cause,
			},
			want: "error: undefined symbol",
		},
		{
			caption: "an error with a row and a column echoes the source line",
			err: &SpecError{
				Cause:      cause,
				Detail:     "<b>",
				SourceName: "grammar.txt",
				Source:     []byte("<s>-><a>\n<a>->[x]<b>\n"),
				Row:        2,
				Col:        9,
			},
			want: "grammar.txt: 2:9: error: undefined symbol: <b>\n    <a>->[x]<b>",
		},
		{
			caption: "a row beyond the source omits the echo",
			err: &SpecError{
				Cause:  cause,
				Source: []byte("<s>-><a>\n"),
				Row:    5,
			},
			want: "5: error: undefined symbol",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.want {
				t.Fatalf("unexpected message; want: %q, got: %q", tt.want, got)
			}
			if !errors.Is(tt.err, cause) {
				t.Fatalf("a spec error must unwrap to its cause")
			}
		})
	}
}

func TestSpecErrors_Error(t *testing.T) {
	errs := SpecErrors{
		&SpecError{Cause: errors.New("a"), Row: 1},
		&SpecError{Cause: errors.New("b"), Row: 2},
	}
	lines := strings.Split(errs.Error(), "\n")
	if len(lines) != 2 {
		t.Fatalf("each error must occupy one line; got: %v", lines)
	}
	if lines[0] != "1: error: a" || lines[1] != "2: error: b" {
		t.Fatalf("unexpected messages: %v", lines)
	}
}

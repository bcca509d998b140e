package rucc

import "testing"

func TestLex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []TokenType
		wantErr bool
	}{
		{
			name:  "empty",
			input: "",
			want:  []TokenType{EOF},
		},
		{
			name:  "punctuation and operators",
			input: "+ ++ += - -- -= * *= / /= % %= & && &= | || |= ^ ^= ~ ! != = == < <= << <<= > >= >> >>=",
			want: []TokenType{
				PLUS, PLUS_PLUS, PLUS_EQ, MINUS, MINUS_MINUS, MINUS_EQ,
				STAR, STAR_EQ, SLASH, SLASH_EQ, PERCENT, PERCENT_EQ,
				AMP, AMP_AMP, AMP_EQ, PIPE, PIPE_PIPE, PIPE_EQ, CARET, CARET_EQ, TILDE,
				BANG, BANG_EQ, ASSIGN, EQ_EQ, LESS, LESS_EQ, SHL, SHL_EQ,
				GREATER, GREATER_EQ, SHR, SHR_EQ, EOF,
			},
		},
		{
			name:  "keywords and identifiers",
			input: "void char int long if else for while return _x f2",
			want: []TokenType{
				VOID, CHAR, INT, LONG, IF, ELSE, FOR, WHILE, RETURN, IDENT, IDENT, EOF,
			},
		},
		{
			name:  "maximal munch of shift vs relational",
			input: "a < b << c >> d <= e",
			want:  []TokenType{IDENT, LESS, IDENT, SHL, IDENT, SHR, IDENT, LESS_EQ, IDENT, EOF},
		},
		{
			name:  "line comment consumes to but not including newline",
			input: "x // trailing\ny",
			want:  []TokenType{IDENT, IDENT, EOF},
		},
		{
			name:  "string literal performs no escape processing",
			input: `"a\nb"`,
			want:  []TokenType{STRING, EOF},
		},
		{
			name:    "unterminated string",
			input:   `"hello`,
			wantErr: true,
		},
		{
			name:    "unterminated string at newline",
			input:   "\"hello\nworld\"",
			wantErr: true,
		},
		{
			name:  "char literal",
			input: "'a'",
			want:  []TokenType{CHARLIT, EOF},
		},
		{
			name:    "char literal with more than one character",
			input:   "'ab'",
			wantErr: true,
		},
		{
			name:    "unexpected character",
			input:   "@",
			wantErr: true,
		},
		{
			name:    "number overflow is a scan error",
			input:   "99999999999999999999",
			wantErr: true,
		},
		{
			name:  "decimal numbers only",
			input: "0 123 007",
			want:  []TokenType{NUMBER, NUMBER, NUMBER, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, diags := Lex(tt.input)
			if tt.wantErr {
				if len(diags) == 0 {
					t.Fatalf("Lex(%q) = no error, want error", tt.input)
				}
				return
			}
			if len(diags) > 0 {
				t.Fatalf("Lex(%q) unexpected diagnostics: %v", tt.input, diags)
			}
			if len(toks) != len(tt.want) {
				t.Fatalf("Lex(%q) got %d tokens, want %d: %v", tt.input, len(toks), len(tt.want), toks)
			}
			for i, want := range tt.want {
				if toks[i].Type != want {
					t.Errorf("token %d: got %s, want %s", i, toks[i].Type, want)
				}
			}
		})
	}
}

// TestTokenColumnMonotonic exercises spec.md §8 invariant 1: the
// concatenation of (column, text-width) derived from consecutive tokens on a
// line is monotonically non-decreasing.
func TestTokenColumnMonotonic(t *testing.T) {
	toks, diags := Lex("int abc = 123 + foo;")
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	prevEnd := 0
	for _, tok := range toks {
		if tok.Type == EOF {
			continue
		}
		if tok.Column < prevEnd {
			t.Fatalf("token %v starts at column %d, before previous token ended at %d", tok, tok.Column, prevEnd)
		}
		prevEnd = tok.Column + len(tok.Lexeme)
	}
}

func TestLexCharLiteralRejectsNonASCII(t *testing.T) {
	_, diags := Lex("'é'")
	if len(diags) == 0 {
		t.Fatal("expected an error for a non-ASCII char literal")
	}
}

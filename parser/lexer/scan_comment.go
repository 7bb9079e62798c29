// Copyright © 2024 The ELPS authors

package lexer

import (
	"strings"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/parser/token"
)

// specialComments lists the directive labels, in match order.
var specialComments = []string{
	"jshint", "jslint", "members", "member", "globals", "global", "exported",
}

// scanComments scans a line or block comment.  A stray "*/" is reported
// and skipped, after which nil is returned so other scanners may run.
func (lex *Lexer) scanComments() *scanned {
	ch1, ch2 := lex.peek(0), lex.peek(1)
	startLine, startChar := lex.line, lex.char

	if ch1 == '*' && ch2 == '/' {
		lex.report(diagnostic.UnbegunComment, startLine, startChar)
		lex.skip(2)
		return nil
	}
	if ch1 != '/' || (ch2 != '*' && ch2 != '/') {
		return nil
	}

	if ch2 == '/' {
		rest := string(lex.input[2:])
		lex.skip(len(lex.input))
		return lex.commentToken("//", rest, false, false)
	}

	var body strings.Builder
	lex.inComment = true
	lex.skip(2)
	for lex.peek(0) != '*' || lex.peek(1) != '/' {
		if lex.peek(0) == eol {
			body.WriteByte('\n')
			if !lex.nextLine() {
				lex.report(diagnostic.UnclosedComment, startLine, startChar)
				lex.inComment = false
				return lex.commentToken("/*", body.String(), true, true)
			}
			continue
		}
		body.WriteRune(lex.peek(0))
		lex.skip(1)
	}
	lex.skip(2)
	lex.inComment = false
	return lex.commentToken("/*", body.String(), true, false)
}

// commentToken classifies a comment body.  Directive comments are marked
// special; an ignore:start or ignore:end payload toggles the lexer's
// suppression mode instead.
func (lex *Lexer) commentToken(label, body string, multiline, malformed bool) *scanned {
	value := label + body
	if multiline {
		value += "*/"
	}
	body = strings.ReplaceAll(body, "\n", " ")

	kind := token.CommentPlain
	special := false
	if label == "/*" && fallsThrough.MatchString(body) {
		special = true
		kind = token.CommentFallsThrough
	}

	for _, str := range specialComments {
		if special {
			break
		}
		if label == "//" && str != "jshint" {
			continue
		}
		if charAt(body, len(str)) == ' ' && strings.HasPrefix(body, str) {
			special = true
			label += str
			body = body[len(str):]
		}
		if !special && charAt(body, 0) == ' ' && charAt(body, len(str)+1) == ' ' &&
			strings.HasPrefix(body[1:], str) {
			special = true
			label += " " + str
			body = body[len(str)+1:]
		}
		if !special {
			continue
		}
		switch str {
		case "member":
			kind = token.CommentMembers
		case "global":
			kind = token.CommentGlobals
		default:
			kind = token.CommentKind(str)
			parts := strings.Split(body, ":")
			if len(parts) == 2 && strings.TrimSpace(parts[0]) == "ignore" {
				switch strings.TrimSpace(parts[1]) {
				case "start":
					lex.ignoring = true
					special = false
				case "end":
					lex.ignoring = false
					special = false
				}
			}
		}
		if !special {
			break
		}
	}

	return &scanned{
		typ:   token.COMMENT,
		value: value,
		comment: &token.CommentInfo{
			Kind:      kind,
			Body:      body,
			Special:   special,
			Multiline: multiline,
			Malformed: malformed,
		},
	}
}

// charAt returns the byte at i in s, or 0 when out of range.
func charAt(s string, i int) byte {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

package lexer

import (
	"fmt"
	"strings"

	"github.com/jlaustill/cnext/pkg/token"
)

// MisraFinding is a single MISRA 3.1/3.2 hit: non-fatal in isolation, but
// always reported (§4.1, §7).
type MisraFinding struct {
	Rule    string // "3.1" or "3.2"
	Pos     token.Position
	Message string
}

func (f MisraFinding) String() string {
	return fmt.Sprintf("%s: [MISRA %s] %s", f.Pos, f.Rule, f.Message)
}

// CheckComments runs the MISRA 3.1 (nested comment markers) and 3.2
// (line-splice in comments) checks over the hidden comment channel.
func CheckComments(comments []token.Comment) []MisraFinding {
	var findings []MisraFinding
	for _, c := range comments {
		findings = append(findings, check31(c)...)
		findings = append(findings, check32(c)...)
	}
	return findings
}

// check31 flags nested comment-start markers: `/*` inside any comment,
// `//` inside a block comment, and `/*` inside a line/doc comment. The
// `://` substring (URIs) is exempt.
func check31(c token.Comment) []MisraFinding {
	var out []MisraFinding
	body := c.Text

	if strings.Contains(body, "/*") {
		// The comment's own opening `/*` (block comments) doesn't count;
		// only markers strictly after the opening sequence matter.
		search := body
		if c.Form == token.BlockComment {
			search = strings.TrimPrefix(body, "/*")
		}
		if strings.Contains(search, "/*") {
			out = append(out, MisraFinding{Rule: "3.1", Pos: c.Pos, Message: "nested '/*' inside comment"})
		}
	}

	if c.Form == token.BlockComment {
		if containsBareSlashSlash(body) {
			out = append(out, MisraFinding{Rule: "3.1", Pos: c.Pos, Message: "nested '//' inside block comment"})
		}
	}

	return out
}

// containsBareSlashSlash reports whether body contains "//" that is not
// part of a "://" URI.
func containsBareSlashSlash(body string) bool {
	for i := 0; i+1 < len(body); i++ {
		if body[i] == '/' && body[i+1] == '/' {
			if i > 0 && body[i-1] == ':' {
				continue
			}
			return true
		}
	}
	return false
}

// check32 flags a line-comment or doc-comment whose last character is a
// backslash (a line-splice, MISRA 3.2). Block comments can't line-splice.
func check32(c token.Comment) []MisraFinding {
	if c.Form != token.LineComment && c.Form != token.DocComment {
		return nil
	}
	trimmed := strings.TrimRight(c.Text, " \t")
	if len(trimmed) == 0 || trimmed[len(trimmed)-1] != '\\' {
		return nil
	}
	return []MisraFinding{{Rule: "3.2", Pos: c.Pos, Message: "comment ends in a line-splicing backslash"}}
}

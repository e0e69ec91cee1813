package database

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/tableland/pkg/types"
)

var (
	identPattern  = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	createPattern = regexp.MustCompile(`(?i)^\s*create\s+table\s+(?:if\s+not\s+exists\s+)?([A-Za-z_][A-Za-z0-9_]*)`)
	tablePattern  = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*?_(\d+)_(\d+)\b`)
)

// isCreate reports whether statement creates a table.
func isCreate(statement string) bool {
	return createPattern.MatchString(statement)
}

// createPrefix returns the table prefix of a create statement and the
// statement with the table name suffixed by chainID. A name that already
// carries the chain suffix is kept.
func createPrefix(statement string, chainID int64) (prefix, normalized string) {
	loc := createPattern.FindStringSubmatchIndex(statement)
	if loc == nil {
		return "", statement
	}
	name := statement[loc[2]:loc[3]]
	suffix := "_" + strconv.FormatInt(chainID, 10)
	if p, ok := strings.CutSuffix(name, suffix); ok && p != "" {
		return p, statement
	}
	return name, statement[:loc[2]] + name + suffix + statement[loc[3]:]
}

// tableID returns the id of the first table on chainID named in statement.
func tableID(statement string, chainID int64) (string, error) {
	for _, seg := range segments(statement) {
		if seg.quoted {
			continue
		}
		for _, m := range tablePattern.FindAllStringSubmatch(seg.text, -1) {
			if m[1] == strconv.FormatInt(chainID, 10) {
				return m[2], nil
			}
		}
	}
	return "", fmt.Errorf("%w: chain %d", types.ErrNoTableID, chainID)
}

// substitute replaces identifiers that name an alias with the full table name.
// Quoted spans are left untouched.
func substitute(statement string, aliases map[string]string) string {
	if len(aliases) == 0 {
		return statement
	}
	var b strings.Builder
	b.Grow(len(statement))
	for _, seg := range segments(statement) {
		if seg.quoted {
			b.WriteString(seg.text)
			continue
		}
		b.WriteString(identPattern.ReplaceAllStringFunc(seg.text, func(ident string) string {
			if full, ok := aliases[ident]; ok {
				return full
			}
			return ident
		}))
	}
	return b.String()
}

// segment is a run of statement text, either inside quotes or outside.
type segment struct {
	text   string
	quoted bool
}

// segments splits statement at single, double and backtick quotes. A doubled
// quote closes and reopens a span, so escaped quotes stay inside it. An
// unterminated quote runs to the end of the statement.
func segments(statement string) []segment {
	var (
		out   []segment
		start int
		quote byte
	)
	for i := 0; i < len(statement); i++ {
		c := statement[i]
		switch {
		case quote == 0 && (c == '\'' || c == '"' || c == '`'):
			if i > start {
				out = append(out, segment{text: statement[start:i]})
			}
			quote, start = c, i
		case quote != 0 && c == quote:
			out = append(out, segment{text: statement[start : i+1], quoted: true})
			quote, start = 0, i+1
		}
	}
	if start < len(statement) {
		out = append(out, segment{text: statement[start:], quoted: quote != 0})
	}
	return out
}

// fullName is the registry name of a created table.
func fullName(prefix string, chainID int64, id string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, chainID, id)
}

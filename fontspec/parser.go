package fontspec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	fontLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Size", Pattern: `\d+(?:\.\d+)?(?:px|pt)`},
		{Name: "Number", Pattern: `\d+`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Comma", Pattern: `,`},
	})

	shorthandParser = participle.MustBuild[Shorthand](
		participle.Lexer(fontLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
		participle.CaseInsensitive("Ident"),
	)
)

// Shorthand is the AST of a CSS-like font shorthand such as
// `italic bold 48px "Noto Serif", serif`.
type Shorthand struct {
	Pos       lexer.Position `parser:"" json:"-"`
	Modifiers []string       `parser:"@( 'normal' | 'italic' | 'oblique' | 'bold' | 'bolder' | 'lighter' | Number )*"`
	Size      string         `parser:"@Size"`
	Families  []*Family      `parser:"( @@ ( Comma @@ )* )?"`
}

// Family is one entry of the family list, either quoted or a run of bare words.
type Family struct {
	Quoted *string  `parser:"  @String"`
	Words  []string `parser:"| @Ident+"`
}

// Name returns the family name as written.
func (f *Family) Name() string {
	if f == nil {
		return ""
	}
	if f.Quoted != nil {
		return strings.TrimSpace(*f.Quoted)
	}
	return strings.Join(f.Words, " ")
}

// Font is the evaluated form of a Shorthand.
type Font struct {
	// Size in pixels; pt values are converted at 96dpi like browsers do.
	Size     float64
	Families []string
	Bold     bool
	Italic   bool
}

// Family returns the first family or "sans-serif" when none was given.
func (f Font) Family() string {
	if len(f.Families) == 0 || f.Families[0] == "" {
		return "sans-serif"
	}
	return f.Families[0]
}

// Style returns a compact style keyword understood by the renderer: regular, bold, italic or bold-italic.
func (f Font) Style() string {
	switch {
	case f.Bold && f.Italic:
		return "bold-italic"
	case f.Bold:
		return "bold"
	case f.Italic:
		return "italic"
	default:
		return "regular"
	}
}

// ParseShorthand parses the raw AST without evaluating it.
func ParseShorthand(input string) (*Shorthand, error) {
	return shorthandParser.ParseString("", input)
}

// Parse 解析字体简写（例如 "48px sans-serif"）。
func Parse(input string) (Font, error) {
	if strings.TrimSpace(input) == "" {
		return Font{}, fmt.Errorf("字体描述为空")
	}
	ast, err := ParseShorthand(input)
	if err != nil {
		return Font{}, fmt.Errorf("解析字体描述 %q 失败: %w", input, err)
	}
	size, err := parseSize(ast.Size)
	if err != nil {
		return Font{}, err
	}
	font := Font{Size: size}
	for _, m := range ast.Modifiers {
		switch strings.ToLower(m) {
		case "bold", "bolder":
			font.Bold = true
		case "italic", "oblique":
			font.Italic = true
		case "normal", "lighter":
		default:
			if w, err := strconv.Atoi(m); err == nil && w >= 600 {
				font.Bold = true
			}
		}
	}
	for _, fam := range ast.Families {
		if name := fam.Name(); name != "" {
			font.Families = append(font.Families, name)
		}
	}
	return font, nil
}

func parseSize(raw string) (float64, error) {
	lower := strings.ToLower(raw)
	factor := 1.0
	num := lower
	switch {
	case strings.HasSuffix(lower, "px"):
		num = strings.TrimSuffix(lower, "px")
	case strings.HasSuffix(lower, "pt"):
		num = strings.TrimSuffix(lower, "pt")
		factor = 96.0 / 72.0
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("无法解析字号 %q: %w", raw, err)
	}
	px := v * factor
	if px < 1 {
		return 0, fmt.Errorf("字号不得小于 1px: %q", raw)
	}
	return px, nil
}

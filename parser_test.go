// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package louvre_test

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/mdhender/louvre"
)

// tree builds an expected node with children.
func tree(kind louvre.Kind, children ...*louvre.Node) *louvre.Node {
	n := louvre.NewNode(kind)
	for _, child := range children {
		n.AddChild(child)
	}
	return n
}

func text(s string) *louvre.Node {
	return louvre.NewTextNode(s)
}

func mustParse(t *testing.T, input string, options ...louvre.Option) *louvre.Node {
	t.Helper()
	root, err := louvre.Parse(input, options...)
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return root
}

func dump(t *testing.T, n *louvre.Node) string {
	t.Helper()
	var sb strings.Builder
	if err := louvre.Dump(&sb, n); err != nil {
		t.Fatalf("dump: %v", err)
	}
	return sb.String()
}

func TestParse_Title(t *testing.T) {
	root := mustParse(t, "#\n#center\nTHIS IS THE TITLE\n#end\n")

	want := tree(louvre.Root,
		tree(louvre.LineBreak),
		tree(louvre.Center, text("THIS IS THE TITLE")),
	)
	if !root.Equal(want) {
		t.Fatalf("got\n%swant\n%s", dump(t, root), dump(t, want))
	}
	if !root.IsRoot() {
		t.Errorf("returned node is not the root")
	}
}

func TestParse_JustifyParagraph(t *testing.T) {
	input := "#justify\nHello there, this is some text! #\n#paragraph\nAnd this is a paragraph!\n#end\n#end\n"
	root := mustParse(t, input)

	want := tree(louvre.Root,
		tree(louvre.Justify,
			text("Hello there, this is some text!"),
			tree(louvre.LineBreak),
			tree(louvre.Paragraph, text("And this is a paragraph!")),
		),
	)
	if !root.Equal(want) {
		t.Fatalf("got\n%swant\n%s", dump(t, root), dump(t, want))
	}
}

func TestParse_BasicDocument(t *testing.T) {
	input := "#\n" +
		"#center\n" +
		"THIS IS THE TITLE\n" +
		"#end\n" +
		"#\n" +
		"#justify\n" +
		"Hello there, this is some text! #\n" +
		"#paragraph\n" +
		"And this is a paragraph!\n" +
		"#end\n" +
		"#end\n"
	root := mustParse(t, input)

	want := tree(louvre.Root,
		tree(louvre.LineBreak),
		tree(louvre.Center, text("THIS IS THE TITLE")),
		tree(louvre.LineBreak),
		tree(louvre.Justify,
			text("Hello there, this is some text!"),
			tree(louvre.LineBreak),
			tree(louvre.Paragraph, text("And this is a paragraph!")),
		),
	)
	if !root.Equal(want) {
		t.Fatalf("got\n%swant\n%s", dump(t, root), dump(t, want))
	}

	for i, child := range root.Children {
		if child.Index != i {
			t.Errorf("child %d: Index = %d", i, child.Index)
		}
		if child.Parent != root {
			t.Errorf("child %d: Parent is not root", i)
		}
	}

	center := root.Children[1]
	if center.Tag == nil || center.Tag.Name != "center" {
		t.Fatalf("center tag = %+v, want name center", center.Tag)
	}
	if got, want := center.Tag.Location, (louvre.SourceLocation{Line: 2, Column: 2, Offset: 3}); got != want {
		t.Errorf("center location = %+v, want %+v", got, want)
	}
	if title := center.Children[0]; title.Tag != nil {
		t.Errorf("text node has tag %+v", title.Tag)
	}
}

func TestParse_PlainText(t *testing.T) {
	for _, tc := range []struct {
		name, input, want string
	}{
		{"single word", "hello", "hello"},
		{"space runs", "  hello \t world\n\nfoo  ", "hello world foo"},
		{"tabs dropped", "a\tb", "ab"},
		{"crlf", "one\r\ntwo\rthree", "one two three"},
		{"unicode", "àèìòù   áéíóú", "àèìòù áéíóú"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			root := mustParse(t, tc.input)
			if len(root.Children) != 1 {
				t.Fatalf("children = %d, want 1", len(root.Children))
			}
			if got := root.Children[0]; got.Kind != louvre.Text || got.Text != tc.want {
				t.Errorf("got %s %q, want Text %q", got.Kind, got.Text, tc.want)
			}
		})
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, input := range []string{"", " ", "\n\t\r\n  "} {
		root := mustParse(t, input)
		if !root.Is(louvre.Root) || len(root.Children) != 0 {
			t.Errorf("%q: got\n%s", input, dump(t, root))
		}
	}
}

func TestParse_RandomText(t *testing.T) {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789àèìòùáéíóú \n\t"
	chars := []rune(alphabet)
	rnd := rand.New(rand.NewSource(20251019))

	for i := 0; i < 50; i++ {
		src := make([]rune, 512)
		for j := range src {
			src[j] = chars[rnd.Intn(len(chars))]
		}
		input := string(src)
		want := strings.Join(strings.Fields(strings.ReplaceAll(input, "\t", "")), " ")

		root := mustParse(t, input)
		if want == "" {
			if len(root.Children) != 0 {
				t.Fatalf("%d: children = %d, want 0", i, len(root.Children))
			}
			continue
		}
		if len(root.Children) != 1 {
			t.Fatalf("%d: children = %d, want 1", i, len(root.Children))
		}
		if got := root.Children[0].Text; got != want {
			t.Fatalf("%d: text\n got %q\nwant %q", i, got, want)
		}
	}
}

func TestParse_EscapedHash(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		want  *louvre.Node
	}{
		{"inline", "price ## 5", tree(louvre.Root, text("price # 5"))},
		{"not a tag", "##center", tree(louvre.Root, text("#center"))},
		{"doubled", "####", tree(louvre.Root, text("##"))},
		{"escape then tag", "###center x#end", tree(louvre.Root, text("#"), tree(louvre.Center, text("x")))},
	} {
		t.Run(tc.name, func(t *testing.T) {
			root := mustParse(t, tc.input)
			if !root.Equal(tc.want) {
				t.Errorf("got\n%swant\n%s", dump(t, root), dump(t, tc.want))
			}
		})
	}
}

func TestParse_Nesting(t *testing.T) {
	root := mustParse(t, "#left #center #right deep #end after right #end after center #end after left")

	want := tree(louvre.Root,
		tree(louvre.Left,
			tree(louvre.Center,
				tree(louvre.Right, text("deep")),
				text("after right"),
			),
			text("after center"),
		),
		text("after left"),
	)
	if !root.Equal(want) {
		t.Fatalf("got\n%swant\n%s", dump(t, root), dump(t, want))
	}

	deep := root.Children[0].Children[0].Children[0].Children[0]
	if deep.Text != "deep" || deep.Depth() != 4 {
		t.Errorf("deep = %q at depth %d, want \"deep\" at depth 4", deep.Text, deep.Depth())
	}
	if deep.Root() != root {
		t.Errorf("Root() did not reach the tree root")
	}
}

func TestParse_Lists(t *testing.T) {
	input := `#numbers
#item first #end
#item second #end
#end
#bullets #item only #end #end`
	root := mustParse(t, input)

	numbers := louvre.FindAll(root, louvre.Numbers)
	if len(numbers) != 1 {
		t.Fatalf("numbers lists = %d, want 1", len(numbers))
	}
	items := louvre.Items(numbers[0])
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	for i, want := range []string{"first", "second"} {
		if got := items[i].Children[0].Text; got != want {
			t.Errorf("item %d = %q, want %q", i, got, want)
		}
	}
	if got := louvre.FindAll(root, louvre.Item); len(got) != 3 {
		t.Errorf("all items = %d, want 3", len(got))
	}
}

func TestParse_TagArguments(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		want  []string
	}{
		{"none", "#item x", nil},
		{"empty list", "#item() x", nil},
		{"one", "#item(a) x", []string{"a"}},
		{"spaces", "#item( one ,two_2 , ) x", []string{"one", "two_2"}},
		{"line breaks", "#item(\n a,\n b\n) x", []string{"a", "b"}},
		{"empty tag name", "#(a)", []string{"a"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p, err := louvre.NewParser(tc.input)
			if err != nil {
				t.Fatalf("new parser: %v", err)
			}
			doc, err := p.ParseDocument()
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			node := doc.Root.Children[0]
			if node.Tag == nil {
				t.Fatalf("node %s has no tag", node.Name())
			}
			if got := node.Tag.Arguments; strings.Join(got, "|") != strings.Join(tc.want, "|") || len(got) != len(tc.want) {
				t.Errorf("arguments = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParse_TagLocationAfterLineBreaks(t *testing.T) {
	_, err := louvre.Parse("a\r\n#bogus")
	var tagErr *louvre.TagError
	if !errors.As(err, &tagErr) {
		t.Fatalf("error = %v, want *TagError", err)
	}
	if got, want := tagErr.Tag.Location, (louvre.SourceLocation{Line: 2, Column: 2, Offset: 4}); got != want {
		t.Errorf("location = %+v, want %+v", got, want)
	}
}

func TestParse_UnknownTag(t *testing.T) {
	_, err := louvre.Parse("hello\n  #bogus(x, y) world")
	var tagErr *louvre.TagError
	if !errors.As(err, &tagErr) {
		t.Fatalf("error = %v, want *TagError", err)
	}
	if tagErr.Message != "Unknown tag" {
		t.Errorf("message = %q, want %q", tagErr.Message, "Unknown tag")
	}
	if tagErr.Tag.Name != "bogus" {
		t.Errorf("tag name = %q, want %q", tagErr.Tag.Name, "bogus")
	}
	if got, want := tagErr.Tag.Location, (louvre.SourceLocation{Line: 2, Column: 4, Offset: 9}); got != want {
		t.Errorf("location = %+v, want %+v", got, want)
	}
	if got := strings.Join(tagErr.Tag.Arguments, ","); got != "x,y" {
		t.Errorf("arguments = %q, want %q", got, "x,y")
	}
	if code := louvre.ErrorCode(err); code != louvre.ErrCodeTag {
		t.Errorf("ErrorCode = %q, want %q", code, louvre.ErrCodeTag)
	}
}

func TestParse_EndAtRoot(t *testing.T) {
	for _, input := range []string{
		"#end",
		"text #end",
		"#left a #end #end",
	} {
		_, err := louvre.Parse(input)
		var nodeErr *louvre.NodeError
		if !errors.As(err, &nodeErr) {
			t.Errorf("%q: error = %v, want *NodeError", input, err)
			continue
		}
		if nodeErr.Message != "Unexpected branch return at root level" {
			t.Errorf("%q: message = %q", input, nodeErr.Message)
		}
		if nodeErr.Node == nil || nodeErr.Node.Tag == nil || nodeErr.Node.Tag.Name != "end" {
			t.Errorf("%q: node = %+v, want the #end node", input, nodeErr.Node)
		}
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	for _, tc := range []struct {
		name    string
		input   string
		message string
		loc     louvre.SourceLocation
	}{
		{"missing paren", "#item(a, b", "Unexpected EOF", louvre.SourceLocation{Line: 1, Column: 11, Offset: 10}},
		{"open paren at end", "x\n#left(", "Unexpected EOF", louvre.SourceLocation{Line: 2, Column: 7, Offset: 8}},
		{"bad separator", "#item(a;b)", "Unexpected token", louvre.SourceLocation{Line: 1, Column: 8, Offset: 7}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			root, err := louvre.Parse(tc.input)
			if root != nil {
				t.Errorf("got a tree alongside an error")
			}
			var syntaxErr *louvre.SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("error = %v, want *SyntaxError", err)
			}
			if syntaxErr.Message != tc.message {
				t.Errorf("message = %q, want %q", syntaxErr.Message, tc.message)
			}
			if syntaxErr.Location != tc.loc {
				t.Errorf("location = %+v, want %+v", syntaxErr.Location, tc.loc)
			}
		})
	}
}

func TestParse_UnclosedBranch(t *testing.T) {
	// An unclosed branch is not an error: Parse returns the innermost open branch.
	p, err := louvre.NewParser("#bullets #item one")
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	open, err := p.Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !open.Is(louvre.Item) || !open.Parent.Is(louvre.Bullets) {
		t.Fatalf("open = %s under %s, want Item under Bullets", open.Name(), open.Parent.Name())
	}

	doc, err := p.ParseDocument()
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	if !doc.Unclosed() {
		t.Errorf("Unclosed = false, want true")
	}
	if !doc.Root.Is(louvre.Root) || len(doc.Root.Children) != 1 {
		t.Errorf("root = %s", dump(t, doc.Root))
	}
	if doc.Open.Root() != doc.Root {
		t.Errorf("open branch is not in the returned tree")
	}
}

func TestParse_CustomBindings(t *testing.T) {
	p, err := louvre.NewParser("#title(h1) Hello #end #center x #end")
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	p.AddTagBinding("title", func(tag *louvre.Tag) (louvre.Action, *louvre.Node) {
		return louvre.AddChildAndBranch, louvre.NewCustomNode("title-" + tag.Argument(0))
	})
	p.AddTagBinding("center", louvre.Bind(louvre.AddChildAndBranch, louvre.Group))

	root, err := p.Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(root.Children) != 2 {
		t.Fatalf("children = %d, want 2\n%s", len(root.Children), dump(t, root))
	}
	title := root.Children[0]
	if title.Kind != louvre.Custom || title.Name() != "title-h1" {
		t.Errorf("title = %s/%s, want Custom/title-h1", title.Kind, title.Name())
	}
	if title.Tag == nil || title.Tag.Name != "title" {
		t.Errorf("title tag = %+v", title.Tag)
	}
	if got := title.Children[0].Text; got != "Hello" {
		t.Errorf("title text = %q, want %q", got, "Hello")
	}
	if got := root.Children[1].Kind; got != louvre.Group {
		t.Errorf("overridden center = %s, want Group", got)
	}
}

func TestParse_IgnoreAction(t *testing.T) {
	var marks []string
	mark := func(tag *louvre.Tag) (louvre.Action, *louvre.Node) {
		marks = append(marks, tag.Argument(0))
		return louvre.Ignore, nil
	}
	root := mustParse(t, "#mark(a) text #mark(b)", louvre.WithBindings(louvre.Bindings{"mark": mark}))

	want := tree(louvre.Root, text("text"))
	if !root.Equal(want) {
		t.Errorf("got\n%swant\n%s", dump(t, root), dump(t, want))
	}
	if strings.Join(marks, ",") != "a,b" {
		t.Errorf("marks = %q, want [a b]", marks)
	}
}

func TestParse_Options(t *testing.T) {
	_, err := louvre.Parse("#center x #end", louvre.WithoutDefaults())
	var tagErr *louvre.TagError
	if !errors.As(err, &tagErr) {
		t.Errorf("without defaults: error = %v, want *TagError", err)
	}

	root := mustParse(t, "#note x", louvre.WithoutDefaults(), louvre.WithBindings(louvre.Bindings{
		"note": louvre.BindCustom(louvre.AddChild, "note"),
	}))
	if got := root.Children[0].Name(); got != "note" {
		t.Errorf("custom node = %q, want note", got)
	}

	if _, err := louvre.NewParser("", louvre.WithBindings(louvre.Bindings{"nil": nil})); err == nil {
		t.Errorf("nil binding: error = nil, want error")
	}
}

func TestParse_Idempotent(t *testing.T) {
	input := "#\n#center\nTITLE\n#end\n#numbers #item(1) one #end #item(2) two #end #end tail"

	p, err := louvre.NewParser(input)
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	first, err := p.Parse()
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	second, err := p.Parse()
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}
	third := mustParse(t, input)

	if first == second {
		t.Fatalf("re-parse returned the same tree instance")
	}
	if !first.Equal(second) || !first.Equal(third) {
		t.Errorf("trees differ:\n%s\n%s\n%s", dump(t, first), dump(t, second), dump(t, third))
	}
}

func TestParse_TextBeforeTagIsFlushed(t *testing.T) {
	root := mustParse(t, "#center Title#end")
	want := tree(louvre.Root, tree(louvre.Center, text("Title")))
	if !root.Equal(want) {
		t.Errorf("got\n%swant\n%s", dump(t, root), dump(t, want))
	}
}

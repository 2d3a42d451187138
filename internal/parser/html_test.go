package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/bilingual/internal/extract"
)

func TestHTMLParser_Blocks(t *testing.T) {
	input := `<html><head><title>Greeting</title><style>p{}</style></head>
<body>
  <h1>Welcome</h1>
  <p>Hello   <b>world</b>.<br>Second line.</p>
  <ul>
    <li>One</li>
    <li>Two</li>
  </ul>
  <script>alert("x")</script>
</body></html>`

	doc, err := (&HTMLParser{}).Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Greeting" {
		t.Errorf("expected title %q, got %q", "Greeting", doc.Title)
	}

	want := []string{"Welcome", "Hello world.\nSecond line.", "One", "Two"}
	if got := extract.ToParagraphs(doc); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
	if strings.Contains(extract.ToPlainText(doc), "alert") {
		t.Error("expected script content to be dropped")
	}
}

func TestHTMLParser_Fragment(t *testing.T) {
	doc, err := (&HTMLParser{}).Parse(strings.NewReader("<p>A.</p><p>B.</p>"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := extract.ToPlainText(doc); got != "A.\nB.\n" {
		t.Errorf("expected %q, got %q", "A.\nB.\n", got)
	}
}

func TestHTMLParser_PreservesPre(t *testing.T) {
	doc, err := (&HTMLParser{}).Parse(strings.NewReader("<pre>a  b\n  c</pre>"), "code.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := extract.ToParagraphs(doc); len(got) != 1 || got[0] != "a  b\n  c" {
		t.Errorf("expected preformatted text kept, got %q", got)
	}
}

package staging

import (
	"strings"

	"golang.org/x/net/html"
)

// Flash is one flash message extracted from the upload response fragment.
type Flash struct {
	Level   string // success, error, warning, info
	Message string
}

// ExtractFlashes pulls the .alert elements out of the HTML fragment the
// upload form answers with, so their messages can be redisplayed. An
// unparseable fragment yields no flashes rather than an error.
func ExtractFlashes(fragment string) []Flash {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil
	}

	var flashes []Flash

	var walk func(*html.Node)

	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level, ok := alertLevel(n); ok {
				flashes = append(flashes, Flash{Level: level, Message: nodeText(n)})
			}
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}

	walk(doc)

	return flashes
}

func alertLevel(n *html.Node) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}

		classes := strings.Fields(attr.Val)

		isAlert := false
		level := "info"

		for _, class := range classes {
			if class == "alert" {
				isAlert = true
			}

			if rest, ok := strings.CutPrefix(class, "alert-"); ok {
				level = rest
			}
		}

		return level, isAlert
	}

	return "", false
}

func nodeText(n *html.Node) string {
	var sb strings.Builder

	var walk func(*html.Node)

	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}

	walk(n)

	return strings.TrimSpace(sb.String())
}

// Package preview turns a session document into the standalone page shown
// in the sandboxed preview frame.
package preview

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"retro_site_builder/internal/types"
)

// ContentSecurityPolicy is sent with the standalone preview so the page runs
// scripts in an opaque origin, the same as the srcdoc iframe.
const ContentSecurityPolicy = "sandbox allow-scripts"

// errorTrap reports uncaught exceptions to the embedding shell and swallows
// them so they never reach the host page.
const errorTrap = `(function(){
  function report(msg){ try { parent.postMessage({type:"preview-error", message:String(msg)}, "*"); } catch (_) {} }
  window.addEventListener("error", function(e){ report(e.message); e.preventDefault(); });
  window.addEventListener("unhandledrejection", function(e){ report(e.reason); e.preventDefault(); });
})();`

// Compose builds a complete HTML document from the triple. The markup may be
// a fragment or a whole page; the parser never rejects input.
func Compose(doc types.WebsiteCode) (string, error) {
	root, err := html.Parse(strings.NewReader(doc.HTML))
	if err != nil {
		return "", fmt.Errorf("parse markup: %w", err)
	}

	head := find(root, atom.Head)
	if head == nil {
		return "", fmt.Errorf("parse markup: document has no head")
	}
	// Frameset pages have no body; the script then closes the html element.
	tail := find(root, atom.Body)
	if tail == nil {
		tail = head.Parent
	}

	if !hasCharset(head) {
		meta := &html.Node{Type: html.ElementNode, DataAtom: atom.Meta, Data: "meta",
			Attr: []html.Attribute{{Key: "charset", Val: "utf-8"}}}
		head.InsertBefore(meta, head.FirstChild)
	}
	head.InsertBefore(element(atom.Script, errorTrap), head.FirstChild)
	head.AppendChild(element(atom.Style, doc.CSS))
	if strings.TrimSpace(doc.JS) != "" {
		tail.AppendChild(element(atom.Script, doc.JS))
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>")
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			continue
		}
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("render preview: %w", err)
		}
	}
	return buf.String(), nil
}

// element builds a raw-text element; script and style children are emitted
// verbatim by the renderer.
func element(a atom.Atom, text string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, a); found != nil {
			return found
		}
	}
	return nil
}

func hasCharset(head *html.Node) bool {
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Meta {
			continue
		}
		for _, attr := range c.Attr {
			if strings.EqualFold(attr.Key, "charset") {
				return true
			}
		}
	}
	return false
}

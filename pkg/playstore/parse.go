package playstore

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ratedPattern = regexp.MustCompile(`(?i)rated\s+([0-9]+(?:[.,][0-9]+)?)\s+stars?`)

// parseTiles collects every app tile: an anchor linking to a details
// page. Tiles are returned in document order, first occurrence per app id.
func parseTiles(doc *html.Node, base string) []App {
	var apps []App
	seen := make(map[string]struct{})

	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.A {
			return true
		}
		appID := appIDFromHref(attr(n, "href"))
		if appID == "" {
			return true
		}
		if _, dup := seen[appID]; dup {
			return false
		}

		app := App{
			AppID: appID,
			URL:   detailsURL(base, appID),
			Free:  true,
		}
		app.Title = tileTitle(n)
		if img := find(n, func(c *html.Node) bool { return c.DataAtom == atom.Img }); img != nil {
			app.Icon = imageSource(img)
		}
		if label := find(n, func(c *html.Node) bool { return ratedPattern.MatchString(attr(c, "aria-label")) }); label != nil {
			app.Score, app.ScoreText = parseRated(attr(label, "aria-label"))
		}
		if app.Title == "" {
			return false
		}

		seen[appID] = struct{}{}
		apps = append(apps, app)
		return false
	})

	return apps
}

// parseDetails reads a details page from its meta tags and schema.org
// microdata.
func parseDetails(doc *html.Node) *App {
	app := &App{Free: true}

	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}

		switch n.DataAtom {
		case atom.Meta:
			content := attr(n, "content")
			switch attr(n, "property") {
			case "og:title":
				app.Title = strings.TrimSuffix(content, " - Apps on Google Play")
			case "og:description":
				app.Summary = content
			case "og:image":
				app.Icon = content
			case "og:url":
				app.URL = content
			}
			switch attr(n, "itemprop") {
			case "ratingValue":
				if v, err := strconv.ParseFloat(strings.ReplaceAll(content, ",", "."), 64); err == nil {
					app.Score = v
					app.ScoreText = strconv.FormatFloat(v, 'f', 1, 64)
				}
			case "price":
				app.Free = content == "" || content == "0"
				if !app.Free {
					app.PriceText = content
				}
			}
		case atom.A:
			href := attr(n, "href")
			if app.Developer == "" && (strings.Contains(href, "/store/apps/dev?id=") || strings.Contains(href, "/store/apps/developer?id=")) {
				app.Developer = strings.TrimSpace(text(n))
			}
		default:
			if app.Score == 0 {
				if label := attr(n, "aria-label"); ratedPattern.MatchString(label) {
					app.Score, app.ScoreText = parseRated(label)
				}
			}
		}
		return true
	})

	return app
}

func appIDFromHref(href string) string {
	if !strings.Contains(href, "/store/apps/details") {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Query().Get("id")
}

// tileTitle prefers an explicit title element, then the anchor's
// aria-label, then its visible text.
func tileTitle(a *html.Node) string {
	if n := find(a, func(c *html.Node) bool { return attr(c, "title") != "" }); n != nil {
		return strings.TrimSpace(attr(n, "title"))
	}
	if label := attr(a, "aria-label"); label != "" {
		return strings.TrimSpace(label)
	}
	return strings.TrimSpace(text(a))
}

func imageSource(img *html.Node) string {
	if src := attr(img, "src"); src != "" {
		return src
	}
	srcset := attr(img, "srcset")
	first, _, _ := strings.Cut(srcset, " ")
	return first
}

func parseRated(label string) (float64, string) {
	m := ratedPattern.FindStringSubmatch(label)
	if m == nil {
		return 0, ""
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0, ""
	}
	return v, strconv.FormatFloat(v, 'f', 1, 64)
}

// walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// find returns the first descendant of n (excluding n) matching pred.
func find(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && pred(c) {
			return c
		}
		if found := find(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// text concatenates the text nodes under n, separated by spaces.
func text(n *html.Node) string {
	var parts []string
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			if s := strings.TrimSpace(c.Data); s != "" {
				parts = append(parts, s)
			}
		}
		return true
	})
	return strings.Join(parts, " ")
}

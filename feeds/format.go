package feeds

import (
	"regexp"
	"strings"

	"vndbrss/vndb"

	"github.com/samber/lo"
)

const LinkSeparator = "<br><br>"

// LinksHTML renders external links as anchors. Every link, including the
// last one, is followed by sep.
func LinksHTML(links []vndb.ExtLink, sep string) string {
	if len(links) == 0 {
		return ""
	}

	anchors := lo.Map(links, func(link vndb.ExtLink, _ int) string {
		return `<a href="` + link.URL + `">` + link.Label + `</a>`
	})
	return strings.Join(anchors, sep) + sep
}

// PlatformsText renders platforms as "[win] [lin]" followed by a blank line
func PlatformsText(platforms []string) string {
	tags := lo.Map(platforms, func(platform string, _ int) string {
		return "[" + platform + "]"
	})
	return strings.Join(tags, " ") + LinkSeparator
}

type rewrite struct {
	pattern *regexp.Regexp
	replace func(string) string
}

func replaceWith(pattern, template string) rewrite {
	re := regexp.MustCompile(pattern)
	return rewrite{
		pattern: re,
		replace: func(s string) string { return re.ReplaceAllString(s, template) },
	}
}

// space matches Unicode whitespace, not only ASCII. Chinese notes commonly
// use the ideographic space U+3000 before ids and links.
const space = `[\s\v\x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`

var urlTag = regexp.MustCompile(`\[url=(.*?)\](.*?)\[/url\]`)

// Applied in order. https://vndb.org/d9#4 documents the markup.
var noteRewrites = []rewrite{
	replaceWith(`\[b\](.*?)\[/b\]`, "<strong>${1}</strong>"),
	replaceWith(`\[i\](.*?)\[/i\]`, "<em>${1}</em>"),
	replaceWith(`\[u\](.*?)\[/u\]`, "<u>${1}</u>"),
	replaceWith(`\[s\](.*?)\[/s\]`, "<del>${1}</del>"),
	{
		pattern: urlTag,
		replace: func(s string) string {
			return urlTag.ReplaceAllStringFunc(s, func(match string) string {
				parts := urlTag.FindStringSubmatch(match)
				href, text := parts[1], parts[2]
				if strings.HasPrefix(href, "/") {
					href = SiteURL + href
				}
				return `<a href="` + href + `">` + text + `</a>`
			})
		},
	},
	replaceWith(`\[spoiler\](.*?)\[/spoiler\]`, `<span class="spoiler">${1}</span>`),
	replaceWith(`\[quote\](.*?)\[/quote\]`, "<blockquote>${1}</blockquote>"),
	replaceWith(`\[code\](.*?)\[/code\]`, "<pre><code>${1}</code></pre>"),
	replaceWith(`\[raw\](.*?)\[/raw\]`, "${1}"),
	// VNDB ids such as v17 or r123.4
	replaceWith(`(`+space+`)([cdprsuv]\d+(?:\.\d+)?)`, `${1}<a href="https://vndb.org/${2}">${2}</a>`),
	// Shorten bare URLs
	replaceWith(`(`+space+`)(https?://.+?)(`+space+`|$)`, `${1}<a href="${2}">link</a>${3}`),
	replaceWith(`\n`, "<br>"),
}

// NotesHTML converts release notes written in VNDB's BBCode dialect to HTML.
// Nil notes render as nothing.
func NotesHTML(notes *string) string {
	if notes == nil {
		return ""
	}

	formatted := *notes
	for _, rw := range noteRewrites {
		formatted = rw.replace(formatted)
	}
	return "<blockquote>" + formatted + "</blockquote>"
}

// FilterImages splits images into those safe to show and those excluded.
// Unless nsfw is set, any image voted suggestive, violent or not voted on
// at all is excluded.
func FilterImages(images []vndb.Image, nsfw bool) (kept, excluded []vndb.Image) {
	if nsfw {
		return images, nil
	}
	return lo.FilterReject(images, func(image vndb.Image, _ int) bool {
		return image.Sexual < 1 && image.Violence < 1 && image.VoteCount >= 1
	})
}

func ImagesHTML(images []vndb.Image) string {
	tags := lo.Map(images, func(image vndb.Image, _ int) string {
		return `<img src="` + strings.TrimSpace(image.URL) + `" alt="Visual Novel Image" class="vndb-image">`
	})
	return strings.Join(tags, "<br>")
}

// ItemTitle picks the release title shown in the feed. Feeds preferring the
// alttitle fall back to the main title when the release has none.
func ItemTitle(release vndb.Release, preferAltTitle bool) string {
	if preferAltTitle && release.AltTitle != "" {
		return release.AltTitle
	}
	return release.Title
}

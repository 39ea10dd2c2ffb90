package fedi

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML 把帖子 HTML 转为纯文本，段落和换行标签保留为换行
func StripHTML(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(tagPattern.ReplaceAllString(html, ""))
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p").AppendHtml("\n")
	return strings.TrimSpace(doc.Text())
}

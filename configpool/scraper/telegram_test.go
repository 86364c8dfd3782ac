package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestPreviewURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://t.me/somechannel", "https://t.me/s/somechannel"},
		{"https://t.me/somechannel/", "https://t.me/s/somechannel"},
		{"https://t.me/s/somechannel", "https://t.me/s/somechannel"},
		{"https://telegram.me/somechannel", "https://t.me/s/somechannel"},
	}
	for _, tc := range cases {
		if got := previewURL(tc.in); got != tc.want {
			t.Errorf("previewURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMessageLinks_TextAndHrefs(t *testing.T) {
	html := `<div class="tgme_widget_message_text">
		fresh config: vless://u@host.example:443?type=ws&amp;security=tls&amp;host=e
		<a href="vless://v@other.example:443?type=grpc&amp;security=tls&amp;serviceName=s">tap here</a>
	</div>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}

	links := messageLinks(doc.Find(".tgme_widget_message_text"))
	if len(links) != 2 {
		t.Fatalf("messageLinks returned %d links, want 2: %v", len(links), links)
	}
	if links[0] != "vless://u@host.example:443?type=ws&security=tls&host=e" {
		t.Errorf("text link = %q", links[0])
	}
	if links[1] != "vless://v@other.example:443?type=grpc&security=tls&serviceName=s" {
		t.Errorf("href link = %q", links[1])
	}
}

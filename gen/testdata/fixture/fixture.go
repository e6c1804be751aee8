package fixture

import (
	"strings"
	"time"

	"golang.org/x/net/html"
)

type Repo struct {
	_ struct{} `css:"li.repo" xpath:"//li[@class='repo']"`

	Name  string       `css:"a.name" xpath:".//a[@class='name']" extract:"text" default:"<unnamed>"`
	Lang  *string      `css:"span.lang" xpath:".//span[@class='lang']" extract:"text"`
	Tags  []string     `css:".tag" xpath:".//span[@class='tag']" extract:"text"`
	Stars int          `css:"a.name" xpath:".//a[@class='name']" extract:"attr=data-stars" default:"0"`
	Owner Owner        `css:".owner" xpath:".//div[@class='owner']"`
	Raw   []*html.Node `css:".tag" xpath:".//span[@class='tag']"`
	Seen  time.Time    `css:"time" extract:"attr=datetime" default:"2020-01-01T00:00:00Z"`
	Link  Link         `css:"a.name"`

	internal string
}

type Owner struct {
	Login string `css:"a" xpath:".//a" extract:"text" default:""`
}

type Link struct {
	Href string
}

func (l *Link) UnmarshalHTML(nodes []*html.Node) error {
	for _, n := range nodes {
		for _, a := range n.Attr {
			if a.Key == "href" {
				l.Href = strings.TrimSpace(a.Val)
			}
		}
	}
	return nil
}

type Unrelated struct {
	Value string
}

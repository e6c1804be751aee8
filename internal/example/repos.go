// Package example holds annotated types together with the code scrapegen
// derives for them.
package example

//go:generate go run astuart.co/scrape/cmd/scrapegen derive --output scrape_gen.go .

// Repo is one entry of a repository listing.
type Repo struct {
	_ struct{} `css:"#repos > li" xpath:"//ul[@id='repos']/li"`

	Name    string   `css:"a.name" xpath:".//a[@class='name']" extract:"text" default:"<unnamed>"`
	URL     string   `css:"a.name" xpath:".//a[@class='name']" extract:"attr=href" default:""`
	Lang    *string  `css:"span.lang" xpath:".//span[@class='lang']" extract:"text"`
	Topics  []string `css:".topics > a" xpath:".//div[@class='topics']/a" extract:"text"`
	Stars   int      `css:"a.stars" xpath:".//a[@class='stars']" extract:"attr=data-count" default:"0"`
	Private bool     `extract:"has_class=private"`
	Owner   *Owner   `css:".owner" xpath:".//div[@class='owner']"`
}

// Owner is the account a Repo belongs to.
type Owner struct {
	Login string  `css:"a" xpath:"./a" extract:"text" default:""`
	ID    *string `extract:"id"`
}

package webscrapingdev

import "time"

// Review is a single customer review from the GraphQL api.
type Review struct {
	Id     string
	Title  string
	Text   string
	Rating int
	Date   time.Time
}

// Product is one card off the paginated catalog listing.
type Product struct {
	Id          string
	Name        string
	Url         string
	Price       string
	Description string
	Image       string
}

// Testimonial is one block off the infinite-scroll testimonial feed.
type Testimonial struct {
	Id     string
	Text   string
	Author string
	Rating int
}

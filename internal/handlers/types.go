package handlers

import (
	"time"

	"github.com/serroba/shlink-go/internal/visits"
)

// CreateShortURLRequest is the request body for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		LongURL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" format:"uri" json:"longUrl" minLength:"1"`
	}
}

// CreateShortURLResponse is the response for a successfully created short URL.
type CreateShortURLResponse struct {
	Location string `doc:"The short URL location" header:"Location"`
	Body     struct {
		ShortCode   string    `doc:"The short code"     example:"abc123"                             json:"shortCode"`
		ShortURL    string    `doc:"The full short URL" example:"http://localhost:8888/abc123"       json:"shortUrl"`
		LongURL     string    `doc:"The original URL"   example:"https://example.com/very/long/path" json:"longUrl"`
		DateCreated time.Time `doc:"Creation date"      json:"dateCreated"`
	}
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	ShortCode string `doc:"The short code" example:"abc123" path:"shortCode"`
}

// RedirectResponse redirects the client to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}

// ListVisitsRequest selects a page of a short URL's visits.
type ListVisitsRequest struct {
	ShortCode    string `doc:"The short code" example:"abc123" path:"shortCode"`
	Page         int    `default:"1" doc:"Page to return, starting at 1" minimum:"1" query:"page"`
	ItemsPerPage int    `default:"10" doc:"Visits per page" maximum:"1000" minimum:"1" query:"itemsPerPage"`
}

// Pagination describes the page returned by ListVisits.
type Pagination struct {
	CurrentPage        int `json:"currentPage"`
	PagesCount         int `json:"pagesCount"`
	ItemsPerPage       int `json:"itemsPerPage"`
	ItemsInCurrentPage int `json:"itemsInCurrentPage"`
	TotalItems         int `json:"totalItems"`
}

// VisitsPage is one page of visits, newest first.
type VisitsPage struct {
	Data       []visits.Visit `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// ListVisitsResponse is the response for the visit history endpoint.
type ListVisitsResponse struct {
	Body struct {
		Visits VisitsPage `json:"visits"`
	}
}

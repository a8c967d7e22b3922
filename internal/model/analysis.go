package model

import "time"

// Confidence is how sure the vision model is about a detected book.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// BookshelfRecord is one book detected on a bookshelf photo.
type BookshelfRecord struct {
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	Confidence Confidence `json:"confidence"`
}

// BookshelfAnalysis is the outcome of a bookshelf photo analysis.
type BookshelfAnalysis struct {
	Books         []BookshelfRecord
	CSVFile       string
	PhotoFilename string
	FullAnalysis  string
	AnalyzedAt    time.Time
}

// Reminder is generated text about a single book.
type Reminder struct {
	Book Book
	Text string
}

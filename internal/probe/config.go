package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Clients  int           // Number of concurrent GET /daily-word calls
	Workers  int           // Number of concurrent workers
	TestDate string        // Optional testdate override
	Timeout  time.Duration // HTTP request timeout
	Verbose  bool          // Log every response
}

// Word is the body of GET /daily-word.
type Word struct {
	WordPrimary   string `json:"word_primary"`
	WordSecondary string `json:"word_secondary"`
	ActiveDate    string `json:"active_date"`
}

// Stats holds probe statistics.
type Stats struct {
	Requests  int
	Succeeded int
	Failed    int
	Distinct  int
	Word      Word
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Package identify extracts year, make, model, trim, body style and colour
// from free-text descriptions, listing URLs and listing pages.
package identify

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ajharbinger/lotpilot/internal/errors"
	"github.com/ajharbinger/lotpilot/internal/logger"
)

const (
	makeNameConfidence  = 90
	modelNameConfidence = 85
	yearConfidence      = 90
	trimScore           = 70
	bodyScore           = 60
)

var yearPattern = regexp.MustCompile(`20[0-2][0-9]|19[89][0-9]`)

var trimPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(trimKeywords))
	for i, t := range trimKeywords {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(t.keyword) + `\b`)
	}
	return patterns
}()

// Request carries whatever the caller knows about the vehicle. ImageBase64
// is accepted but not inspected.
type Request struct {
	Description  string `json:"description"`
	URL          string `json:"url"`
	ImageBase64  string `json:"image_base64"`
	ListingHTML  string `json:"listing_html"`
	FetchListing bool   `json:"fetch_listing"`
}

func (r Request) empty() bool {
	return r.Description == "" && r.URL == "" && r.ImageBase64 == "" && r.ListingHTML == ""
}

// Identified holds the detected attributes; nil means not detected
type Identified struct {
	Year      *int    `json:"year"`
	Make      *string `json:"make"`
	Model     *string `json:"model"`
	Trim      *string `json:"trim"`
	BodyStyle *string `json:"body_style"`
	Color     *string `json:"color"`
}

// Confidence grades the identification
type Confidence struct {
	Level          string `json:"level"`
	Percent        int    `json:"percent"`
	MakeConfidence int    `json:"make_confidence"`
	YearConfidence int    `json:"year_confidence"`
}

// Identification is the outcome of one identify call
type Identification struct {
	Identified     Identified `json:"identified"`
	Confidence     Confidence `json:"confidence"`
	MissingData    []string   `json:"missing_data"`
	Recommendation string     `json:"recommendation"`
	Sources        []string   `json:"sources"`
}

// Identifier runs keyword identification, optionally fetching listing pages
type Identifier struct {
	fetcher *ListingFetcher
	log     logger.Logger
}

// NewIdentifier creates an identifier. A nil fetcher disables FetchListing.
func NewIdentifier(fetcher *ListingFetcher, log logger.Logger) *Identifier {
	return &Identifier{
		fetcher: fetcher,
		log:     log,
	}
}

// FetchHealth reports listing fetch health, or nil when fetching is disabled
func (id *Identifier) FetchHealth() *FetchHealthStatus {
	if id.fetcher == nil {
		return nil
	}
	status := id.fetcher.Health()
	return &status
}

// Identify scans every supplied text source for vehicle attributes
func (id *Identifier) Identify(ctx context.Context, req Request) (*Identification, error) {
	if req.empty() {
		return nil, errors.InvalidInput("Provide description, url, listing_html, or image_base64", nil).
			WithOperation("identify")
	}

	parts := []string{req.Description, req.URL}
	sources := []string{}
	if req.Description != "" {
		sources = append(sources, "description")
	}
	if req.URL != "" {
		sources = append(sources, "url")
	}

	if req.ListingHTML != "" {
		text, err := ExtractListingText(strings.NewReader(req.ListingHTML))
		if err != nil {
			return nil, errors.InvalidInput("listing_html could not be parsed", err).WithOperation("identify")
		}
		parts = append(parts, text)
		sources = append(sources, "listing_html")
	}

	if req.FetchListing && req.URL != "" && id.fetcher != nil {
		text, err := id.fetcher.Fetch(ctx, req.URL)
		if err != nil {
			id.log.Warn("listing fetch failed, continuing with supplied text", "url", req.URL, "error", err)
		} else {
			parts = append(parts, text)
			sources = append(sources, "listing_page")
		}
	}

	return identifyText(strings.ToLower(strings.Join(parts, " ")), sources), nil
}

func identifyText(text string, sources []string) *Identification {
	brand, model, makeConf := detectMake(text)

	var year *int
	yearConf := 0
	if match := yearPattern.FindString(text); match != "" {
		y, _ := strconv.Atoi(match)
		year = &y
		yearConf = yearConfidence
	}

	trim := detectTrim(text)
	body := detectBody(text)
	color := detectColor(text)

	scores := []int{makeConf, yearConf}
	if model != "" {
		scores = append(scores, modelNameConfidence)
	}
	if trim != "" {
		scores = append(scores, trimScore)
	}
	if body != "" {
		scores = append(scores, bodyScore)
	}
	total := 0
	for _, s := range scores {
		total += s
	}
	overall := float64(total) / float64(len(scores))

	level := "LOW"
	switch {
	case overall >= 75:
		level = "HIGH"
	case overall >= 50:
		level = "MEDIUM"
	}

	var missing []string
	if brand == "" {
		missing = append(missing, "Make not identified: need badge, logo, or explicit mention")
	}
	if model == "" {
		missing = append(missing, "Model not identified: need rear badge or listing text")
	}
	if year == nil {
		missing = append(missing, "Year not identified: need listing data or generation cues")
	}
	if trim == "" {
		missing = append(missing, "Trim not identified: need badge detail or window sticker")
	}
	if color == "" {
		missing = append(missing, "Color not confirmed from description")
	}

	recommendation := "Proceed with structured input for highest accuracy."
	if level == "HIGH" {
		recommendation = "High-confidence identification. Ready for analysis."
	}

	return &Identification{
		Identified: Identified{
			Year:      year,
			Make:      titled(brand),
			Model:     titled(model),
			Trim:      optional(trim),
			BodyStyle: optional(body),
			Color:     titled(color),
		},
		Confidence: Confidence{
			Level:          level,
			Percent:        int(math.Round(overall)),
			MakeConfidence: makeConf,
			YearConfidence: yearConf,
		},
		MissingData:    missing,
		Recommendation: recommendation,
		Sources:        sources,
	}
}

// detectMake returns the make, the model keyword that matched (if any) and
// the make confidence. An explicit make name beats a model-implied make;
// switching makes drops a model that belonged to the previous one.
func detectMake(text string) (brand, model string, confidence int) {
	for _, entry := range makeKeywords {
		for _, kw := range entry.keywords {
			if !strings.Contains(text, kw) {
				continue
			}
			if kw == entry.make {
				if confidence < makeNameConfidence {
					if brand != entry.make {
						model = ""
					}
					brand, confidence = entry.make, makeNameConfidence
				}
				continue
			}
			switch {
			case confidence < modelNameConfidence:
				brand, model, confidence = entry.make, kw, modelNameConfidence
			case model == "" && brand == entry.make:
				model = kw
			}
		}
	}
	return brand, model, confidence
}

func detectTrim(text string) string {
	for i, re := range trimPatterns {
		if re.MatchString(text) {
			return trimKeywords[i].label
		}
	}
	return ""
}

func detectBody(text string) string {
	found := ""
	for _, b := range bodyStyles {
		for _, kw := range b.keywords {
			if strings.Contains(text, kw) {
				found = b.style
				break
			}
		}
	}
	return found
}

func detectColor(text string) string {
	for _, c := range colorKeywords {
		if strings.Contains(text, c) {
			return c
		}
	}
	return ""
}

func titled(s string) *string {
	if s == "" {
		return nil
	}
	t := cases.Title(language.English).String(s)
	return &t
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
